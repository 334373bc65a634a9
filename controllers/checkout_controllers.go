package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
)

// todayKeyword is accepted by the JSON API as the schedule date.
const todayKeyword = "Hoy"

type CheckoutController struct {
	Checkout *services.CheckoutService
	Clock    func() time.Time
}

func NewCheckoutController(checkout *services.CheckoutService, clock func() time.Time) *CheckoutController {
	return &CheckoutController{Checkout: checkout, Clock: clock}
}

// Submit handles the checkout form. Validation failures re-render the form with 400;
// nothing is written before validation passes.
func (cc *CheckoutController) Submit(c *gin.Context) {
	now := cc.Clock()

	var form services.CheckoutInput
	if err := c.ShouldBind(&form); err != nil {
		renderPage(c, http.StatusBadRequest, "checkout.html", checkoutPageData(form, now, "Formulario inválido"))
		return
	}

	valid, err := services.ValidateCheckout(form, now)
	if err != nil {
		renderPage(c, http.StatusBadRequest, "checkout.html", checkoutPageData(form, now, err.Error()))
		return
	}

	sessionUser := utils.UserID(c.Request.Context())
	order, err := cc.Checkout.PlaceOrder(c.Request.Context(), valid, sessionUser)
	if err != nil {
		utils.ErrorLogger.WithError(err).
			WithField("request_id", c.GetString("request_id")).
			Error("checkout failed")
		renderPage(c, http.StatusInternalServerError, "checkout.html",
			checkoutPageData(form, now, "No pudimos registrar tu pedido. Intenta de nuevo."))
		return
	}

	if sessionUser != nil {
		c.Redirect(http.StatusSeeOther, "/pedidos")
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/gracias?orden=%d", order.ID))
}

// CreateAPI is the JSON checkout. It accepts the same fields as the form.
func (cc *CheckoutController) CreateAPI(c *gin.Context) {
	now := cc.Clock()

	var in services.CheckoutInput
	if err := c.ShouldBind(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Cuerpo de la solicitud inválido"))
		return
	}
	if strings.EqualFold(strings.TrimSpace(in.ScheduleDate), todayKeyword) {
		in.ScheduleDate = now.Format(services.DateLayout)
	}

	valid, err := services.ValidateCheckout(in, now)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Checkout.PlaceOrder(c.Request.Context(), valid, utils.UserID(c.Request.Context()))
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pedido registrado",
		"orderId": order.ID,
	})
}
