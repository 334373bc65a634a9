package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	Orders   *services.OrderService
	Store    sessions.Store
	Location *time.Location
}

func NewOrderController(orders *services.OrderService, store sessions.Store, loc *time.Location) *OrderController {
	return &OrderController{Orders: orders, Store: store, Location: loc}
}

type addLineRequest struct {
	DishID   uint `form:"plato_id" json:"plato_id" binding:"required"`
	Quantity int  `form:"cantidad" json:"cantidad"`
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

func parsePageID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		renderError(c, http.StatusNotFound, "Pedido no encontrado")
		return 0, false
	}
	return uint(id), true
}

// caller returns the authenticated user id; routes using it sit behind an auth guard.
func caller(c *gin.Context) uint {
	id, _ := utils.IdentityFromContext(c.Request.Context())
	return id.ID
}

// Pages

func (oc *OrderController) MyOrders(c *gin.Context) {
	orders, err := oc.Orders.ListForUser(c.Request.Context(), caller(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "pedidos.html", takeFlashes(c, oc.Store, gin.H{
		"Title":  "Mis pedidos",
		"Orders": orders,
	}))
}

func (oc *OrderController) ShowOrder(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), orderID, caller(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "pedido.html", takeFlashes(c, oc.Store, gin.H{
		"Title": fmt.Sprintf("Pedido #%d", order.ID),
		"Order": order,
	}))
}

// afterPageAction redirects back to the order, flashing recoverable errors. Missing
// orders and foreign orders get the error page instead.
func (oc *OrderController) afterPageAction(c *gin.Context, orderID uint, err error, okMessage string) {
	target := fmt.Sprintf("/pedidos/%d", orderID)
	if err != nil {
		code, message := statusFor(err)
		if code == http.StatusInternalServerError || code == http.StatusForbidden ||
			(code == http.StatusNotFound && message == "Pedido no encontrado") {
			renderServiceError(c, err)
			return
		}
		addFlash(c, oc.Store, flashError, message)
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	addFlash(c, oc.Store, flashOK, okMessage)
	c.Redirect(http.StatusSeeOther, target)
}

func (oc *OrderController) AddLinePage(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	var req addLineRequest
	if err := c.ShouldBind(&req); err != nil {
		oc.afterPageAction(c, orderID, services.ErrDishNotFound, "")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	_, err := oc.Orders.AddLine(c.Request.Context(), orderID, caller(c), req.DishID, req.Quantity)
	oc.afterPageAction(c, orderID, err, "Plato agregado")
}

func (oc *OrderController) RemoveLinePage(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	lineID, ok := parsePageID(c, "lineaId")
	if !ok {
		return
	}
	err := oc.Orders.RemoveLine(c.Request.Context(), orderID, lineID, caller(c))
	oc.afterPageAction(c, orderID, err, "Plato eliminado del pedido")
}

func (oc *OrderController) ConfirmPage(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	_, err := oc.Orders.Confirm(c.Request.Context(), orderID, caller(c))
	oc.afterPageAction(c, orderID, err, "Pedido confirmado")
}

func (oc *OrderController) DeletePage(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), orderID, caller(c)); err != nil {
		renderServiceError(c, err)
		return
	}
	addFlash(c, oc.Store, flashOK, fmt.Sprintf("Pedido #%d eliminado", orderID))
	c.Redirect(http.StatusSeeOther, "/pedidos")
}

func (oc *OrderController) Receipt(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), orderID, caller(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteReceipt(&buf, order, oc.Location); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="recibo-%d.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// JSON API

func (oc *OrderController) ListMine(c *gin.Context) {
	orders, err := oc.Orders.ListForUser(c.Request.Context(), caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedidos", orderViews(orders))
}

func (oc *OrderController) GetAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), orderID, caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedido", newOrderView(order))
}

func (oc *OrderController) AddLineAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return
	}
	line, err := oc.Orders.AddLine(c.Request.Context(), orderID, caller(c), req.DishID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Plato agregado", line)
}

func (oc *OrderController) RemoveLineAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "lineaId")
	if !ok {
		return
	}
	if err := oc.Orders.RemoveLine(c.Request.Context(), orderID, lineID, caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plato eliminado del pedido", nil)
}

func (oc *OrderController) ConfirmAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Confirm(c.Request.Context(), orderID, caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedido confirmado", gin.H{"id": order.ID, "estado": order.Status})
}

func (oc *OrderController) DeleteAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), orderID, caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedido eliminado", nil)
}

type orderView struct {
	models.Order
	RestaurantName string          `json:"restaurante_nombre"`
	Total          decimal.Decimal `json:"total"`
}

func newOrderView(o models.Order) orderView {
	return orderView{Order: o, RestaurantName: o.RestaurantName(), Total: o.Total()}
}

func orderViews(orders []models.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}
