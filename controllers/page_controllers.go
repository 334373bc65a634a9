package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/services"
)

type PageController struct {
	Restaurants repository.RestaurantRepository
	Store       sessions.Store
	Clock       func() time.Time
}

func NewPageController(restaurants repository.RestaurantRepository, store sessions.Store, clock func() time.Time) *PageController {
	return &PageController{Restaurants: restaurants, Store: store, Clock: clock}
}

func (pc *PageController) Home(c *gin.Context) {
	restaurants, err := pc.Restaurants.List(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "home.html", takeFlashes(c, pc.Store, gin.H{
		"Restaurants": restaurants,
	}))
}

func (pc *PageController) Restaurant(c *gin.Context) {
	restaurant, err := pc.Restaurants.FindBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		renderError(c, http.StatusNotFound, "Restaurante no encontrado")
		return
	}
	if err != nil {
		renderServiceError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "restaurante.html", gin.H{
		"Title":      restaurant.Name,
		"Restaurant": restaurant,
	})
}

func (pc *PageController) ShowCheckout(c *gin.Context) {
	today := pc.Clock()
	form := services.CheckoutInput{
		RestaurantID: c.Query("restaurante"),
		Dish:         c.Query("plato"),
		Price:        c.Query("precio"),
		ScheduleDate: today.Format(services.DateLayout),
		ScheduleSlot: services.SlotImmediate,
	}
	renderPage(c, http.StatusOK, "checkout.html", checkoutPageData(form, today, ""))
}

func checkoutPageData(form services.CheckoutInput, now time.Time, message string) gin.H {
	return gin.H{
		"Title":   "Checkout",
		"Form":    form,
		"Error":   message,
		"Slots":   services.ScheduleSlots,
		"Today":   now.Format(services.DateLayout),
		"MaxDate": now.AddDate(0, 0, services.ScheduleWindowDays).Format(services.DateLayout),
	}
}

func (pc *PageController) ShowLogin(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.html", takeFlashes(c, pc.Store, gin.H{"Title": "Ingresar"}))
}

func (pc *PageController) ShowRegister(c *gin.Context) {
	renderPage(c, http.StatusOK, "register.html", takeFlashes(c, pc.Store, gin.H{"Title": "Registro"}))
}

func (pc *PageController) ShowContact(c *gin.Context) {
	renderPage(c, http.StatusOK, "contacto.html", takeFlashes(c, pc.Store, gin.H{
		"Title": "Contacto",
		"Form":  contactRequest{},
	}))
}

func (pc *PageController) Thanks(c *gin.Context) {
	renderPage(c, http.StatusOK, "gracias.html", gin.H{
		"Title":   "Gracias",
		"OrderID": c.Query("orden"),
	})
}

func (pc *PageController) NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "La página que buscas no existe")
}
