package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AdminController struct {
	DB     *gorm.DB
	Orders *services.OrderService
	Store  sessions.Store
	Clock  func() time.Time
}

func NewAdminController(db *gorm.DB, orders *services.OrderService, store sessions.Store, clock func() time.Time) *AdminController {
	if clock == nil {
		clock = time.Now
	}
	return &AdminController{DB: db, Orders: orders, Store: store, Clock: clock}
}

type dashboardStats struct {
	TotalOrders     int             `json:"total_orders"`
	TodayOrders     int             `json:"today_orders"`
	DraftOrders     int             `json:"draft_orders"`
	ConfirmedOrders int             `json:"confirmed_orders"`
	ConfirmedTotal  decimal.Decimal `json:"confirmed_total"`
}

func computeStats(orders []models.Order, now time.Time) dashboardStats {
	stats := dashboardStats{ConfirmedTotal: decimal.Zero}
	today := now.Format(services.DateLayout)
	for _, o := range orders {
		stats.TotalOrders++
		if o.CreatedAt.In(now.Location()).Format(services.DateLayout) == today {
			stats.TodayOrders++
		}
		switch o.Status {
		case models.StatusDraft:
			stats.DraftOrders++
		case models.StatusConfirmed:
			stats.ConfirmedOrders++
			stats.ConfirmedTotal = stats.ConfirmedTotal.Add(o.Total())
		}
	}
	return stats
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := ac.Orders.ListAll(ctx)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	var users []models.User
	if err := ac.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		renderServiceError(c, fmt.Errorf("listing users: %w", err))
		return
	}
	var contacts []models.ContactMessage
	if err := ac.DB.WithContext(ctx).Order("fecha DESC").Find(&contacts).Error; err != nil {
		renderServiceError(c, fmt.Errorf("listing contact messages: %w", err))
		return
	}

	renderPage(c, http.StatusOK, "admin.html", takeFlashes(c, ac.Store, gin.H{
		"Title":    "Administración",
		"Orders":   orders,
		"Users":    users,
		"Contacts": contacts,
		"Stats":    computeStats(orders, ac.Clock()),
	}))
}

func (ac *AdminController) DeleteOrderPage(c *gin.Context) {
	orderID, ok := parsePageID(c, "id")
	if !ok {
		return
	}
	if err := ac.Orders.AdminDelete(c.Request.Context(), orderID); err != nil {
		renderServiceError(c, err)
		return
	}
	addFlash(c, ac.Store, flashOK, fmt.Sprintf("Pedido #%d eliminado", orderID))
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (ac *AdminController) ListOrdersAPI(c *gin.Context) {
	orders, err := ac.Orders.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedidos", orderViews(orders))
}

func (ac *AdminController) StatsAPI(c *gin.Context) {
	orders, err := ac.Orders.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Estadísticas", computeStats(orders, ac.Clock()))
}

func (ac *AdminController) OrdersChart(c *gin.Context) {
	orders, err := ac.Orders.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteOrdersChart(&buf, orders, ac.Clock()); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (ac *AdminController) DeleteOrderAPI(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ac.Orders.AdminDelete(c.Request.Context(), orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pedido eliminado", nil)
}
