package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/config"
	"github.com/pedidoshn/pedidos-app/controllers"
	"github.com/pedidoshn/pedidos-app/kds"
	"github.com/pedidoshn/pedidos-app/middlewares"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/views"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer needs. Writer is nil when the restaurant
// catalog is read from a file.
type Dependencies struct {
	DB          *gorm.DB
	Config      config.Config
	Restaurants repository.RestaurantRepository
	Writer      repository.RestaurantWriter
	Sessions    sessions.Store
	Hub         *kds.Hub
	Notifier    services.Notifier
	Clock       func() time.Time
}

func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = cfg.Clock()
	}
	hub := deps.Hub
	if hub == nil {
		hub = kds.NewHub()
	}

	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.NewRateLimiter(120, time.Minute).RateLimit())
	r.SetHTMLTemplate(templates)
	r.Static("/public", cfg.PublicDir)

	checkoutSvc := services.NewCheckoutService(deps.DB, deps.Notifier, clock)
	orderSvc := services.NewOrderService(deps.DB, deps.Notifier, clock)

	pageCtrl := controllers.NewPageController(deps.Restaurants, deps.Sessions, clock)
	checkoutCtrl := controllers.NewCheckoutController(checkoutSvc, clock)
	userCtrl := controllers.NewUserController(deps.DB, deps.Sessions, orderSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, deps.Sessions, cfg.Location())
	adminCtrl := controllers.NewAdminController(deps.DB, orderSvc, deps.Sessions, clock)
	restaurantCtrl := controllers.NewRestaurantController(deps.Restaurants, deps.Writer)
	contactCtrl := controllers.NewContactController(deps.DB, deps.Sessions)
	kdsCtrl := controllers.NewKDSController(hub, cfg.CORSOrigin)
	accounts := middlewares.DBAccountLookup(deps.DB)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	site := r.Group("/")
	site.Use(middlewares.LoadIdentity(deps.Sessions, accounts))

	// ----------------------------------------------------------------
	//                      PAGES
	// ----------------------------------------------------------------
	site.GET("/", pageCtrl.Home)
	site.GET("/restaurantes/:slug", pageCtrl.Restaurant)
	site.GET("/checkout", pageCtrl.ShowCheckout)
	site.POST("/checkout", checkoutCtrl.Submit)
	site.GET("/login", pageCtrl.ShowLogin)
	site.GET("/register", pageCtrl.ShowRegister)
	site.GET("/contacto", pageCtrl.ShowContact)
	site.POST("/contacto", contactCtrl.SubmitPage)
	site.GET("/gracias", pageCtrl.Thanks)

	mine := site.Group("/pedidos")
	mine.Use(middlewares.PageAuthRequired())
	{
		mine.GET("", orderCtrl.MyOrders)
		mine.GET("/:id", orderCtrl.ShowOrder)
		mine.POST("/:id/lineas", orderCtrl.AddLinePage)
		mine.POST("/:id/lineas/:lineaId/eliminar", orderCtrl.RemoveLinePage)
		mine.POST("/:id/confirmar", orderCtrl.ConfirmPage)
		mine.POST("/:id/eliminar", orderCtrl.DeletePage)
		mine.GET("/:id/recibo", middlewares.ReceiptLoggerMiddleware(), orderCtrl.Receipt)
	}

	admin := site.Group("/admin")
	admin.Use(middlewares.PageAdminRequired())
	{
		admin.GET("", adminCtrl.Dashboard)
		admin.POST("/ordenes/:id/eliminar", adminCtrl.DeleteOrderPage)
	}

	site.GET("/ws/admin", middlewares.WebSocketTokenAuth(accounts), middlewares.AdminRequired(), kdsCtrl.Feed)

	// ----------------------------------------------------------------
	//                      JSON API
	// ----------------------------------------------------------------
	api := site.Group("/api")
	strict := middlewares.NewStrictRateLimiter(12*time.Second, 5).Handler()

	api.POST("/register", userCtrl.Register)
	api.POST("/login", strict, userCtrl.Login)
	api.GET("/logout", userCtrl.Logout)
	api.POST("/token", strict, userCtrl.IssueToken)

	api.GET("/restaurantes", restaurantCtrl.ListAPI)
	api.GET("/restaurantes/:slug", restaurantCtrl.DetailAPI)
	api.POST("/ordenes", checkoutCtrl.CreateAPI)
	api.POST("/contactos", contactCtrl.CreateAPI)

	owner := api.Group("")
	owner.Use(middlewares.AuthRequired())
	{
		owner.GET("/mis-ordenes", orderCtrl.ListMine)
		owner.GET("/ordenes/:id", orderCtrl.GetAPI)
		owner.POST("/ordenes/:id/lineas", orderCtrl.AddLineAPI)
		owner.DELETE("/ordenes/:id/lineas/:lineaId", orderCtrl.RemoveLineAPI)
		owner.POST("/ordenes/:id/confirmar", orderCtrl.ConfirmAPI)
		owner.DELETE("/ordenes/:id", orderCtrl.DeleteAPI)
	}

	staff := api.Group("")
	staff.Use(middlewares.AdminRequired())
	{
		staff.GET("/ordenes", adminCtrl.ListOrdersAPI)
		staff.GET("/admin/estadisticas", adminCtrl.StatsAPI)
		staff.GET("/admin/estadisticas/grafico.png", adminCtrl.OrdersChart)
		staff.DELETE("/admin/ordenes/:id", adminCtrl.DeleteOrderAPI)

		staff.POST("/restaurantes", restaurantCtrl.Create)
		staff.PUT("/restaurantes/:slug", restaurantCtrl.Update)
		staff.DELETE("/restaurantes/:slug", restaurantCtrl.Delete)
		staff.POST("/restaurantes/:slug/platos", restaurantCtrl.CreateDish)
		staff.DELETE("/platos/:id", restaurantCtrl.DeleteDish)

		staff.GET("/usuarios", userCtrl.ListUsers)
		staff.DELETE("/usuarios/:id", userCtrl.DeleteUser)
		staff.GET("/contactos", contactCtrl.List)
	}

	r.NoRoute(middlewares.LoadIdentity(deps.Sessions, accounts), pageCtrl.NotFound)

	return r, nil
}
