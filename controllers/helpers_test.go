package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/database"
	"github.com/pedidoshn/pedidos-app/middlewares"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/views"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type testApp struct {
	t       *testing.T
	DB      *gorm.DB
	Router  *gin.Engine
	cookies map[string]*http.Cookie
}

// setupRouterForTest wires the handlers under test the same way the site does.
func setupRouterForTest(t *testing.T) *testApp {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	templates, err := views.Load()
	require.NoError(t, err)

	store := services.NewSessionStore(db, 3600, []byte("test-session-secret-0123456789ab"))
	repo := repository.NewGormRestaurantRepository(db)
	orderSvc := services.NewOrderService(db, nil, testClock)
	checkoutSvc := services.NewCheckoutService(db, nil, testClock)

	pageCtrl := NewPageController(repo, store, testClock)
	checkoutCtrl := NewCheckoutController(checkoutSvc, testClock)
	userCtrl := NewUserController(db, store, orderSvc)
	orderCtrl := NewOrderController(orderSvc, store, time.UTC)
	adminCtrl := NewAdminController(db, orderSvc, store, testClock)
	restaurantCtrl := NewRestaurantController(repo, repo)
	contactCtrl := NewContactController(db, store)

	r := gin.New()
	r.SetHTMLTemplate(templates)
	r.Use(middlewares.LoadIdentity(store, middlewares.DBAccountLookup(db)))

	r.GET("/", pageCtrl.Home)
	r.GET("/restaurantes/:slug", pageCtrl.Restaurant)
	r.POST("/checkout", checkoutCtrl.Submit)
	r.GET("/gracias", pageCtrl.Thanks)
	r.POST("/contacto", contactCtrl.SubmitPage)

	mine := r.Group("/pedidos", middlewares.PageAuthRequired())
	mine.GET("", orderCtrl.MyOrders)
	mine.GET("/:id", orderCtrl.ShowOrder)
	mine.POST("/:id/lineas", orderCtrl.AddLinePage)
	mine.POST("/:id/confirmar", orderCtrl.ConfirmPage)
	mine.POST("/:id/eliminar", orderCtrl.DeletePage)
	mine.GET("/:id/recibo", orderCtrl.Receipt)

	r.GET("/admin", middlewares.PageAdminRequired(), adminCtrl.Dashboard)

	api := r.Group("/api")
	api.POST("/register", userCtrl.Register)
	api.POST("/login", userCtrl.Login)
	api.GET("/logout", userCtrl.Logout)
	api.POST("/token", userCtrl.IssueToken)
	api.GET("/restaurantes", restaurantCtrl.ListAPI)
	api.GET("/restaurantes/:slug", restaurantCtrl.DetailAPI)
	api.POST("/ordenes", checkoutCtrl.CreateAPI)
	api.POST("/contactos", contactCtrl.CreateAPI)

	owner := api.Group("", middlewares.AuthRequired())
	owner.GET("/mis-ordenes", orderCtrl.ListMine)
	owner.GET("/ordenes/:id", orderCtrl.GetAPI)
	owner.POST("/ordenes/:id/lineas", orderCtrl.AddLineAPI)
	owner.DELETE("/ordenes/:id/lineas/:lineaId", orderCtrl.RemoveLineAPI)
	owner.POST("/ordenes/:id/confirmar", orderCtrl.ConfirmAPI)
	owner.DELETE("/ordenes/:id", orderCtrl.DeleteAPI)

	staff := api.Group("", middlewares.AdminRequired())
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

	return &testApp{t: t, DB: db, Router: r, cookies: map[string]*http.Cookie{}}
}

// do sends the request with the cookies collected so far and keeps the new ones.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// apiCall sends a JSON request, with a bearer token when one is given.
func (a *testApp) apiCall(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(email, password string) {
	rec := a.postForm("/api/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func (a *testApp) token(email, password string) string {
	rec := a.apiCall(http.MethodPost, "/api/token", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(a.t, rec)
	tok, _ := body["token"].(string)
	require.NotEmpty(a.t, tok)
	return tok
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func createUser(t *testing.T, db *gorm.DB, name, email, password string, admin bool) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashed)
	u := models.User{Name: name, Email: &email, Password: &hash, IsAdmin: admin}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedCaracol(t *testing.T, db *gorm.DB) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Slug: "sopa-de-caracol-tela",
		Name: "Sopa de Caracol Tela",
		Dishes: []models.Dish{
			{Name: "Sopa de Caracol", Price: decimal.RequireFromString("178.00")},
			{Name: "Pescado Frito", Price: decimal.RequireFromString("210.50")},
		},
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func checkoutForm(name string) url.Values {
	return url.Values{
		"nombre":        {name},
		"direccion":     {"Barrio El Centro, Tela"},
		"telefono":      {"50499887766"},
		"restauranteId": {"sopa-de-caracol-tela"},
		"pedido":        {"Sopa de Caracol"},
		"scheduleDate":  {"2026-03-10"},
		"scheduleSlot":  {"Inmediato"},
		"precio":        {"178.00"},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
