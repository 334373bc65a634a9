package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeOrder checks out as the token's owner and returns the new order id.
func placeOrder(t *testing.T, app *testApp, token string) uint {
	t.Helper()
	rec := app.apiCall(http.MethodPost, "/api/ordenes", token, map[string]string{
		"nombre":        "Ana María",
		"direccion":     "Barrio El Centro, Tela",
		"telefono":      "50499887766",
		"restauranteId": "sopa-de-caracol-tela",
		"pedido":        "Sopa de Caracol",
		"scheduleDate":  "2026-03-10",
		"scheduleSlot":  "Inmediato",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, ok := decodeBody(t, rec)["orderId"].(float64)
	require.True(t, ok)
	return uint(id)
}

func TestOrderLifecycleWithBearerToken(t *testing.T) {
	app := setupRouterForTest(t)
	restaurant := seedCaracol(t, app.DB)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)
	token := app.token("ana@example.com", "secreto1")

	orderID := placeOrder(t, app, token)
	base := "/api/ordenes/" + itoa(orderID)
	pescado := restaurant.Dishes[1]

	rec := app.apiCall(http.MethodPost, base+"/lineas", token, map[string]interface{}{"plato_id": pescado.ID, "cantidad": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.apiCall(http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "599", data["total"])
	assert.Equal(t, "Sopa de Caracol Tela", data["restaurante_nombre"])

	rec = app.apiCall(http.MethodPost, base+"/lineas", token, map[string]interface{}{"plato_id": pescado.ID, "cantidad": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.apiCall(http.MethodPost, base+"/confirmar", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.apiCall(http.MethodPost, base+"/confirmar", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.apiCall(http.MethodPost, base+"/lineas", token, map[string]interface{}{"plato_id": pescado.ID, "cantidad": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.apiCall(http.MethodGet, "/api/mis-ordenes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 1)

	rec = app.apiCall(http.MethodDelete, base, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, countRows(t, app.DB, &models.Order{}))
	assert.Zero(t, countRows(t, app.DB, &models.OrderLine{}))
}

func TestOrderActionsByAnotherUserAreForbidden(t *testing.T) {
	app := setupRouterForTest(t)
	restaurant := seedCaracol(t, app.DB)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)
	createUser(t, app.DB, "Luis Mejía", "luis@example.com", "secreto2", false)
	owner := app.token("ana@example.com", "secreto1")
	other := app.token("luis@example.com", "secreto2")

	orderID := placeOrder(t, app, owner)
	base := "/api/ordenes/" + itoa(orderID)

	var line models.OrderLine
	require.NoError(t, app.DB.Where("orden_id = ?", orderID).First(&line).Error)

	cases := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, base + "/confirmar", nil},
		{http.MethodPost, base + "/lineas", map[string]interface{}{"plato_id": restaurant.Dishes[0].ID, "cantidad": 1}},
		{http.MethodDelete, base + "/lineas/" + itoa(line.ID), nil},
		{http.MethodDelete, base, nil},
		{http.MethodGet, base, nil},
	}
	for _, tc := range cases {
		rec := app.apiCall(tc.method, tc.path, other, tc.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
	}

	var order models.Order
	require.NoError(t, app.DB.Preload("Lines").First(&order, orderID).Error)
	assert.Equal(t, models.StatusDraft, order.Status)
	assert.Len(t, order.Lines, 1)
}

func TestOrderAPIRequiresIdentity(t *testing.T) {
	app := setupRouterForTest(t)

	rec := app.apiCall(http.MethodGet, "/api/mis-ordenes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No autenticado", decodeBody(t, rec)["error"])

	rec = app.apiCall(http.MethodPost, "/api/ordenes/1/confirmar", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)
	token := app.token("ana@example.com", "secreto1")
	rec = app.apiCall(http.MethodPost, "/api/ordenes/abc/confirmar", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.apiCall(http.MethodPost, "/api/ordenes/999/confirmar", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderPagesFlow(t *testing.T) {
	app := setupRouterForTest(t)
	restaurant := seedCaracol(t, app.DB)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)

	rec := app.get("/pedidos")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	app.login("ana@example.com", "secreto1")
	require.Equal(t, http.StatusSeeOther, app.postForm("/checkout", checkoutForm("Ana María")).Code)

	var order models.Order
	require.NoError(t, app.DB.First(&order).Error)
	page := "/pedidos/" + itoa(order.ID)

	rec = app.get("/pedidos")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sopa de Caracol Tela")

	rec = app.postForm(page+"/lineas", url.Values{"plato_id": {itoa(restaurant.Dishes[1].ID)}, "cantidad": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, page, rec.Header().Get("Location"))

	rec = app.get(page)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Plato agregado")
	assert.Contains(t, body, "L 388.50")

	rec = app.postForm(page+"/confirmar", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = app.postForm(page+"/lineas", url.Values{"plato_id": {itoa(restaurant.Dishes[0].ID)}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = app.get(page)
	assert.Contains(t, rec.Body.String(), "ya fue confirmado")
	assert.Equal(t, int64(2), countRows(t, app.DB, &models.OrderLine{}))

	rec = app.get(page + "/recibo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = app.postForm(page+"/eliminar", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pedidos", rec.Header().Get("Location"))
	assert.Zero(t, countRows(t, app.DB, &models.Order{}))
}

func TestOrderPageOfAnotherUser(t *testing.T) {
	app := setupRouterForTest(t)
	seedCaracol(t, app.DB)

	require.Equal(t, http.StatusSeeOther, app.postForm("/checkout", checkoutForm("Ana María")).Code)
	var order models.Order
	require.NoError(t, app.DB.First(&order).Error)

	createUser(t, app.DB, "Luis Mejía", "luis@example.com", "secreto2", false)
	app.login("luis@example.com", "secreto2")

	rec := app.get("/pedidos/" + itoa(order.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.postForm("/pedidos/"+itoa(order.ID)+"/confirmar", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, app.DB.First(&order, order.ID).Error)
	assert.Equal(t, models.StatusDraft, order.Status)
}
