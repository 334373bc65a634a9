package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginLogout(t *testing.T) {
	app := setupRouterForTest(t)

	form := url.Values{
		"nombre":    {"Ana María"},
		"email":     {"Ana@Example.com"},
		"password":  {"secreto1"},
		"direccion": {"Col. Kennedy"},
	}
	rec := app.postForm("/api/register", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// same email again: accepted, nothing new stored
	form.Set("nombre", "Otra Persona")
	rec = app.postForm("/api/register", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, int64(1), countRows(t, app.DB, &models.User{}))

	var user models.User
	require.NoError(t, app.DB.First(&user).Error)
	assert.Equal(t, "Ana María", user.Name)
	require.NotNil(t, user.Email)
	assert.Equal(t, "ana@example.com", *user.Email)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "secreto1", *user.Password)

	rec = app.postForm("/api/login", url.Values{"email": {"ana@example.com"}, "password": {"incorrecta"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Credenciales inválidas")

	app.login("ana@example.com", "secreto1")
	rec = app.get("/pedidos")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hola, Ana María")

	rec = app.get("/api/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.get("/pedidos")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestLoginJSONFailure(t *testing.T) {
	app := setupRouterForTest(t)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)

	rec := app.apiCall(http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Credenciales inválidas", body["error"])

	rec = app.apiCall(http.MethodPost, "/api/token", "", map[string]string{"email": "nadie@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenRequiresCredentials(t *testing.T) {
	app := setupRouterForTest(t)

	rec := app.apiCall(http.MethodPost, "/api/token", "", map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesBearerToken(t *testing.T) {
	app := setupRouterForTest(t)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)
	token := app.token("ana@example.com", "secreto1")

	rec := app.apiCall(http.MethodGet, "/api/mis-ordenes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.apiCall(http.MethodGet, "/api/logout", token, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = app.apiCall(http.MethodGet, "/api/mis-ordenes", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUserManagement(t *testing.T) {
	app := setupRouterForTest(t)
	seedCaracol(t, app.DB)
	admin := createUser(t, app.DB, "Admin", "admin@example.com", "admin123", true)
	createUser(t, app.DB, "Ana María", "ana@example.com", "secreto1", false)
	adminToken := app.token("admin@example.com", "admin123")
	anaToken := app.token("ana@example.com", "secreto1")
	placeOrder(t, app, anaToken)

	rec := app.apiCall(http.MethodGet, "/api/usuarios", anaToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Solo administradores", decodeBody(t, rec)["error"])

	rec = app.apiCall(http.MethodGet, "/api/usuarios", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 2)

	rec = app.apiCall(http.MethodDelete, "/api/usuarios/"+itoa(admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var ana models.User
	require.NoError(t, app.DB.Where("email = ?", "ana@example.com").First(&ana).Error)
	rec = app.apiCall(http.MethodDelete, "/api/usuarios/"+itoa(ana.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), countRows(t, app.DB, &models.User{}))
	assert.Zero(t, countRows(t, app.DB, &models.Order{}))

	rec = app.apiCall(http.MethodDelete, "/api/usuarios/"+itoa(ana.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
