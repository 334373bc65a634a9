package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
)

const (
	flashOK    = "ok"
	flashError = "error"
)

// renderPage adds the layout data every template expects.
func renderPage(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if id, ok := utils.IdentityFromContext(c.Request.Context()); ok {
		data["User"] = id
	}
	data["Year"] = time.Now().Year()
	c.HTML(code, name, data)
}

func renderError(c *gin.Context, code int, message string) {
	renderPage(c, code, "error.html", gin.H{
		"Title":   http.StatusText(code),
		"Status":  code,
		"Message": message,
	})
}

func addFlash(c *gin.Context, store sessions.Store, kind, message string) {
	session, _ := store.Get(c.Request, services.SessionCookieName)
	if session == nil {
		return
	}
	session.AddFlash(message, kind)
	if err := session.Save(c.Request, c.Writer); err != nil {
		utils.ErrorLogger.WithError(err).Error("saving flash message")
	}
}

// takeFlashes pops pending messages into the page data.
func takeFlashes(c *gin.Context, store sessions.Store, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	session, _ := store.Get(c.Request, services.SessionCookieName)
	if session == nil || session.IsNew {
		return data
	}
	ok := session.Flashes(flashOK)
	bad := session.Flashes(flashError)
	if len(ok) == 0 && len(bad) == 0 {
		return data
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		utils.ErrorLogger.WithError(err).Error("saving session after flashes")
	}
	data["Flashes"] = ok
	data["Errors"] = bad
	return data
}
