package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pedidoshn/pedidos-app/kds"
	"github.com/pedidoshn/pedidos-app/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts same-host upgrades plus the configured CORS origin, if any.
func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if allowedOrigin != "" && origin == allowedOrigin {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// Feed streams order events to an admin dashboard until the socket closes.
func (kc *KDSController) Feed(c *gin.Context) {
	id, _ := utils.IdentityFromContext(c.Request.Context())

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	kc.Hub.Register(ws, id.Email)
	utils.InfoLogger.WithField("admin", id.Email).Info("admin feed connected")

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.Unregister(ws)
}
