package middlewares

import (
	"github.com/gin-gonic/gin"
)

// WebSocketTokenAuth accepts a bearer token in the "token" query parameter, since
// browsers cannot set headers on a websocket handshake. Without the parameter the
// identity loaded from the session is kept.
func WebSocketTokenAuth(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.Next()
			return
		}

		if _, ok := bearerIdentity(c, accounts, token); !ok {
			return
		}
		c.Next()
	}
}
