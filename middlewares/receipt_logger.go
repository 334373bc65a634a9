package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/utils"
)

func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		utils.InfoLogger.WithField("request_id", c.GetString("request_id")).
			Debugf("Generating receipt for order %s", orderID)

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Receipt generated for order %s", orderID)
		} else {
			utils.ErrorLogger.Printf("Receipt for order %s failed with status %d", orderID, c.Writer.Status())
		}
	}
}
