package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error envelope. Callers pass user-facing errors only;
// storage errors go through RespondInternal.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// RespondInternal logs err with the request context and answers a generic 500.
func RespondInternal(c *gin.Context, err error) {
	ErrorLogger.WithError(err).
		WithField("request_id", c.GetString("request_id")).
		WithField("path", c.Request.URL.Path).
		Error("request failed")
	c.JSON(500, JSONResponse{
		Success: false,
		Error:   MsgInternal,
	})
}

const MsgInternal = "Error interno del servidor"
