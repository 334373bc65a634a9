package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission       = &CustomError{"No tienes permiso sobre este pedido"}
	ErrInvalidID          = &CustomError{"Identificador inválido"}
	ErrInvalidCredentials = &CustomError{"Credenciales inválidas"}
)

// statusFor maps domain errors to a status code and a user-facing message. Anything
// unknown is a storage failure.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound, "Pedido no encontrado"
	case errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden, ErrNoPermission.Message
	case errors.Is(err, services.ErrOrderNotDraft):
		return http.StatusConflict, "El pedido ya fue confirmado y no se puede modificar"
	case errors.Is(err, services.ErrDishNotFound):
		return http.StatusNotFound, "Plato no encontrado en el menú de este restaurante"
	case errors.Is(err, services.ErrLineNotFound):
		return http.StatusNotFound, "Línea de pedido no encontrada"
	case errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest, "La cantidad debe ser al menos 1"
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "Usuario no encontrado"
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return http.StatusNotFound, "Restaurante no encontrado"
	case errors.Is(err, repository.ErrDishNotFound):
		return http.StatusNotFound, "Plato no encontrado"
	case errors.Is(err, repository.ErrRestaurantExists):
		return http.StatusConflict, "Ya existe un restaurante con ese identificador"
	case errors.Is(err, repository.ErrRestaurantInUse):
		return http.StatusConflict, "El restaurante tiene pedidos registrados"
	case errors.Is(err, repository.ErrDishInUse):
		return http.StatusConflict, "El plato aparece en pedidos registrados"
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	var cerr *CustomError
	if errors.As(err, &cerr) {
		return http.StatusBadRequest, cerr.Message
	}
	return http.StatusInternalServerError, utils.MsgInternal
}

func respondServiceError(c *gin.Context, err error) {
	code, message := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondError(c, code, errors.New(message))
}

func renderServiceError(c *gin.Context, err error) {
	code, message := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithError(err).
			WithField("request_id", c.GetString("request_id")).
			WithField("path", c.Request.URL.Path).
			Error("page request failed")
	}
	renderError(c, code, message)
}
