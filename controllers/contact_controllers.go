package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/gorm"
)

type ContactController struct {
	DB    *gorm.DB
	Store sessions.Store
}

func NewContactController(db *gorm.DB, store sessions.Store) *ContactController {
	return &ContactController{DB: db, Store: store}
}

type contactRequest struct {
	Name    string `form:"nombre" json:"nombre" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email,max=255"`
	Phone   string `form:"telefono" json:"telefono" binding:"omitempty,number,max=15"`
	Message string `form:"mensaje" json:"mensaje" binding:"required,max=2000"`
}

func (r contactRequest) trimmed() contactRequest {
	return contactRequest{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   strings.TrimSpace(r.Phone),
		Message: strings.TrimSpace(r.Message),
	}
}

// bindContact decodes the request, trims it and only then checks the binding rules,
// so a blank field fails "required".
func bindContact(c *gin.Context) (contactRequest, error) {
	var req contactRequest
	err := c.ShouldBind(&req)
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return req.trimmed(), err
	}
	req = req.trimmed()
	return req, binding.Validator.ValidateStruct(req)
}

// contactProblem turns a binding failure into a message for the first offending field.
func contactProblem(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return "Ingresa tu nombre"
		case "Email":
			return "Ingresa un correo válido"
		case "Phone":
			return "El teléfono solo puede contener dígitos"
		case "Message":
			return "Escribe tu mensaje"
		}
	}
	return "Datos de contacto inválidos"
}

func (cc *ContactController) save(c *gin.Context, req contactRequest) error {
	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		return fmt.Errorf("storing contact message: %w", err)
	}
	return nil
}

func (cc *ContactController) SubmitPage(c *gin.Context) {
	req, err := bindContact(c)
	if err != nil {
		renderPage(c, http.StatusBadRequest, "contacto.html", gin.H{
			"Title": "Contacto",
			"Form":  req,
			"Error": contactProblem(err),
		})
		return
	}
	if err := cc.save(c, req); err != nil {
		renderServiceError(c, err)
		return
	}
	addFlash(c, cc.Store, flashOK, "Gracias, recibimos tu mensaje")
	c.Redirect(http.StatusSeeOther, "/contacto")
}

func (cc *ContactController) CreateAPI(c *gin.Context) {
	req, err := bindContact(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New(contactProblem(err)))
		return
	}
	if err := cc.save(c, req); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Mensaje recibido", nil)
}

func (cc *ContactController) List(c *gin.Context) {
	var contacts []models.ContactMessage
	if err := cc.DB.WithContext(c.Request.Context()).Order("fecha DESC").Find(&contacts).Error; err != nil {
		utils.RespondInternal(c, fmt.Errorf("listing contact messages: %w", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mensajes de contacto", contacts)
}
