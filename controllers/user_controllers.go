package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserController struct {
	DB     *gorm.DB
	Store  sessions.Store
	Orders *services.OrderService
}

func NewUserController(db *gorm.DB, store sessions.Store, orders *services.OrderService) *UserController {
	return &UserController{DB: db, Store: store, Orders: orders}
}

type registerRequest struct {
	Name     string `form:"nombre" json:"nombre" binding:"required,max=60"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	Address  string `form:"direccion" json:"direccion"`
}

type credentials struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}

// Register creates an account. An email that is already registered is silently kept
// as is, so the response does not reveal which addresses exist.
func (uc *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		if wantsJSON(c) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Datos de registro inválidos"))
			return
		}
		addFlash(c, uc.Store, flashError, "Revisa los datos del formulario (contraseña de al menos 6 caracteres).")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash := string(hashed)

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    &email,
		Address:  strings.TrimSpace(req.Address),
		Password: &hash,
	}
	if err := uc.DB.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&user).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", email)

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusCreated, "Usuario registrado", nil)
		return
	}
	addFlash(c, uc.Store, flashOK, "Cuenta creada. Ya puedes ingresar.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (uc *UserController) authenticate(c *gin.Context, creds credentials) (models.User, error) {
	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(creds.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if user.Password == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(creds.Password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func identityOf(user models.User) utils.Identity {
	id := utils.Identity{ID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin}
	if user.Email != nil {
		id.Email = *user.Email
	}
	return id
}

// Login stores the identity in a fresh server-side session.
func (uc *UserController) Login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBind(&creds); err != nil {
		uc.loginFailed(c, http.StatusBadRequest, creds.Email, "Ingresa tu correo y contraseña")
		return
	}

	user, err := uc.authenticate(c, creds)
	if errors.Is(err, ErrInvalidCredentials) {
		uc.loginFailed(c, http.StatusUnauthorized, creds.Email, ErrInvalidCredentials.Message)
		return
	}
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	session, _ := uc.Store.Get(c.Request, services.SessionCookieName)
	// new id on login
	session.ID = ""
	id := identityOf(user)
	session.Values[services.SessionKeyUserID] = id.ID
	session.Values[services.SessionKeyName] = id.Name
	session.Values[services.SessionKeyEmail] = id.Email
	session.Values[services.SessionKeyIsAdmin] = id.IsAdmin
	if err := session.Save(c.Request, c.Writer); err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s", id.Email)
	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, "Sesión iniciada", id)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (uc *UserController) loginFailed(c *gin.Context, code int, email, message string) {
	if wantsJSON(c) {
		utils.RespondError(c, code, errors.New(message))
		return
	}
	renderPage(c, code, "login.html", gin.H{"Title": "Ingresar", "Error": message, "Email": email})
}

// Logout destroys the session and revokes the bearer token used for the call, if any.
func (uc *UserController) Logout(c *gin.Context) {
	if v, ok := c.Get("token_claims"); ok {
		if claims, ok := v.(*utils.CustomClaims); ok && claims.ExpiresAt != nil {
			utils.BlacklistToken(claims.ID, claims.ExpiresAt.Time)
		}
	}

	session, _ := uc.Store.Get(c.Request, services.SessionCookieName)
	if session != nil && !session.IsNew {
		session.Options.MaxAge = -1
		if err := session.Save(c.Request, c.Writer); err != nil {
			utils.ErrorLogger.WithError(err).Error("destroying session")
		}
	}

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, "Sesión cerrada", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// IssueToken exchanges credentials for a bearer token.
func (uc *UserController) IssueToken(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Ingresa tu correo y contraseña"))
		return
	}

	user, err := uc.authenticate(c, creds)
	if errors.Is(err, ErrInvalidCredentials) {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	token, err := utils.GenerateToken(identityOf(user))
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"expires_at": time.Now().Add(utils.TokenTTL).Unix(),
	})
}

func (uc *UserController) ListUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&users).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Usuarios", users)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if self, _ := utils.IdentityFromContext(c.Request.Context()); self.ID == id {
		utils.RespondError(c, http.StatusConflict, errors.New("No puedes eliminar tu propia cuenta"))
		return
	}
	if err := uc.Orders.DeleteUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Usuario eliminado", nil)
}
