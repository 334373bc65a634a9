package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/services"
	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/gorm"
)

var (
	errNotAuthenticated = errors.New("No autenticado")
	errAdminOnly        = errors.New("Solo administradores")
	errBadToken         = errors.New("token inválido o expirado")

	// ErrUnknownAccount means a token names a user that no longer exists.
	ErrUnknownAccount = errors.New("account not found")
)

// AccountLookup loads the stored identity of a token holder. Token claims only say
// who the caller is; name and admin flag come from the account.
type AccountLookup func(ctx context.Context, userID uint) (utils.Identity, error)

func DBAccountLookup(db *gorm.DB) AccountLookup {
	return func(ctx context.Context, userID uint) (utils.Identity, error) {
		var user models.User
		err := db.WithContext(ctx).First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Identity{}, ErrUnknownAccount
		}
		if err != nil {
			return utils.Identity{}, fmt.Errorf("loading account %d: %w", userID, err)
		}
		id := utils.Identity{ID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin}
		if user.Email != nil {
			id.Email = *user.Email
		}
		return id, nil
	}
}

// bearerIdentity parses token and resolves its account. On failure the response is
// already written and false is returned.
func bearerIdentity(c *gin.Context, accounts AccountLookup, token string) (*utils.CustomClaims, bool) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errBadToken)
		c.Abort()
		return nil, false
	}
	id, err := accounts(c.Request.Context(), claims.UserID)
	if errors.Is(err, ErrUnknownAccount) {
		utils.RespondError(c, http.StatusUnauthorized, errBadToken)
		c.Abort()
		return nil, false
	}
	if err != nil {
		utils.RespondInternal(c, err)
		c.Abort()
		return nil, false
	}
	setIdentity(c, id)
	return claims, true
}

// LoadIdentity resolves the caller from an Authorization bearer token or, failing
// that, from the session cookie. Anonymous requests pass through untouched; a bad
// bearer token, or one whose account is gone, is rejected.
func LoadIdentity(store sessions.Store, accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("formato de token inválido"))
				c.Abort()
				return
			}
			claims, ok := bearerIdentity(c, accounts, strings.TrimSpace(tokenString))
			if !ok {
				return
			}
			c.Set("token_claims", claims)
			c.Next()
			return
		}

		session, err := store.Get(c.Request, services.SessionCookieName)
		if err != nil {
			// stale or forged cookie: treat as anonymous
			utils.InfoLogger.WithError(err).Debug("ignoring unreadable session")
		}
		if session != nil {
			if id, ok := IdentityFromSession(session); ok {
				setIdentity(c, id)
			}
		}
		c.Next()
	}
}

func IdentityFromSession(session *sessions.Session) (utils.Identity, bool) {
	id, _ := session.Values[services.SessionKeyUserID].(uint)
	if id == 0 {
		return utils.Identity{}, false
	}
	name, _ := session.Values[services.SessionKeyName].(string)
	email, _ := session.Values[services.SessionKeyEmail].(string)
	isAdmin, _ := session.Values[services.SessionKeyIsAdmin].(bool)
	return utils.Identity{ID: id, Name: name, Email: email, IsAdmin: isAdmin}, true
}

func setIdentity(c *gin.Context, id utils.Identity) {
	c.Request = c.Request.WithContext(utils.WithIdentity(c.Request.Context(), id))
	c.Set("identity", id)
}

// AuthRequired guards JSON routes that need any logged-in caller.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.IdentityFromContext(c.Request.Context()); !ok {
			utils.RespondError(c, http.StatusUnauthorized, errNotAuthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired guards JSON admin routes. Anonymous callers get the same 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAdmin(c.Request.Context()) {
			utils.RespondError(c, http.StatusForbidden, errAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageAuthRequired sends anonymous visitors to the login page.
func PageAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.IdentityFromContext(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageAdminRequired renders the error page for non-admins.
func PageAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsAdmin(c.Request.Context()) {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Status":  http.StatusForbidden,
				"Message": errAdminOnly.Error(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
