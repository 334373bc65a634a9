package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTSecret is replaced at startup from configuration.
var JWTSecret = []byte("pedidoshn-dev-secret")

const TokenTTL = 24 * time.Hour

type CustomClaims struct {
	UserID  uint   `json:"id"`
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"es_admin"`
	jwt.RegisteredClaims
}

func GenerateToken(id Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:  id.ID,
		Name:    id.Name,
		Email:   id.Email,
		IsAdmin: id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "pedidoshn",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}

	if IsTokenBlacklisted(claims.ID) {
		return nil, errors.New("token revoked")
	}

	return claims, nil
}
