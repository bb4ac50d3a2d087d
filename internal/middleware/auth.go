package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ClaimsKey = "claims"

const (
	msgNoToken  = "Acceso denegado. No se proporcionó un token."
	msgBadToken = "Token inválido o expirado."
	msgNoRole   = "Acceso denegado. Se requiere rol de administrador."
)

var (
	errNoBearer = errors.New("missing bearer token")
	errNoSecret = errors.New("empty signing secret")
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func bearerToken(c *gin.Context) (string, error) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errNoBearer
	}
	return token, nil
}

// parseClaims accepts only HMAC-signed, unexpired tokens whose id is an employee UUID.
func parseClaims(raw, secret string) (*JWTClaims, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msgNoToken))
			return
		}
		claims, err := parseClaims(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msgBadToken))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireCapability rejects requests whose role does not grant capability.
func RequireCapability(capability authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := GetClaims(c); claims != nil && authz.Allowed(claims.Role, capability) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(msgNoRole))
	}
}

// GetClaims returns the token claims; nil on public routes.
func GetClaims(c *gin.Context) *JWTClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		claims, _ := v.(*JWTClaims)
		return claims
	}
	return nil
}
