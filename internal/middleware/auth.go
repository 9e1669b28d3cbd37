package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	ClaimsKey   = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A malformed or revoked token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			abortUnauthorized(c, "Invalid token header.")
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, token string) bool {
	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		abortUnauthorized(c, "Invalid token.")
		return false
	}
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(ClaimsKey, claims)
	return true
}

// bearerToken accepts both "Token <t>" and "Bearer <t>".
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1], true
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msg})
}

// Viewer returns the identity the auth middleware attached to c.
func Viewer(c *gin.Context) types.Viewer {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return types.AuthenticatedViewer(id)
		}
	}
	return types.Anonymous
}

// Claims returns the validated token claims, or nil for anonymous requests.
func Claims(c *gin.Context) *types.TokenClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		claims, _ := v.(*types.TokenClaims)
		return claims
	}
	return nil
}
