// Package middleware provides HTTP middleware for the account service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key under which verified claims are stored.
const ClaimsKey = "auth_claims"

// RequireAuth returns middleware that enforces a verified bearer
// token. A missing credential and a failed verification are separate
// failures but both abort with 401 before the handler runs. On success
// the verified claims are attached to the request context.
func RequireAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyRequest(c, jwtService)
		if !ok {
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin is RequireAuth plus an admin role check. The role is
// taken from the token claims, not re-fetched from the profile store:
// a role change takes effect only once the bearer holds a new token.
func RequireAdmin(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyRequest(c, jwtService)
		if !ok {
			return
		}
		if claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims attached by RequireAuth or
// RequireAdmin.
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}

func verifyRequest(c *gin.Context, jwtService service.JWTService) (*service.Claims, bool) {
	token := extractBearer(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
		return nil, false
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		// Expired and malformed are not distinguished to the caller.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return nil, false
	}
	return claims, true
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
