// Package middleware file: middleware/role.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-field-ops/logger"
	"go-field-ops/models"
)

// RoleRequired blocks callers whose token role is not in the allowed set.
// Role is read from the trusted claims, never re-derived from storage.
// Usage:
//
//	admin := api.Group("/admin", middleware.AuthRequired(tokens, blacklist), middleware.RoleRequired(models.RoleAdmin))
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "Authentication required",
			})
			return
		}

		if !allowed[claims.Role] {
			logger.Warn.Printf("RoleRequired: person %d (%s) blocked on %s", claims.PersonID, claims.Role, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "role_forbidden",
				"message": "Your role does not permit this operation",
			})
			return
		}

		c.Next()
	}
}
