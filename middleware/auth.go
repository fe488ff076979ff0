// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-field-ops/auth"
	"go-field-ops/logger"
)

// ClaimsKey is the gin context key under which verified claims are stored.
const ClaimsKey = "authClaims"

// AuthRequired ensures the request carries a valid, non-revoked bearer
// access token. How it works:
// - Reads the Authorization header and strips the "Bearer " prefix.
// - Validates signature, expiry, and token kind.
// - Rejects tokens whose jti is in the revocation set, even if unexpired.
// - On success, stores the claims in the context for handlers downstream.
func AuthRequired(tokens *auth.TokenService, blacklist *auth.Blacklist) gin.HandlerFunc {
	return requireToken(tokens, blacklist, auth.KindAccess)
}

// RefreshRequired is AuthRequired for the refresh endpoint: it accepts only
// refresh tokens.
func RefreshRequired(tokens *auth.TokenService, blacklist *auth.Blacklist) gin.HandlerFunc {
	return requireToken(tokens, blacklist, auth.KindRefresh)
}

func requireToken(tokens *auth.TokenService, blacklist *auth.Blacklist, kind auth.TokenKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			logger.Warn.Printf("AuthRequired: missing bearer token on %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "Missing or malformed Authorization header",
			})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "), kind)
		if err != nil {
			logger.Warn.Printf("AuthRequired: invalid token on %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token is expired, malformed, or signed incorrectly",
			})
			return
		}

		// a present-but-blacklisted token is rejected even if not expired
		if blacklist.IsRevoked(claims.ID) {
			logger.Warn.Printf("AuthRequired: revoked token %s presented by person %d", claims.ID, claims.PersonID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "token_revoked",
				"message": "Token has been logged out",
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom retrieves the verified claims placed by AuthRequired. The bool
// is false when the middleware did not run.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
