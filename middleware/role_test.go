//go:build unit
// +build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-field-ops/auth"
	"go-field-ops/models"
)

func setupRoleTestRouter(t *testing.T, allowed ...models.Role) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService("test-secret", 50*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	blacklist := auth.NewBlacklist(time.Hour)
	t.Cleanup(blacklist.Close)

	router := gin.New()
	router.GET("/gated", AuthRequired(tokens, blacklist), RoleRequired(allowed...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "welcome"})
	})
	return router, tokens
}

func tokenFor(t *testing.T, tokens *auth.TokenService, role models.Role) string {
	t.Helper()
	city := uint(1)
	person := &models.Employee{ID: 3, Role: role}
	if role != models.RoleSuperadmin {
		person.CityID = &city
	}
	access, err := tokens.IssueAccess(person)
	require.NoError(t, err)
	return access
}

// TestRoleRequired_AllowsListedRole lets a matching role through.
func TestRoleRequired_AllowsListedRole(t *testing.T) {
	router, tokens := setupRoleTestRouter(t, models.RoleAdmin, models.RoleSuperadmin)

	for _, role := range []models.Role{models.RoleAdmin, models.RoleSuperadmin} {
		req, _ := http.NewRequest("GET", "/gated", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, tokens, role))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "role %s should pass", role)
	}
}

// TestRoleRequired_BlocksOtherRoles returns 403 with the engine's reason code.
func TestRoleRequired_BlocksOtherRoles(t *testing.T) {
	router, tokens := setupRoleTestRouter(t, models.RoleAdmin)

	req, _ := http.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tokens, models.RoleWorker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "role_forbidden")
}
