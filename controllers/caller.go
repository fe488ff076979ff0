// File: controllers/caller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-field-ops/authz"
	"go-field-ops/logger"
	"go-field-ops/middleware"
	"go-field-ops/models"
	"go-field-ops/store"
)

// resolveCaller turns the verified token claims into the engine's caller
// identity. Role comes from the trusted claims; the city pin is re-read from
// storage so a stale token cannot carry an outdated territory. Returns false
// after writing the error response.
func resolveCaller(c *gin.Context, s *store.Store) (authz.Caller, *models.Employee, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "authentication_required", "Authentication required")
		return authz.Caller{}, nil, false
	}

	person, err := s.FindEmployeeByID(claims.PersonID)
	if err != nil {
		logger.Warn.Printf("resolveCaller: token for missing person %d", claims.PersonID)
		fail(c, http.StatusUnauthorized, "authentication_required", "Account no longer exists")
		return authz.Caller{}, nil, false
	}

	caller := authz.Caller{
		PersonID: person.ID,
		Role:     claims.Role,
		CityID:   person.CityID,
	}
	return caller, person, true
}
