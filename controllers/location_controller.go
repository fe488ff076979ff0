// Package controllers: worker location reporting and tracking.
// File: controllers/location_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-field-ops/authz"
	"go-field-ops/logger"
	"go-field-ops/models"
	"go-field-ops/store"
	"go-field-ops/websocket"
)

// ---------------- Location Controller ----------------

// LocationController serves worker self-reporting plus the admin and
// superadmin tracking views, and feeds the live websocket hub.
type LocationController struct {
	Store *store.Store
	Hub   *websocket.Hub
}

// NewLocationController initializes a new instance of LocationController.
func NewLocationController(s *store.Store, hub *websocket.Hub) *LocationController {
	return &LocationController{Store: s, Hub: hub}
}

// ---------------- worker self-reporting ----------------

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateOwn records the worker's current position. One logical row per
// worker: the previous position is overwritten, latest write wins.
func (lc *LocationController) UpdateOwn(c *gin.Context) {
	caller, worker, ok := resolveCaller(c, lc.Store)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpUpdateLocation, nil); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		fail(c, http.StatusBadRequest, "missing_fields", "latitude and longitude are required")
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		fail(c, http.StatusBadRequest, "invalid_coordinates", "Coordinates are out of range")
		return
	}

	loc, err := lc.Store.UpsertLocation(worker.ID, *req.Latitude, *req.Longitude)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not update location")
		return
	}

	lc.Hub.Broadcast(websocket.LocationUpdate{
		WorkerID:  worker.ID,
		CityID:    worker.CityID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timestamp: loc.Timestamp,
	})

	logger.Debug.Printf("UpdateOwn: worker %d at (%.5f, %.5f)", worker.ID, loc.Latitude, loc.Longitude)
	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// GetOwn returns the worker's own latest position.
func (lc *LocationController) GetOwn(c *gin.Context) {
	caller, worker, ok := resolveCaller(c, lc.Store)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpViewLocation, &authz.Resource{
		Exists:  true,
		OwnerID: &worker.ID,
		CityID:  worker.CityID,
	}); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	loc, err := lc.Store.LatestLocation(worker.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "resource_not_found", "No location found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

// ---------------- tracking views ----------------

// WorkerLocation returns a worker's latest position for admin/superadmin
// callers; admins are limited to workers in their own city.
func (lc *LocationController) WorkerLocation(c *gin.Context) {
	caller, _, ok := resolveCaller(c, lc.Store)
	if !ok {
		return
	}

	workerParam := c.Query("worker_id")
	if workerParam == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "worker_id is required")
		return
	}
	workerID, err := strconv.ParseUint(workerParam, 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "worker_id must be numeric")
		return
	}

	worker, err := lc.Store.FindEmployeeByID(uint(workerID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load worker")
		return
	}

	resource := &authz.Resource{}
	if worker != nil && worker.Role == models.RoleWorker {
		resource.Exists = true
		resource.OwnerID = &worker.ID
		resource.CityID = worker.CityID
	}
	if decision := authz.Authorize(caller, authz.OpViewLocation, resource); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	loc, err := lc.Store.LatestLocation(worker.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "resource_not_found", "No location found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

// AllLocations returns every worker's current position. Superadmin only.
func (lc *LocationController) AllLocations(c *gin.Context) {
	caller, _, ok := resolveCaller(c, lc.Store)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpViewLocation, nil)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}
	if decision.Scope != authz.ScopeAll {
		failDecision(c, authz.Deny(authz.ReasonRoleForbidden))
		return
	}

	locations, err := lc.Store.ListLatestLocations()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not list locations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

// ---------------- live feed ----------------

// LiveFeed upgrades the request to a websocket subscribed to location
// updates: admins get their own city, superadmins everything.
func (lc *LocationController) LiveFeed(c *gin.Context) {
	caller, person, ok := resolveCaller(c, lc.Store)
	if !ok {
		return
	}
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleSuperadmin {
		failDecision(c, authz.Deny(authz.ReasonRoleForbidden))
		return
	}

	lc.Hub.ServeFeed(c, caller.Role, person.CityID)
}
