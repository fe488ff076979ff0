// Package controllers provides HTTP handlers for worker provisioning and
// management.
// File: controllers/admin_controller.go
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
)

// ---------------- Admin Controller ----------------

// AdminController provides worker management for admins; superadmins share
// the listing and management routes with an unrestricted scope.
type AdminController struct {
	Store *store.Store
}

// NewAdminController initializes a new instance of AdminController.
func NewAdminController(s *store.Store) *AdminController {
	return &AdminController{Store: s}
}

// ---------------- worker provisioning ----------------

type createWorkerRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	CityID          uint   `json:"city_id"`
}

// CreateWorker provisions a worker inside the admin's own city. A request
// naming another city is refused with territory_mismatch; superadmins are
// refused outright because provisioning workers is not their job.
func (ac *AdminController) CreateWorker(c *gin.Context) {
	caller, admin, ok := resolveCaller(c, ac.Store)
	if !ok {
		return
	}

	var req createWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "name, username, email and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		fail(c, http.StatusBadRequest, "password_mismatch", "Passwords do not match")
		return
	}

	// The worker's city defaults to the admin's own; a differing explicit
	// city is caught by the engine.
	requested := &authz.Resource{CityID: admin.CityID}
	if req.CityID != 0 {
		requested.CityID = &req.CityID
	}
	if decision := authz.Authorize(caller, authz.OpCreateWorker, requested); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	if taken, err := ac.Store.UsernameTaken(req.Username); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate username")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_username", "Username already taken")
		return
	}
	if taken, err := ac.Store.EmailTaken(req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate email")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_email", "Email already used")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not hash password")
		return
	}

	worker := &models.Employee{
		Name:         req.Name,
		Username:     req.Username,
		Email:        &req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         models.RoleWorker,
		Active:       true,
		CityID:       admin.CityID,
		CreatedBy:    &admin.ID,
	}
	if err := ac.Store.CreateEmployee(worker); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not create worker")
		return
	}

	logger.Info.Printf("CreateWorker: worker %s created by admin %d", worker.Username, admin.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Worker created successfully",
		"worker": gin.H{
			"id":       worker.ID,
			"name":     worker.Name,
			"username": worker.Username,
			"city_id":  worker.CityID,
		},
	})
}

// ---------------- worker listings ----------------

// ListWorkers returns workers visible to the caller: admins see their own
// city, superadmins see everyone. Optional name and city filters.
func (ac *AdminController) ListWorkers(c *gin.Context) {
	caller, admin, ok := resolveCaller(c, ac.Store)
	if !ok {
		return
	}

	decision := authz.Authorize(caller, authz.OpManageWorker, &authz.Resource{Exists: true, CityID: admin.CityID})
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	filter := store.EmployeeFilter{Role: models.RoleWorker, Name: c.Query("name")}
	if decision.Scope == authz.ScopeTerritory {
		filter.CityID = admin.CityID
	} else if cityParam := c.Query("city_id"); cityParam != "" {
		id, err := strconv.ParseUint(cityParam, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid_filter", "city_id must be numeric")
			return
		}
		cityID := uint(id)
		filter.CityID = &cityID
	}

	workers, err := ac.Store.ListEmployees(filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not list workers")
		return
	}
	c.JSON(http.StatusOK, workers)
}

// ---------------- worker management ----------------

// loadManagedWorker fetches the target worker and runs the ManageWorker
// rule: admins only in their own city, superadmins anywhere.
func (ac *AdminController) loadManagedWorker(c *gin.Context) (*models.Employee, bool) {
	caller, _, ok := resolveCaller(c, ac.Store)
	if !ok {
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "Worker id must be numeric")
		return nil, false
	}

	target, err := ac.Store.FindEmployeeByID(uint(id))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load worker")
		return nil, false
	}

	resource := &authz.Resource{}
	if target != nil && target.Role == models.RoleWorker {
		resource.Exists = true
		resource.CityID = target.CityID
		resource.OwnerID = target.CreatedBy
	}
	if decision := authz.Authorize(caller, authz.OpManageWorker, resource); !decision.Allowed {
		failDecision(c, decision)
		return nil, false
	}
	return target, true
}

// UpdateWorker edits a worker's contact details or password.
func (ac *AdminController) UpdateWorker(c *gin.Context) {
	target, ok := ac.loadManagedWorker(c)
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if ok, msg := applyEmployeeUpdate(target, req); !ok {
		fail(c, http.StatusBadRequest, "invalid_password", msg)
		return
	}

	if err := ac.Store.SaveEmployee(target); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not update worker")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker updated successfully"})
}

// DeleteWorker removes a worker account. Refused while the worker still has
// uploads; deactivation is the soft alternative.
func (ac *AdminController) DeleteWorker(c *gin.Context) {
	target, ok := ac.loadManagedWorker(c)
	if !ok {
		return
	}

	if dependent, err := ac.Store.EmployeeHasDependents(target.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not check dependents")
		return
	} else if dependent {
		fail(c, http.StatusConflict, "has_dependents", "Worker still has uploads; deactivate instead")
		return
	}

	if err := ac.Store.DeleteEmployee(target.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not delete worker")
		return
	}
	logger.Info.Printf("DeleteWorker: worker %d deleted", target.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted successfully"})
}

// ToggleWorkerStatus flips the worker's active flag (idempotent toggle).
func (ac *AdminController) ToggleWorkerStatus(c *gin.Context) {
	target, ok := ac.loadManagedWorker(c)
	if !ok {
		return
	}

	target.Active = !target.Active
	if err := ac.Store.SaveEmployee(target); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not toggle status")
		return
	}

	state := "deactivated"
	if target.Active {
		state = "activated"
	}
	logger.Info.Printf("ToggleWorkerStatus: worker %d %s", target.ID, state)
	c.JSON(http.StatusOK, gin.H{"message": "Worker " + state + " successfully"})
}
