// Package controllers: superadmin provisioning and oversight surface.
// File: controllers/superadmin_controller.go
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

// ---------------- Superadmin Controller ----------------

// SuperadminController manages cities, admins, and system-wide worker
// oversight.
type SuperadminController struct {
	Store *store.Store
}

// NewSuperadminController initializes a new instance of SuperadminController.
func NewSuperadminController(s *store.Store) *SuperadminController {
	return &SuperadminController{Store: s}
}

// ---------------- city catalog ----------------

// ListAreas serves the city catalog. Public: the frontend needs it before
// login.
func (sc *SuperadminController) ListAreas(c *gin.Context) {
	cities, err := sc.Store.ListCities()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load areas")
		return
	}
	c.JSON(http.StatusOK, cities)
}

type createCityRequest struct {
	Name string `json:"name"`
}

// CreateCity adds a city to the catalog. Superadmin only.
func (sc *SuperadminController) CreateCity(c *gin.Context) {
	caller, _, ok := resolveCaller(c, sc.Store)
	if !ok {
		return
	}
	if caller.Role != models.RoleSuperadmin {
		failDecision(c, authz.Deny(authz.ReasonRoleForbidden))
		return
	}

	var req createCityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "City name is required")
		return
	}

	if _, err := sc.Store.FindCityByName(req.Name); err == nil {
		fail(c, http.StatusConflict, "duplicate_city", "A city with that name already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate city name")
		return
	}

	city := &models.City{Name: req.Name}
	if err := sc.Store.CreateCity(city); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not create city")
		return
	}

	logger.Info.Printf("CreateCity: city %q created by superadmin %d", city.Name, caller.PersonID)
	c.JSON(http.StatusCreated, city)
}

// ---------------- admin provisioning ----------------

type createAdminRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
	CityID   uint   `json:"city_id"`
}

// CreateAdmin provisions a city admin. One active admin per city: the slot
// check counts active admins only, so deactivation frees the slot.
func (sc *SuperadminController) CreateAdmin(c *gin.Context) {
	caller, _, ok := resolveCaller(c, sc.Store)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpCreateAdmin, nil); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" || req.CityID == 0 {
		fail(c, http.StatusBadRequest, "missing_fields", "name, username, email, password and city_id are required")
		return
	}

	// An unknown city is a validation failure, not a permission failure.
	city, err := sc.Store.FindCityByID(req.CityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusBadRequest, "unknown_city", "city_id does not reference a known area")
			return
		}
		fail(c, http.StatusInternalServerError, "internal_error", "Could not resolve city")
		return
	}

	if occupied, err := sc.Store.ActiveAdminExists(city.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not check admin slot")
		return
	} else if occupied {
		fail(c, http.StatusConflict, "admin_slot_occupied", "An active admin already exists for "+city.Name)
		return
	}

	if taken, err := sc.Store.UsernameTaken(req.Username); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate username")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_username", "Username already exists")
		return
	}
	if taken, err := sc.Store.EmailTaken(req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate email")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_email", "Email already in use")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not hash password")
		return
	}

	admin := &models.Employee{
		Name:         req.Name,
		Username:     req.Username,
		Email:        &req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
		CityID:       &city.ID,
		CreatedBy:    &caller.PersonID,
	}
	if err := sc.Store.CreateEmployee(admin); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not create admin")
		return
	}

	logger.Info.Printf("CreateAdmin: admin %s created for city %s by superadmin %d", admin.Username, city.Name, caller.PersonID)
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Admin created successfully",
		"admin_username": admin.Username,
		"assigned_area":  city.Name,
	})
}

// ListAdmins returns every admin, optionally filtered by name or city.
func (sc *SuperadminController) ListAdmins(c *gin.Context) {
	caller, _, ok := resolveCaller(c, sc.Store)
	if !ok {
		return
	}
	if caller.Role != models.RoleSuperadmin {
		failDecision(c, authz.Deny(authz.ReasonRoleForbidden))
		return
	}

	filter := store.EmployeeFilter{Role: models.RoleAdmin, Name: c.Query("name")}
	if cityParam := c.Query("city_id"); cityParam != "" {
		id, err := strconv.ParseUint(cityParam, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid_filter", "city_id must be numeric")
			return
		}
		cityID := uint(id)
		filter.CityID = &cityID
	}

	admins, err := sc.Store.ListEmployees(filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not list admins")
		return
	}
	c.JSON(http.StatusOK, admins)
}

// ---------------- admin management ----------------

// loadManagedAdmin fetches the target and runs the ManageAdmin rule.
func (sc *SuperadminController) loadManagedAdmin(c *gin.Context) (*models.Employee, bool) {
	caller, _, ok := resolveCaller(c, sc.Store)
	if !ok {
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "Admin id must be numeric")
		return nil, false
	}

	target, err := sc.Store.FindEmployeeByID(uint(id))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load admin")
		return nil, false
	}

	resource := &authz.Resource{}
	if target != nil && target.Role == models.RoleAdmin {
		resource.Exists = true
		resource.CityID = target.CityID
		resource.OwnerID = target.CreatedBy
	}
	if decision := authz.Authorize(caller, authz.OpManageAdmin, resource); !decision.Allowed {
		failDecision(c, decision)
		return nil, false
	}
	return target, true
}

type updateEmployeeRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// applyEmployeeUpdate merges the partial update into the target. Role and
// city are immutable through this path.
func applyEmployeeUpdate(target *models.Employee, req updateEmployeeRequest) (bool, string) {
	if req.Name != "" {
		target.Name = req.Name
	}
	if req.Phone != "" {
		target.Phone = req.Phone
	}
	if req.Email != "" {
		target.Email = &req.Email
	}
	if req.Address != "" {
		target.Address = req.Address
	}
	if req.Password != "" {
		if req.ConfirmPassword == "" {
			return false, "Please confirm the new password"
		}
		if req.Password != req.ConfirmPassword {
			return false, "Passwords do not match"
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return false, "Could not hash password"
		}
		target.PasswordHash = hash
	}
	return true, ""
}

// UpdateAdmin edits an admin's contact details or password.
func (sc *SuperadminController) UpdateAdmin(c *gin.Context) {
	target, ok := sc.loadManagedAdmin(c)
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

	if err := sc.Store.SaveEmployee(target); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not update admin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin updated successfully"})
}

// DeleteAdmin removes an admin account outright. Refused while the admin
// still owns hotels, so nothing is orphaned; deactivation is the soft
// alternative.
func (sc *SuperadminController) DeleteAdmin(c *gin.Context) {
	target, ok := sc.loadManagedAdmin(c)
	if !ok {
		return
	}

	if dependent, err := sc.Store.EmployeeHasDependents(target.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not check dependents")
		return
	} else if dependent {
		fail(c, http.StatusConflict, "has_dependents", "Admin still owns hotels or media; deactivate instead")
		return
	}

	if err := sc.Store.DeleteEmployee(target.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not delete admin")
		return
	}
	logger.Info.Printf("DeleteAdmin: admin %d deleted", target.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// ToggleAdminStatus flips the active flag. Idempotent toggle: the flag is
// never set to an explicit value.
func (sc *SuperadminController) ToggleAdminStatus(c *gin.Context) {
	target, ok := sc.loadManagedAdmin(c)
	if !ok {
		return
	}

	target.Active = !target.Active
	if err := sc.Store.SaveEmployee(target); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not toggle status")
		return
	}

	state := "deactivated"
	if target.Active {
		state = "activated"
	}
	logger.Info.Printf("ToggleAdminStatus: admin %d %s", target.ID, state)
	c.JSON(http.StatusOK, gin.H{"message": "Admin " + state + " successfully"})
}
