// Package controllers: venue (hotel) CRUD, always mediated by the engine.
// File: controllers/hotel_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-field-ops/authz"
	"go-field-ops/logger"
	"go-field-ops/models"
	"go-field-ops/services"
	"go-field-ops/store"
)

// ---------------- Hotel Controller ----------------

// HotelController manages hotel records.
type HotelController struct {
	Store *store.Store
}

// NewHotelController initializes a new instance of HotelController.
func NewHotelController(s *store.Store) *HotelController {
	return &HotelController{Store: s}
}

// ---------------- creation ----------------

type createHotelRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

// CreateHotel creates a hotel in the admin's own city. The city is taken
// from the caller's identity, never from the request body, so a caller
// cannot plant records in another territory.
func (hc *HotelController) CreateHotel(c *gin.Context) {
	caller, admin, ok := resolveCaller(c, hc.Store)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpCreateVenue, nil); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	var req createHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.Address == "" || req.Location == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "name, phone, address and location are required")
		return
	}
	if admin.CityID == nil {
		fail(c, http.StatusBadRequest, "unknown_city", "Caller has no assigned area")
		return
	}

	if taken, err := hc.Store.HotelIdentityTaken(req.Name, req.Location, *admin.CityID, 0); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate hotel")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_hotel", "A hotel with that name and location already exists in this city")
		return
	}

	hotel := &models.Hotel{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Location:  req.Location,
		CityID:    *admin.CityID,
		Active:    true,
		CreatedBy: admin.ID,
	}
	if err := hc.Store.CreateHotel(hotel); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not create hotel")
		return
	}

	logger.Info.Printf("CreateHotel: hotel %q created in city %d by admin %d", hotel.Name, hotel.CityID, admin.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Hotel created successfully", "hotel": hotel})
}

// ---------------- mutation ----------------

// loadHotelTarget fetches the hotel and builds the engine's view of it.
func (hc *HotelController) loadHotelTarget(c *gin.Context) (authz.Caller, *models.Hotel, *authz.Resource, bool) {
	caller, _, ok := resolveCaller(c, hc.Store)
	if !ok {
		return authz.Caller{}, nil, nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "Hotel id must be numeric")
		return authz.Caller{}, nil, nil, false
	}

	hotel, err := hc.Store.FindHotelByID(uint(id))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load hotel")
		return authz.Caller{}, nil, nil, false
	}

	resource := &authz.Resource{}
	if hotel != nil {
		resource.Exists = true
		resource.CityID = &hotel.CityID
		resource.OwnerID = &hotel.CreatedBy
		resource.Active = &hotel.Active
	}
	return caller, hotel, resource, true
}

type updateHotelRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Location string `json:"location"`
	CityID   uint   `json:"city_id"`
}

// UpdateHotel edits a hotel. Admins stay inside their city; superadmin
// updates may reassign the city.
func (hc *HotelController) UpdateHotel(c *gin.Context) {
	caller, hotel, resource, ok := hc.loadHotelTarget(c)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpUpdateVenue, resource)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	var req updateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.Phone != "" {
		hotel.Phone = req.Phone
	}
	if req.Address != "" {
		hotel.Address = req.Address
	}
	if req.Location != "" {
		hotel.Location = req.Location
	}
	if req.CityID != 0 && req.CityID != hotel.CityID {
		// Only an unrestricted caller may move a hotel between cities.
		if decision.Scope != authz.ScopeAll {
			failDecision(c, authz.Deny(authz.ReasonTerritoryMismatch))
			return
		}
		if _, err := hc.Store.FindCityByID(req.CityID); err != nil {
			fail(c, http.StatusBadRequest, "unknown_city", "city_id does not reference a known area")
			return
		}
		hotel.CityID = req.CityID
		hotel.City = nil
	}

	if taken, err := hc.Store.HotelIdentityTaken(hotel.Name, hotel.Location, hotel.CityID, hotel.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate hotel")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_hotel", "A hotel with that name and location already exists in this city")
		return
	}

	if err := hc.Store.SaveHotel(hotel); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not update hotel")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hotel updated successfully"})
}

// DeleteHotel removes a hotel. Admins must be its creator; evidence blocks
// deletion so media never points at a missing hotel.
func (hc *HotelController) DeleteHotel(c *gin.Context) {
	caller, hotel, resource, ok := hc.loadHotelTarget(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpDeleteVenue, resource); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	if hasMedia, err := hc.Store.HotelHasMedia(hotel.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not check hotel media")
		return
	} else if hasMedia {
		fail(c, http.StatusConflict, "has_dependents", "Hotel still has media records; deactivate instead")
		return
	}

	if err := hc.Store.DeleteHotel(hotel.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not delete hotel")
		return
	}
	logger.Info.Printf("DeleteHotel: hotel %d deleted by person %d", hotel.ID, caller.PersonID)
	c.JSON(http.StatusOK, gin.H{"message": "Hotel deleted successfully"})
}

// ToggleHotelStatus flips the active flag. Inactive hotels vanish from
// worker listings immediately and block new uploads.
func (hc *HotelController) ToggleHotelStatus(c *gin.Context) {
	caller, hotel, resource, ok := hc.loadHotelTarget(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(caller, authz.OpToggleVenueStatus, resource); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	hotel.Active = !hotel.Active
	if err := hc.Store.SaveHotel(hotel); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not toggle status")
		return
	}

	state := "deactivated"
	if hotel.Active {
		state = "activated"
	}
	logger.Info.Printf("ToggleHotelStatus: hotel %d %s", hotel.ID, state)
	c.JSON(http.StatusOK, gin.H{"message": "Hotel " + state + " successfully"})
}

// ---------------- listings ----------------

// ListHotels returns hotels per the caller's scope: workers see active
// hotels in their own city, admins their whole city including inactive,
// superadmins everything.
func (hc *HotelController) ListHotels(c *gin.Context) {
	caller, person, ok := resolveCaller(c, hc.Store)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpViewVenues, nil)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	filter := store.HotelFilter{Name: c.Query("name"), Location: c.Query("location")}
	switch decision.Scope {
	case authz.ScopeTerritory:
		filter.CityID = person.CityID
		// Inactive venues are invisible to workers but stay visible to
		// admins.
		filter.ActiveOnly = caller.Role == models.RoleWorker
	case authz.ScopeAll:
		if cityParam := c.Query("city_id"); cityParam != "" {
			id, err := strconv.ParseUint(cityParam, 10, 32)
			if err != nil {
				fail(c, http.StatusBadRequest, "invalid_filter", "city_id must be numeric")
				return
			}
			cityID := uint(id)
			filter.CityID = &cityID
		}
	}

	hotels, err := hc.Store.ListHotels(filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not list hotels")
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// ---------------- QR codes ----------------

// HotelQRCode renders a PNG QR code linking to the hotel, for printing at
// the site. Visible to anyone who can view the hotel.
func (hc *HotelController) HotelQRCode(c *gin.Context) {
	caller, person, ok := resolveCaller(c, hc.Store)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpViewVenues, nil)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "Hotel id must be numeric")
		return
	}
	hotel, err := hc.Store.FindHotelByID(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "resource_not_found", "Hotel not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load hotel")
		return
	}
	if decision.Scope == authz.ScopeTerritory {
		if person.CityID == nil || hotel.CityID != *person.CityID {
			failDecision(c, authz.Deny(authz.ReasonTerritoryMismatch))
			return
		}
	}

	png, err := services.GenerateHotelQRCode(hotel.ID, 256, nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
