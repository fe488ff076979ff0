// Package controllers: media evidence upload, browsing, and deletion.
// File: controllers/media_controller.go
package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-field-ops/authz"
	"go-field-ops/logger"
	"go-field-ops/models"
	"go-field-ops/services"
	"go-field-ops/store"
	"go-field-ops/websocket"
)

// ---------------- upload validation ----------------

// extension allow-list; anything else is rejected before the file is read.
var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
var videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".webm": true}

// mediaTypeFor classifies a filename by extension; ok is false for anything
// outside the allow-list.
func mediaTypeFor(filename string) (models.MediaType, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if imageExtensions[ext] {
		return models.MediaImage, true
	}
	if videoExtensions[ext] {
		return models.MediaVideo, true
	}
	return "", false
}

// ---------------- Media Controller ----------------

// MediaController handles uploads and scoped media browsing.
type MediaController struct {
	Store   *store.Store
	Storage services.MediaStorageInterface
}

// NewMediaController initializes a new instance of MediaController.
func NewMediaController(s *store.Store, storage services.MediaStorageInterface) *MediaController {
	return &MediaController{Store: s, Storage: storage}
}

// ---------------- upload ----------------

// Upload accepts a multipart evidence upload from a worker. The target hotel
// must exist, be active, and sit in the worker's own city. The file is
// written before the record is committed; a failed commit removes the file
// so no record ever points at a missing payload.
func (mc *MediaController) Upload(c *gin.Context) {
	caller, worker, ok := resolveCaller(c, mc.Store)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "missing_file", "No file part in the request")
		return
	}
	mediaType, allowed := mediaTypeFor(file.Filename)
	if !allowed {
		fail(c, http.StatusBadRequest, "invalid_file_type", "Allowed types are: jpg, jpeg, png, mp4, mov, avi, webm")
		return
	}

	hotelParam := c.PostForm("hotel_id")
	if hotelParam == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "hotel_id is required")
		return
	}
	hotelID, err := strconv.ParseUint(hotelParam, 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "hotel_id must be numeric")
		return
	}

	// Geo tag is an optional pair: both coordinates or neither.
	lat, lon, geoErr := parseGeoTag(c.PostForm("latitude"), c.PostForm("longitude"))
	if geoErr != "" {
		fail(c, http.StatusBadRequest, "invalid_geo_tag", geoErr)
		return
	}

	hotel, err := mc.Store.FindHotelByID(uint(hotelID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load hotel")
		return
	}

	resource := &authz.Resource{}
	if hotel != nil {
		resource.Exists = true
		resource.CityID = &hotel.CityID
		resource.Active = &hotel.Active
	}
	if decision := authz.Authorize(caller, authz.OpUploadMedia, resource); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	storedName, err := mc.Storage.Save(file)
	if err != nil {
		logger.Error.Printf("Upload: failed to store file for worker %d: %v", worker.ID, err)
		fail(c, http.StatusInternalServerError, "internal_error", "Failed to save file")
		return
	}

	media := &models.Media{
		Filename:    storedName,
		MediaType:   mediaType,
		Description: strings.TrimSpace(c.PostForm("description")),
		Latitude:    lat,
		Longitude:   lon,
		UploadedAt:  time.Now().UTC(),
		UploadedBy:  worker.ID,
		HotelID:     hotel.ID,
	}
	if err := mc.Store.CreateMedia(media); err != nil {
		// best-effort cleanup keeps the file store consistent with the DB
		if rmErr := mc.Storage.Remove(storedName); rmErr != nil {
			logger.Warn.Printf("Upload: could not remove orphaned file %s: %v", storedName, rmErr)
		}
		fail(c, http.StatusInternalServerError, "internal_error", "Could not record upload")
		return
	}

	websocket.PublishUploadCount()
	logger.Info.Printf("Upload: worker %d uploaded %s to hotel %d", worker.ID, storedName, hotel.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Media uploaded successfully", "media_id": media.ID})
}

// parseGeoTag validates the optional latitude/longitude pair. Returns a
// human-readable problem string when the pair is unusable.
func parseGeoTag(latStr, lonStr string) (*float64, *float64, string) {
	if latStr == "" && lonStr == "" {
		return nil, nil, ""
	}
	if latStr == "" || lonStr == "" {
		return nil, nil, "latitude and longitude must be provided together"
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, nil, "latitude must be a number between -90 and 90"
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, nil, "longitude must be a number between -180 and 180"
	}
	return &lat, &lon, ""
}

// ---------------- scoped browsing ----------------

// mediaView is the wire shape for one media record.
type mediaView struct {
	ID          uint             `json:"id"`
	MediaType   models.MediaType `json:"media_type"`
	Description string           `json:"description"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	UploadedAt  string           `json:"uploaded_at"`
	FileURL     string           `json:"file_url"`
	Worker      gin.H            `json:"worker,omitempty"`
	Hotel       gin.H            `json:"hotel,omitempty"`
}

func renderMedia(items []models.Media) []mediaView {
	views := make([]mediaView, 0, len(items))
	for _, m := range items {
		v := mediaView{
			ID:          m.ID,
			MediaType:   m.MediaType,
			Description: m.Description,
			Latitude:    m.Latitude,
			Longitude:   m.Longitude,
			UploadedAt:  m.UploadedAt.Format("2006-01-02 15:04:05"),
			FileURL:     "/api/uploads/" + m.Filename,
		}
		if m.Uploader != nil {
			v.Worker = gin.H{"id": m.Uploader.ID, "name": m.Uploader.Name, "city": m.Uploader.City}
		}
		if m.Hotel != nil {
			v.Hotel = gin.H{"id": m.Hotel.ID, "name": m.Hotel.Name, "location": m.Hotel.Location, "city": m.Hotel.City}
		}
		views = append(views, v)
	}
	return views
}

// buildFilter translates the caller's scope plus query parameters into a
// store filter. Scope restrictions are applied first so query parameters can
// only narrow, never widen, visibility.
func (mc *MediaController) buildFilter(c *gin.Context, caller authz.Caller, person *models.Employee, scope authz.Scope) store.MediaFilter {
	filter := store.MediaFilter{MediaType: c.Query("media_type")}

	switch scope {
	case authz.ScopeOwn:
		filter.UploadedBy = &caller.PersonID
		filter.ActiveHotelsOnly = true
	case authz.ScopeTerritory:
		filter.CityID = person.CityID
		filter.ActiveHotelsOnly = true
		filter.ActiveWorkersOnly = true
	case authz.ScopeAll:
		if cityParam := c.Query("city_id"); cityParam != "" {
			if id, err := strconv.ParseUint(cityParam, 10, 32); err == nil {
				cityID := uint(id)
				filter.CityID = &cityID
			}
		}
	}

	if hotelParam := c.Query("hotel_id"); hotelParam != "" {
		if id, err := strconv.ParseUint(hotelParam, 10, 32); err == nil {
			hotelID := uint(id)
			filter.HotelID = &hotelID
		}
	}
	if scope != authz.ScopeOwn {
		if workerParam := c.Query("worker_id"); workerParam != "" {
			if id, err := strconv.ParseUint(workerParam, 10, 32); err == nil {
				workerID := uint(id)
				filter.WorkerID = &workerID
			}
		}
	}
	return filter
}

// View lists media visible to the caller: workers their own uploads, admins
// their city's active workers and hotels, superadmins everything.
func (mc *MediaController) View(c *gin.Context) {
	caller, person, ok := resolveCaller(c, mc.Store)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpViewMedia, nil)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	media, err := mc.Store.ListMedia(mc.buildFilter(c, caller, person, decision.Scope))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not list media")
		return
	}
	c.JSON(http.StatusOK, renderMedia(media))
}

// Options serves the filter dropdowns for the caller's media view: the
// hotels, workers, and cities inside the caller's scope.
func (mc *MediaController) Options(c *gin.Context) {
	caller, person, ok := resolveCaller(c, mc.Store)
	if !ok {
		return
	}
	decision := authz.Authorize(caller, authz.OpViewMedia, nil)
	if !decision.Allowed {
		failDecision(c, decision)
		return
	}

	payload := gin.H{}
	switch decision.Scope {
	case authz.ScopeOwn:
		// Hotels the worker has uploaded to, active only.
		media, err := mc.Store.ListMedia(store.MediaFilter{UploadedBy: &caller.PersonID, ActiveHotelsOnly: true})
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		seen := map[uint]bool{}
		hotels := []gin.H{}
		for _, m := range media {
			if m.Hotel == nil || seen[m.Hotel.ID] {
				continue
			}
			seen[m.Hotel.ID] = true
			hotels = append(hotels, gin.H{"id": m.Hotel.ID, "name": m.Hotel.Name, "city": m.Hotel.City})
		}
		payload["hotels"] = hotels

	case authz.ScopeTerritory:
		hotels, err := mc.Store.ListHotels(store.HotelFilter{CityID: person.CityID, ActiveOnly: true})
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		workers, err := mc.Store.ListEmployees(store.EmployeeFilter{Role: models.RoleWorker, CityID: person.CityID})
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		payload["hotels"] = hotels
		payload["workers"] = workers

	case authz.ScopeAll:
		cities, err := mc.Store.ListCities()
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		hotels, err := mc.Store.ListHotels(store.HotelFilter{ActiveOnly: true})
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		workers, err := mc.Store.ListEmployees(store.EmployeeFilter{Role: models.RoleWorker})
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal_error", "Could not load options")
			return
		}
		payload["areas"] = cities
		payload["hotels"] = hotels
		payload["workers"] = workers
	}

	c.JSON(http.StatusOK, payload)
}

// ---------------- deletion ----------------

// Delete removes a media record under the engine's ownership rules: workers
// their own uploads, admins media tied to workers/hotels they created,
// superadmins anything. The stored file is removed best-effort.
func (mc *MediaController) Delete(c *gin.Context) {
	caller, _, ok := resolveCaller(c, mc.Store)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_id", "Media id must be numeric")
		return
	}

	media, err := mc.Store.FindMediaByID(uint(id))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not load media")
		return
	}

	resource := &authz.Resource{}
	if media != nil {
		resource.Exists = true
		resource.OwnerID = &media.UploadedBy
		if caller.Role == models.RoleAdmin {
			owned, err := mc.Store.AdminOwnsMedia(caller.PersonID, media)
			if err != nil {
				fail(c, http.StatusInternalServerError, "internal_error", "Could not check media ownership")
				return
			}
			resource.OwnedViaCreation = &owned
		}
	}
	if decision := authz.Authorize(caller, authz.OpDeleteMedia, resource); !decision.Allowed {
		failDecision(c, decision)
		return
	}

	if err := mc.Store.DeleteMedia(media.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not delete media")
		return
	}
	if err := mc.Storage.Remove(media.Filename); err != nil {
		logger.Warn.Printf("Delete: could not remove file %s: %v", media.Filename, err)
	}

	logger.Info.Printf("Delete: media %d deleted by person %d (%s)", media.ID, caller.PersonID, caller.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
}

// ---------------- file serving ----------------

// ServeUpload streams a stored media file by its stored filename.
func (mc *MediaController) ServeUpload(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == "/" {
		fail(c, http.StatusBadRequest, "invalid_filename", "Filename is required")
		return
	}
	c.File(mc.Storage.Path(filename))
}
