//go:build unit
// +build unit

// controllers/helpers_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-field-ops/auth"
	"go-field-ops/middleware"
	"go-field-ops/models"
	"go-field-ops/services"
	"go-field-ops/store"
	"go-field-ops/websocket"
)

// testEnv is one fully wired API instance backed by an in-memory database
// and a mocked file store.
type testEnv struct {
	router    *gin.Engine
	store     *store.Store
	tokens    *auth.TokenService
	blacklist *auth.Blacklist
	storage   *services.MockMediaStorage
	hub       *websocket.Hub
}

// newTestEnv wires the same route layout the server uses.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.Open(":memory:")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-secret", 50*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	blacklist := auth.NewBlacklist(time.Minute)
	t.Cleanup(blacklist.Close)

	storage := new(services.MockMediaStorage)
	hub := websocket.NewHub()

	authCtl := NewAuthController(s, tokens, blacklist)
	superadminCtl := NewSuperadminController(s)
	adminCtl := NewAdminController(s)
	hotelCtl := NewHotelController(s)
	mediaCtl := NewMediaController(s, storage)
	locationCtl := NewLocationController(s, hub)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/register-superadmin", authCtl.RegisterSuperadmin)
	api.POST("/login", authCtl.Login)
	api.GET("/areas", superadminCtl.ListAreas)
	api.POST("/refresh", middleware.RefreshRequired(tokens, blacklist), authCtl.Refresh)

	authed := api.Group("", middleware.AuthRequired(tokens, blacklist))
	authed.POST("/logout", authCtl.Logout)
	authed.GET("/hotels", hotelCtl.ListHotels)
	authed.GET("/hotel/:id/qrcode", hotelCtl.HotelQRCode)
	authed.GET("/uploads/:filename", mediaCtl.ServeUpload)

	superadmin := authed.Group("/superadmin", middleware.RoleRequired(models.RoleSuperadmin))
	superadmin.POST("/create-city", superadminCtl.CreateCity)
	superadmin.POST("/create-admin", superadminCtl.CreateAdmin)
	superadmin.GET("/admins", superadminCtl.ListAdmins)
	superadmin.GET("/workers", adminCtl.ListWorkers)
	superadmin.PUT("/admin/:id", superadminCtl.UpdateAdmin)
	superadmin.DELETE("/admin/:id", superadminCtl.DeleteAdmin)
	superadmin.PUT("/admin/:id/toggle-status", superadminCtl.ToggleAdminStatus)
	superadmin.GET("/worker-location", locationCtl.WorkerLocation)
	superadmin.GET("/locations", locationCtl.AllLocations)

	admin := authed.Group("/admin", middleware.RoleRequired(models.RoleAdmin, models.RoleSuperadmin))
	admin.POST("/create-worker", adminCtl.CreateWorker)
	admin.GET("/workers", adminCtl.ListWorkers)
	admin.PUT("/worker/:id", adminCtl.UpdateWorker)
	admin.DELETE("/worker/:id", adminCtl.DeleteWorker)
	admin.PUT("/worker/:id/toggle-status", adminCtl.ToggleWorkerStatus)
	admin.POST("/create_hotel", hotelCtl.CreateHotel)
	admin.PUT("/hotel/:id", hotelCtl.UpdateHotel)
	admin.DELETE("/hotel/:id", hotelCtl.DeleteHotel)
	admin.PUT("/hotel/:id/toggle-status", hotelCtl.ToggleHotelStatus)
	admin.GET("/worker-location", locationCtl.WorkerLocation)

	worker := authed.Group("/worker", middleware.RoleRequired(models.RoleWorker))
	worker.POST("/upload_media", mediaCtl.Upload)

	media := authed.Group("/media")
	media.GET("/worker/view", middleware.RoleRequired(models.RoleWorker), mediaCtl.View)
	media.GET("/worker/options", middleware.RoleRequired(models.RoleWorker), mediaCtl.Options)
	media.GET("/admin/view", middleware.RoleRequired(models.RoleAdmin), mediaCtl.View)
	media.GET("/admin/options", middleware.RoleRequired(models.RoleAdmin), mediaCtl.Options)
	media.GET("/superadmin/view", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.View)
	media.GET("/superadmin/options", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.Options)
	media.DELETE("/:id", middleware.RoleRequired(models.RoleWorker), mediaCtl.Delete)
	media.DELETE("/admin/delete/:id", middleware.RoleRequired(models.RoleAdmin), mediaCtl.Delete)
	media.DELETE("/superadmin/delete/:id", middleware.RoleRequired(models.RoleSuperadmin), mediaCtl.Delete)

	location := authed.Group("/location", middleware.RoleRequired(models.RoleWorker))
	location.POST("", locationCtl.UpdateOwn)
	location.GET("", locationCtl.GetOwn)

	return &testEnv{
		router:    router,
		store:     s,
		tokens:    tokens,
		blacklist: blacklist,
		storage:   storage,
		hub:       hub,
	}
}

// ---------------- fixtures ----------------

func strPtr(v string) *string { return &v }

func (e *testEnv) city(t *testing.T, name string) *models.City {
	t.Helper()
	city, err := e.store.FindCityByName(name)
	require.NoError(t, err)
	return city
}

// seedAccount creates an account with password "secret123".
func (e *testEnv) seedAccount(t *testing.T, name string, role models.Role, cityID *uint, createdBy *uint) *models.Employee {
	t.Helper()
	hash, err := hashPassword("secret123")
	require.NoError(t, err)
	person := &models.Employee{
		Name:         name,
		Username:     name,
		Email:        strPtr(name + "@example.com"),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CityID:       cityID,
		CreatedBy:    createdBy,
	}
	require.NoError(t, e.store.CreateEmployee(person))
	return person
}

func (e *testEnv) seedHotel(t *testing.T, name string, cityID, createdBy uint, active bool) *models.Hotel {
	t.Helper()
	hotel := &models.Hotel{
		Name:      name,
		Phone:     "020-1234",
		Address:   "FC Road",
		Location:  name + " corner",
		Active:    active,
		CityID:    cityID,
		CreatedBy: createdBy,
	}
	require.NoError(t, e.store.CreateHotel(hotel))
	return hotel
}

func (e *testEnv) seedMedia(t *testing.T, filename string, uploadedBy, hotelID uint) *models.Media {
	t.Helper()
	m := &models.Media{
		Filename:   filename,
		MediaType:  models.MediaImage,
		UploadedAt: time.Now().UTC(),
		UploadedBy: uploadedBy,
		HotelID:    hotelID,
	}
	require.NoError(t, e.store.CreateMedia(m))
	return m
}

// tokenFor issues an access token for a seeded account.
func (e *testEnv) tokenFor(t *testing.T, person *models.Employee) string {
	t.Helper()
	token, err := e.tokens.IssueAccess(person)
	require.NoError(t, err)
	return token
}

// ---------------- request helpers ----------------

// doJSON performs a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doUpload performs a multipart upload carrying one file part plus form
// fields.
func (e *testEnv) doUpload(t *testing.T, token, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("payload"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/worker/upload_media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
