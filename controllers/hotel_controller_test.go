//go:build unit
// +build unit

// controllers/hotel_controller_test.go
package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-field-ops/models"
)

func createHotelBody(name, location string) map[string]any {
	return map[string]any{
		"name":     name,
		"phone":    "020-9876",
		"address":  "JM Road",
		"location": location,
	}
}

func TestCreateHotelPinnedToAdminCity(t *testing.T) {
	env := newTestEnv(t)
	city := env.city(t, "Baner")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &city.ID, nil)
	token := env.tokenFor(t, admin)

	w := env.doJSON(t, http.MethodPost, "/api/admin/create_hotel", token, createHotelBody("Blue Nile", "East"))
	require.Equal(t, http.StatusCreated, w.Code)

	hotel := decodeBody(t, w)["hotel"].(map[string]any)
	assert.EqualValues(t, city.ID, hotel["city_id"])
	assert.EqualValues(t, admin.ID, hotel["created_by"])
}

func TestCreateHotelDuplicateIdentity(t *testing.T) {
	env := newTestEnv(t)
	city := env.city(t, "Baner")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &city.ID, nil)
	token := env.tokenFor(t, admin)

	w := env.doJSON(t, http.MethodPost, "/api/admin/create_hotel", token, createHotelBody("Blue Nile", "East"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/admin/create_hotel", token, createHotelBody("Blue Nile", "East"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_hotel", decodeBody(t, w)["error"])

	// Same name at a different location is a different hotel.
	w = env.doJSON(t, http.MethodPost, "/api/admin/create_hotel", token, createHotelBody("Blue Nile", "West"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateHotelNotForSuperadmins(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedAccount(t, "root", models.RoleSuperadmin, nil, nil)
	token := env.tokenFor(t, root)

	w := env.doJSON(t, http.MethodPost, "/api/admin/create_hotel", token, createHotelBody("Blue Nile", "East"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "role_forbidden", decodeBody(t, w)["error"])
}

func TestUpdateHotelCrossCityRefused(t *testing.T) {
	env := newTestEnv(t)
	baner := env.city(t, "Baner")
	aundh := env.city(t, "Aundh")
	owner := env.seedAccount(t, "meera", models.RoleAdmin, &baner.ID, nil)
	other := env.seedAccount(t, "rohan", models.RoleAdmin, &aundh.ID, nil)
	hotel := env.seedHotel(t, "Blue Nile", baner.ID, owner.ID, true)

	w := env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, other), map[string]any{"phone": "000"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "territory_mismatch", decodeBody(t, w)["error"])
}

func TestUpdateHotelCityReassignSuperadminOnly(t *testing.T) {
	env := newTestEnv(t)
	baner := env.city(t, "Baner")
	aundh := env.city(t, "Aundh")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &baner.ID, nil)
	root := env.seedAccount(t, "root", models.RoleSuperadmin, nil, nil)
	hotel := env.seedHotel(t, "Blue Nile", baner.ID, admin.ID, true)

	// An admin cannot move the hotel out of their city.
	w := env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, admin), map[string]any{"city_id": aundh.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A superadmin can.
	w = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, root), map[string]any{"city_id": aundh.ID})
	require.Equal(t, http.StatusOK, w.Code)
	moved, err := env.store.FindHotelByID(hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, aundh.ID, moved.CityID)
}

func TestDeleteHotelRequiresCreatorship(t *testing.T) {
	env := newTestEnv(t)
	city := env.city(t, "Baner")
	owner := env.seedAccount(t, "meera", models.RoleAdmin, &city.ID, nil)
	// A later admin of the same city did not create the hotel.
	successor := env.seedAccount(t, "rohan", models.RoleAdmin, &city.ID, nil)
	hotel := env.seedHotel(t, "Blue Nile", city.ID, owner.ID, true)

	w := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, successor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_owner", decodeBody(t, w)["error"])

	w = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteHotelRefusedWithMedia(t *testing.T) {
	env := newTestEnv(t)
	city := env.city(t, "Baner")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &city.ID, nil)
	worker := env.seedAccount(t, "ravi", models.RoleWorker, &city.ID, &admin.ID)
	hotel := env.seedHotel(t, "Blue Nile", city.ID, admin.ID, true)
	env.seedMedia(t, "a.jpg", worker.ID, hotel.ID)

	w := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/hotel/%d", hotel.ID), env.tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "has_dependents", decodeBody(t, w)["error"])
}

func TestToggleHotelHidesItFromWorkers(t *testing.T) {
	env := newTestEnv(t)
	city := env.city(t, "Baner")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &city.ID, nil)
	worker := env.seedAccount(t, "ravi", models.RoleWorker, &city.ID, &admin.ID)
	hotel := env.seedHotel(t, "Blue Nile", city.ID, admin.ID, true)

	w := env.doJSON(t, http.MethodGet, "/api/hotels", env.tokenFor(t, worker), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Blue Nile")

	w = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/admin/hotel/%d/toggle-status", hotel.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Gone for the worker, still visible to the admin.
	w = env.doJSON(t, http.MethodGet, "/api/hotels", env.tokenFor(t, worker), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Blue Nile")

	w = env.doJSON(t, http.MethodGet, "/api/hotels", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Blue Nile")
}

func TestListHotelsTerritoryScoping(t *testing.T) {
	env := newTestEnv(t)
	baner := env.city(t, "Baner")
	aundh := env.city(t, "Aundh")
	adminB := env.seedAccount(t, "meera", models.RoleAdmin, &baner.ID, nil)
	adminA := env.seedAccount(t, "rohan", models.RoleAdmin, &aundh.ID, nil)
	root := env.seedAccount(t, "root", models.RoleSuperadmin, nil, nil)
	env.seedHotel(t, "Baner Inn", baner.ID, adminB.ID, true)
	env.seedHotel(t, "Aundh Inn", aundh.ID, adminA.ID, true)

	w := env.doJSON(t, http.MethodGet, "/api/hotels", env.tokenFor(t, adminB), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Baner Inn")
	assert.NotContains(t, w.Body.String(), "Aundh Inn")

	w = env.doJSON(t, http.MethodGet, "/api/hotels", env.tokenFor(t, root), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Baner Inn")
	assert.Contains(t, w.Body.String(), "Aundh Inn")
}

func TestHotelQRCode(t *testing.T) {
	env := newTestEnv(t)
	baner := env.city(t, "Baner")
	aundh := env.city(t, "Aundh")
	admin := env.seedAccount(t, "meera", models.RoleAdmin, &baner.ID, nil)
	outsider := env.seedAccount(t, "rohan", models.RoleAdmin, &aundh.ID, nil)
	hotel := env.seedHotel(t, "Blue Nile", baner.ID, admin.ID, true)

	w := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/hotel/%d/qrcode", hotel.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	// An admin of another city cannot print this hotel's code.
	w = env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/hotel/%d/qrcode", hotel.ID), env.tokenFor(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "territory_mismatch", decodeBody(t, w)["error"])
}
