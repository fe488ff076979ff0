// Package store owns the database handle and every query the controllers
// run. Authorization happens before any of these methods are called.
// File: store/store.go
package store

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-field-ops/logger"
	"go-field-ops/models"
)

// ErrNotFound is returned when a referenced entity is absent.
var ErrNotFound = errors.New("record not found")

// PredefinedAreas seeds the city catalog on first migration.
var PredefinedAreas = []string{
	"Shivajinagar", "Kothrud", "Baner", "Hinjewadi", "Wakad",
	"Aundh", "Kharadi", "Viman Nagar", "Hadapsar", "Camp",
	"Kondhwa", "Katraj", "Pimpri", "Chinchwad", "Akurdi",
	"Nigdi", "Ravet", "Pimple Saudagar", "Pimple Gurav", "Thergaon",
}

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path and runs migrations.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(
		&models.City{},
		&models.Employee{},
		&models.Hotel{},
		&models.Media{},
		&models.Location{},
	); err != nil {
		return err
	}
	return s.seedCities()
}

// seedCities inserts the predefined areas that are missing. Existing rows
// are left untouched.
func (s *Store) seedCities() error {
	for _, name := range PredefinedAreas {
		var city models.City
		err := s.db.Where("name = ?", name).First(&city).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&models.City{Name: name}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	logger.Debug.Printf("store: city catalog seeded (%d predefined areas)", len(PredefinedAreas))
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---------------- cities ----------------

// ListCities returns the full city catalog ordered by name.
func (s *Store) ListCities() ([]models.City, error) {
	var cities []models.City
	err := s.db.Order("name").Find(&cities).Error
	return cities, err
}

func (s *Store) FindCityByID(id uint) (*models.City, error) {
	var city models.City
	if err := s.db.First(&city, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &city, nil
}

func (s *Store) FindCityByName(name string) (*models.City, error) {
	var city models.City
	if err := s.db.Where("name = ?", name).First(&city).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &city, nil
}

func (s *Store) CreateCity(city *models.City) error {
	return s.db.Create(city).Error
}

// ---------------- employees ----------------

func (s *Store) CreateEmployee(e *models.Employee) error {
	return s.db.Create(e).Error
}

func (s *Store) FindEmployeeByID(id uint) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.Preload("City").First(&e, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &e, nil
}

func (s *Store) FindEmployeeByEmail(email string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.Preload("City").Where("email = ?", email).First(&e).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &e, nil
}

// UsernameTaken and EmailTaken back the independent uniqueness constraints
// on the two login identifiers.
func (s *Store) UsernameTaken(username string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *Store) EmailTaken(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountSuperadmins backs the hard cap of two superadmins system-wide.
func (s *Store) CountSuperadmins() (int64, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).Where("role = ?", models.RoleSuperadmin).Count(&count).Error
	return count, err
}

// ActiveAdminExists reports whether the city's admin slot is occupied.
// Only active admins occupy the slot, so deactivation frees it.
func (s *Store) ActiveAdminExists(cityID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).
		Where("role = ? AND city_id = ? AND active = ?", models.RoleAdmin, cityID, true).
		Count(&count).Error
	return count > 0, err
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Role   models.Role
	CityID *uint
	Name   string
}

// ListEmployees returns accounts matching the filter, newest first.
func (s *Store) ListEmployees(f EmployeeFilter) ([]models.Employee, error) {
	q := s.db.Preload("City").Where("role = ?", f.Role)
	if f.CityID != nil {
		q = q.Where("city_id = ?", *f.CityID)
	}
	if f.Name != "" {
		q = q.Where("name LIKE ?", "%"+f.Name+"%")
	}
	var employees []models.Employee
	err := q.Order("created_at DESC").Find(&employees).Error
	return employees, err
}

func (s *Store) SaveEmployee(e *models.Employee) error {
	return s.db.Save(e).Error
}

// EmployeeHasDependents reports whether the account still owns hotels or
// uploads. Deletion is refused while this holds, so nothing is orphaned.
func (s *Store) EmployeeHasDependents(id uint) (bool, error) {
	var hotels int64
	if err := s.db.Model(&models.Hotel{}).Where("created_by = ?", id).Count(&hotels).Error; err != nil {
		return false, err
	}
	if hotels > 0 {
		return true, nil
	}
	var uploads int64
	if err := s.db.Model(&models.Media{}).Where("uploaded_by = ?", id).Count(&uploads).Error; err != nil {
		return false, err
	}
	return uploads > 0, nil
}

func (s *Store) DeleteEmployee(id uint) error {
	return s.db.Delete(&models.Employee{}, id).Error
}

// ---------------- hotels ----------------

func (s *Store) CreateHotel(h *models.Hotel) error {
	return s.db.Create(h).Error
}

func (s *Store) FindHotelByID(id uint) (*models.Hotel, error) {
	var h models.Hotel
	if err := s.db.Preload("City").First(&h, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &h, nil
}

// HotelIdentityTaken backs the (name, location, city) uniqueness invariant.
// excludeID skips the hotel being updated.
func (s *Store) HotelIdentityTaken(name, location string, cityID uint, excludeID uint) (bool, error) {
	var count int64
	q := s.db.Model(&models.Hotel{}).
		Where("name = ? AND location = ? AND city_id = ?", name, location, cityID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// HotelFilter narrows hotel listings.
type HotelFilter struct {
	CityID     *uint
	ActiveOnly bool
	Name       string
	Location   string
}

func (s *Store) ListHotels(f HotelFilter) ([]models.Hotel, error) {
	q := s.db.Preload("City")
	if f.CityID != nil {
		q = q.Where("city_id = ?", *f.CityID)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if f.Name != "" {
		q = q.Where("name LIKE ?", "%"+f.Name+"%")
	}
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	var hotels []models.Hotel
	err := q.Order("name").Find(&hotels).Error
	return hotels, err
}

func (s *Store) SaveHotel(h *models.Hotel) error {
	return s.db.Save(h).Error
}

func (s *Store) DeleteHotel(id uint) error {
	return s.db.Delete(&models.Hotel{}, id).Error
}

// HotelHasMedia blocks hotel deletion while evidence still references it.
func (s *Store) HotelHasMedia(id uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Media{}).Where("hotel_id = ?", id).Count(&count).Error
	return count > 0, err
}

// ---------------- media ----------------

func (s *Store) CreateMedia(m *models.Media) error {
	return s.db.Create(m).Error
}

func (s *Store) FindMediaByID(id uint) (*models.Media, error) {
	var m models.Media
	err := s.db.Preload("Uploader.City").Preload("Hotel.City").First(&m, id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &m, nil
}

// MediaFilter narrows media listings. CityID filters via the hotel's city;
// the Active*Only flags realize the admin view's restriction to active
// workers and hotels and the worker view's restriction to active hotels.
type MediaFilter struct {
	UploadedBy        *uint
	HotelID           *uint
	WorkerID          *uint
	MediaType         string
	CityID            *uint
	ActiveHotelsOnly  bool
	ActiveWorkersOnly bool
}

func (s *Store) ListMedia(f MediaFilter) ([]models.Media, error) {
	q := s.db.Preload("Uploader.City").Preload("Hotel.City").
		Joins("JOIN hotels ON hotels.id = media.hotel_id").
		Joins("JOIN employees ON employees.id = media.uploaded_by")
	if f.UploadedBy != nil {
		q = q.Where("media.uploaded_by = ?", *f.UploadedBy)
	}
	if f.WorkerID != nil {
		q = q.Where("media.uploaded_by = ?", *f.WorkerID)
	}
	if f.HotelID != nil {
		q = q.Where("media.hotel_id = ?", *f.HotelID)
	}
	if f.MediaType != "" {
		q = q.Where("media.media_type = ?", f.MediaType)
	}
	if f.CityID != nil {
		q = q.Where("hotels.city_id = ?", *f.CityID)
	}
	if f.ActiveHotelsOnly {
		q = q.Where("hotels.active = ?", true)
	}
	if f.ActiveWorkersOnly {
		q = q.Where("employees.active = ?", true)
	}
	var media []models.Media
	err := q.Order("media.uploaded_at DESC").Find(&media).Error
	return media, err
}

func (s *Store) DeleteMedia(id uint) error {
	return s.db.Delete(&models.Media{}, id).Error
}

// AdminOwnsMedia reports whether the media's uploader or hotel was created
// by the given admin. Admins may delete only media inside that chain.
func (s *Store) AdminOwnsMedia(adminID uint, m *models.Media) (bool, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).
		Where("id = ? AND created_by = ?", m.UploadedBy, adminID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = s.db.Model(&models.Hotel{}).
		Where("id = ? AND created_by = ?", m.HotelID, adminID).
		Count(&count).Error
	return count > 0, err
}

// ---------------- locations ----------------

// UpsertLocation writes the worker's current position: one logical row per
// worker, latest write wins.
func (s *Store) UpsertLocation(workerID uint, lat, lon float64) (*models.Location, error) {
	var loc models.Location
	err := s.db.Where("worker_id = ?", workerID).First(&loc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		loc = models.Location{WorkerID: workerID, Latitude: lat, Longitude: lon, Timestamp: time.Now().UTC()}
		if err := s.db.Create(&loc).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		loc.Latitude = lat
		loc.Longitude = lon
		loc.Timestamp = time.Now().UTC()
		if err := s.db.Save(&loc).Error; err != nil {
			return nil, err
		}
	}
	return &loc, nil
}

// LatestLocation returns the worker's most recent position by timestamp.
func (s *Store) LatestLocation(workerID uint) (*models.Location, error) {
	var loc models.Location
	err := s.db.Where("worker_id = ?", workerID).Order("timestamp DESC").First(&loc).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &loc, nil
}

// ListLatestLocations returns every worker's current position.
func (s *Store) ListLatestLocations() ([]models.Location, error) {
	var locations []models.Location
	err := s.db.Preload("Worker.City").Order("timestamp DESC").Find(&locations).Error
	return locations, err
}
