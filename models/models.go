// Package models defines the persisted entities and the closed role set.
// File: models/models.go
package models

import "time"

// ---------------- roles ----------------

// Role is the closed set of account roles. There is no endpoint that changes
// a role after creation.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// ---------------- media kinds ----------------

// MediaType distinguishes uploaded images from videos.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// ---------------- entities ----------------

// City is a named geographic zone. Every admin, worker, and hotel belongs to
// exactly one city; superadmins are unscoped.
type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// TableName pins the table name regardless of pluralization rules.
func (City) TableName() string { return "cities" }

// Employee is any account: worker, admin, or superadmin. Username and email
// are independently unique login identifiers; email is the login key.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:120;uniqueIndex" json:"email,omitempty"`
	Phone        string    `gorm:"size:15" json:"phone"`
	Address      string    `gorm:"size:200" json:"address"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:worker" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	// CityID is nil only for superadmins.
	CityID *uint `gorm:"index" json:"city_id,omitempty"`
	City   *City `gorm:"foreignKey:CityID" json:"city,omitempty"`

	// CreatedBy references the provisioning account; nil for the bootstrap
	// superadmins. Traversed via lookup, never as a recursive object graph.
	CreatedBy *uint `json:"created_by,omitempty"`
}

func (Employee) TableName() string { return "employees" }

// Hotel is a physical site workers document with media. Its city is fixed at
// creation to the creating admin's city; (Name, Location, CityID) is unique.
type Hotel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex:idx_hotel_identity" json:"name"`
	Phone    string `gorm:"size:15;not null" json:"phone"`
	Address  string `gorm:"size:200;not null" json:"address"`
	Location string `gorm:"size:100;not null;uniqueIndex:idx_hotel_identity" json:"location"`
	Active   bool   `gorm:"not null;default:true" json:"is_active"`

	CityID uint  `gorm:"not null;index;uniqueIndex:idx_hotel_identity" json:"city_id"`
	City   *City `gorm:"foreignKey:CityID" json:"city,omitempty"`

	CreatedBy uint `gorm:"not null" json:"created_by"`
}

func (Hotel) TableName() string { return "hotels" }

// Media is one uploaded evidence record. The geo tag is a structured optional
// pair, parsed once at the upload boundary.
type Media struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	MediaType   MediaType `gorm:"size:20;not null" json:"media_type"`
	Description string    `gorm:"type:text" json:"description"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`

	UploadedBy uint      `gorm:"not null;index" json:"uploaded_by"`
	Uploader   *Employee `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`

	HotelID uint   `gorm:"not null;index" json:"hotel_id"`
	Hotel   *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

func (Media) TableName() string { return "media" }

// Location is a worker's current position. Writes upsert the single row per
// worker; reads take the most recent by timestamp.
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WorkerID  uint      `gorm:"not null;index" json:"worker_id"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	Worker *Employee `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (Location) TableName() string { return "locations" }
