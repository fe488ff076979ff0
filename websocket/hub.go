// Package websocket streams live worker positions to admin dashboards.
// File: websocket/hub.go
package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-field-ops/logger"
	"go-field-ops/models"
)

// LocationUpdate is one broadcast frame: a worker's fresh position.
type LocationUpdate struct {
	WorkerID  uint      `json:"worker_id"`
	CityID    *uint     `json:"city_id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriber is one connected dashboard. Admins only receive updates for
// their own city; superadmins receive everything.
type subscriber struct {
	conn   *websocket.Conn
	role   models.Role
	cityID *uint
}

// Hub fans location updates out to subscribed connections. Safe for
// concurrent use from request handlers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*websocket.Conn]subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*websocket.Conn]subscriber)}
}

// Subscribe registers a dashboard connection with its visibility scope.
func (h *Hub) Subscribe(conn *websocket.Conn, role models.Role, cityID *uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[conn] = subscriber{conn: conn, role: role, cityID: cityID}
	logger.Info.Printf("hub: subscriber added (role=%s, total=%d)", role, len(h.subscribers))
	PublishSubscriberCount(len(h.subscribers))
}

// Unsubscribe removes a connection and closes it.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[conn]; !ok {
		return
	}
	delete(h.subscribers, conn)
	_ = conn.Close()
	logger.Info.Printf("hub: subscriber removed (total=%d)", len(h.subscribers))
	PublishSubscriberCount(len(h.subscribers))
}

// Broadcast pushes a location update to every subscriber allowed to see it.
// Dead connections are dropped as they are discovered.
func (h *Hub) Broadcast(update LocationUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, sub := range h.subscribers {
		if !sub.canSee(update) {
			continue
		}
		if err := conn.WriteJSON(update); err != nil {
			logger.Warn.Printf("hub: dropping dead subscriber: %v", err)
			delete(h.subscribers, conn)
			_ = conn.Close()
		}
	}
	PublishLocationBroadcast()
}

// canSee applies the same territory rule as the ViewLocation row: admins
// their own city, superadmins everything.
func (s subscriber) canSee(update LocationUpdate) bool {
	switch s.role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return s.cityID != nil && update.CityID != nil && *s.cityID == *update.CityID
	}
	return false
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
