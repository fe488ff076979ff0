// Package websocket - websocket/handler.go
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-field-ops/logger"
	"go-field-ops/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Bearer-token auth has already run by the time we upgrade; the origin
	// header carries no extra trust here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed upgrades an authenticated admin/superadmin request to a
// websocket and subscribes it to the live location feed. The connection is
// read from only to detect closure; the hub does all the writing.
func (h *Hub) ServeFeed(c *gin.Context, role models.Role, cityID *uint) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error.Printf("ServeFeed: upgrade failed: %v", err)
		return
	}

	h.Subscribe(conn, role, cityID)

	go func() {
		defer h.Unsubscribe(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
