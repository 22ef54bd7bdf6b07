package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to the hub and runs its pumps.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, ID: uuid.NewString(), Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
