package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a websocket connection to the hub as a listener for
// the given conversation. Pass "*" to listen to every conversation.
func ServeWs(hub *Hub, c *websocket.Conn, conversationId string) {
	client := &Client{Hub: hub, Conn: c, ConversationId: conversationId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
