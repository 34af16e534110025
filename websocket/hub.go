package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"crashpilot/game"
	"crashpilot/models"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the connection, queues the current round snapshot, and
// registers the client with the hub. The snapshot goes into the send buffer
// before the pumps start, while nothing can yet close the channel, so a
// client disconnecting mid-handshake cannot panic the greeting.
func ServeWs(h *models.Hub, engine *game.Engine, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	client := &models.Client{Conn: conn, Send: make(chan models.WSMessage, 256)}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	if snap, err := engine.Snapshot(ctx); err == nil {
		client.Send <- models.WSMessage{Event: "current_round", Data: snap}
	}
	cancel()

	h.Register <- client
	go client.WritePump()
	go client.ReadPump(h)
}
