package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"crashpilot/game"
	"crashpilot/models"
	"crashpilot/wallet"
)

// A fresh client must receive the current round as its first frame, queued
// before the hub pumps start so a disconnect during the handshake can never
// hit a closed send channel.
func TestServeWs_FirstFrameIsCurrentRound(t *testing.T) {
	hub := models.NewHub()
	go hub.Run()

	e := game.NewEngine(game.Options{
		Curve:        game.NewCurve(game.DefaultGrowthRate),
		Wallet:       wallet.NewMemory(decimal.NewFromInt(1000)),
		WaitDuration: 5 * time.Second,
		DisplayDelay: time.Second,
	})
	ticks := make(chan time.Time, 1)
	ticks <- time.Unix(1_700_000_000, 0)
	go e.Run(ticks)
	defer e.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, e, w, r)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Event != "current_round" {
		t.Fatalf("first event = %q, want current_round", msg.Event)
	}
	snap, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("snapshot payload = %T", msg.Data)
	}
	if snap["phase"] != string(models.PhaseWaiting) {
		t.Fatalf("phase = %v, want waiting", snap["phase"])
	}
}
