package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"crashpilot/models"
)

func TestClient_ReserveMapsPaymentRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/balance/bet" {
			t.Errorf("path = %s, want /api/balance/bet", r.URL.Path)
		}
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient funds"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	err := c.Reserve(context.Background(), "p1", decimal.NewFromInt(100))
	if err != models.ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestClient_CreditForwardsRefAndAuth(t *testing.T) {
	var got struct {
		PlayerID string          `json:"playerId"`
		Amount   decimal.Decimal `json:"amount"`
		Ref      string          `json:"ref"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/balance/win" {
			t.Errorf("path = %s, want /api/balance/win", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s3cret")
	err := c.Credit(context.Background(), "p1", "bet-123", decimal.NewFromFloat(42.32))
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer s3cret" {
		t.Errorf("auth header = %q", auth)
	}
	if got.PlayerID != "p1" || got.Ref != "bet-123" || !got.Amount.Equal(decimal.NewFromFloat(42.32)) {
		t.Errorf("payload = %+v", got)
	}
}

func TestClient_SurfacesPlatformError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "ledger offline"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	err := c.Reserve(context.Background(), "p1", decimal.NewFromInt(10))
	if err == nil || err.Error() != "wallet: ledger offline" {
		t.Fatalf("err = %v, want the platform's message", err)
	}
}
