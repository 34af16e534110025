package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"crashpilot/models"
)

// Client calls an external balance platform over HTTP. Used when the engine
// runs next to a real operator wallet instead of the in-memory one.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewClient(baseURL, secret string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) post(ctx context.Context, path string, payload map[string]interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var data struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(respBody, &data)
	if resp.StatusCode == http.StatusPaymentRequired {
		return models.ErrInsufficientFunds
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wallet: %s", data.Error)
	}
	return nil
}

// Reserve debits the stake from the player's balance.
func (c *Client) Reserve(ctx context.Context, playerID string, amount decimal.Decimal) error {
	return c.post(ctx, "/api/balance/bet", map[string]interface{}{
		"playerId": playerID,
		"amount":   amount,
	})
}

// Credit pays out a settlement. The ref is forwarded so the platform can
// deduplicate retries.
func (c *Client) Credit(ctx context.Context, playerID, ref string, amount decimal.Decimal) error {
	return c.post(ctx, "/api/balance/win", map[string]interface{}{
		"playerId": playerID,
		"amount":   amount,
		"ref":      ref,
	})
}
