// Package recognizer calls the external receipt-recognition service. The
// service takes one still image and answers a best-effort guess; every
// field is independently nullable when it could not be determined.
package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	ErrNotConfigured = errors.New("recognizer service not configured")
	ErrEmptyImage    = errors.New("empty receipt image")
)

// Guess is the collaborator's structured answer. Nil fields were not
// determined and must leave the caller's draft untouched.
type Guess struct {
	TotalCost    *float64 `json:"totalCost"`
	Volume       *float64 `json:"volume"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	StationName  *string  `json:"stationName"`
	Date         *string  `json:"date"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the service at baseURL. The timeout bounds
// the whole request; the original system had none, but an unbounded hang
// would freeze the scan affordance forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Recognize submits a JPEG-compatible image and decodes the guess. Errors
// are advisory: the caller falls back to manual entry and must not lose
// already-known draft fields.
func (c *Client) Recognize(ctx context.Context, image []byte) (Guess, error) {
	if c.baseURL == "" {
		return Guess{}, ErrNotConfigured
	}
	if len(image) == 0 {
		return Guess{}, ErrEmptyImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/recognize", bytes.NewReader(image))
	if err != nil {
		return Guess{}, fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Guess{}, fmt.Errorf("call recognizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Guess{}, fmt.Errorf("recognizer returned status %d: %s", resp.StatusCode, body)
	}

	var guess Guess
	if err := json.NewDecoder(resp.Body).Decode(&guess); err != nil {
		return Guess{}, fmt.Errorf("decode recognizer response: %w", err)
	}

	slog.InfoContext(ctx, "Receipt recognized",
		"duration_ms", time.Since(start).Milliseconds(),
		"has_total", guess.TotalCost != nil,
		"has_volume", guess.Volume != nil,
		"has_price", guess.PricePerUnit != nil,
		"has_station", guess.StationName != nil,
		"has_date", guess.Date != nil)
	return guess, nil
}
