package hsm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client requests co-signatures from the signing service over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a new Client. The timeout bounds the whole signing
// round trip.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type signRequest struct {
	Payload string `json:"payload"`
}

type signResponse struct {
	Status    string `json:"status"`
	Signature string `json:"signature"`
}

// Sign submits the payload for co-signing and returns the signer's status.
func (c *Client) Sign(ctx context.Context, payload []byte) (string, error) {
	body, err := json.Marshal(signRequest{Payload: string(payload)})
	if err != nil {
		return "", fmt.Errorf("marshal sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/sign", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign request: unexpected status %d", resp.StatusCode)
	}

	var sr signResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}

	return sr.Status, nil
}
