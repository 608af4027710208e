package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPRelay implements Gateway against the mail-relay function: a POST of
// {to, subject, html}; any non-2xx response is a failed delivery and the
// response body carries the reason.
type HTTPRelay struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

// NewHTTPRelay creates a new HTTPRelay.
func NewHTTPRelay(endpoint, apiKey string) *HTTPRelay {
	return &HTTPRelay{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   http.DefaultClient,
	}
}

// Make sure we conform to the interface
var _ Gateway = (*HTTPRelay)(nil)

// Send posts the email to the relay endpoint.
func (r *HTTPRelay) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, relayError(resp.Body))
	}
	return nil
}

// relayError extracts the relay's error message, falling back to the raw body.
func relayError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable response body"
	}

	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(raw)
}
