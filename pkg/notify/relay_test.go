package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRelaySend(t *testing.T) {
	email := Email{To: "s@x.com", Subject: "New Escrow Transaction Created", HTML: "<p>hi</p>"}

	t.Run("Success", func(t *testing.T) {
		var received Email
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		relay := NewHTTPRelay(server.URL, "test-key")
		err := relay.Send(context.Background(), email)

		assert.NoError(t, err)
		assert.Equal(t, email, received)
	})

	t.Run("Relay Error Response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Failed to send email"}`))
		}))
		defer server.Close()

		relay := NewHTTPRelay(server.URL, "")
		err := relay.Send(context.Background(), email)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail relay returned 500")
		assert.Contains(t, err.Error(), "Failed to send email")
	})

	t.Run("Unreachable Relay", func(t *testing.T) {
		relay := NewHTTPRelay("http://127.0.0.1:1", "")
		err := relay.Send(context.Background(), email)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reach mail relay")
	})
}
