package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		URL:        srv.URL + "/api/create-checkout-session",
		SuccessURL: "https://app.example.com/settings?success=true",
		CancelURL:  "https://app.example.com/settings?canceled=true",
	}, testutil.MakeNoopLogger())
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	var got sessionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/create-checkout-session", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sessionId":"cs_test_123"}`))
	})

	id, err := c.CreateCheckoutSession(t.Context(), "price_basic")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)
	assert.Equal(t, sessionRequest{
		PriceID:    "price_basic",
		SuccessURL: "https://app.example.com/settings?success=true",
		CancelURL:  "https://app.example.com/settings?canceled=true",
	}, got)
}

func TestClient_CreateCheckoutSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"Price ID is required"}`, wantErr: "status 400: Price ID is required"},
		{name: "plain body", status: http.StatusBadGateway, body: "upstream down", wantErr: "status 502: upstream down"},
		{name: "empty body", status: http.StatusInternalServerError, wantErr: "status 500"},
		{name: "missing session id", status: http.StatusOK, body: `{}`, wantErr: "response has no session id"},
		{name: "malformed json", status: http.StatusOK, body: `{`, wantErr: "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateCheckoutSession(t.Context(), "price_basic")
			require.Error(t, err)

			var rerr *model.RemoteError
			assert.ErrorAs(t, err, &rerr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_CreateCheckoutSession_RequiresPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.CreateCheckoutSession(t.Context(), "  ")

	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}
