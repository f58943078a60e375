//go:build unit

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lagoon-booking/internal/pkg/config"
	"lagoon-booking/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.PaymentConfig{
		BaseURL:   baseURL,
		SecretKey: "sk_test",
		Currency:  "usd",
		Timeout:   2 * time.Second,
	})
}

func TestClient_CreateSession(t *testing.T) {
	t.Run("posts the line item and decodes the session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

			var payload createSessionPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "payment", payload.Mode)
			require.Len(t, payload.LineItems, 1)
			assert.Equal(t, "Sea Breeze", payload.LineItems[0].Name)
			assert.Equal(t, int64(60000), payload.LineItems[0].UnitAmount)

			_ = json.NewEncoder(w).Encode(sessionPayload{
				ID:            "cs_1",
				URL:           "https://pay.example/cs_1",
				PaymentIntent: "pi_1",
			})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		session, err := client.CreateSession(context.Background(), commands.PaymentLineItem{
			Name:            "Sea Breeze",
			UnitAmountCents: 60000,
			Currency:        "usd",
			Quantity:        1,
		}, "https://app.example/success", "https://app.example/cancel")

		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)
		assert.Equal(t, "https://pay.example/cs_1", session.URL)
		assert.Equal(t, "pi_1", session.PaymentIntentID)
	})

	t.Run("non-2xx response surfaces as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		_, err := client.CreateSession(context.Background(), commands.PaymentLineItem{}, "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestClient_GetSession(t *testing.T) {
	t.Run("fetches the session status by id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/checkout/sessions/cs_1", r.URL.Path)

			_ = json.NewEncoder(w).Encode(sessionPayload{
				ID:            "cs_1",
				PaymentStatus: "paid",
				PaymentIntent: "pi_1",
			})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL)
		status, err := client.GetSession(context.Background(), "cs_1")

		require.NoError(t, err)
		assert.Equal(t, commands.PaymentStatusPaid, status.PaymentStatus)
		assert.Equal(t, "pi_1", status.PaymentIntentID)
	})

	t.Run("connection failure surfaces as error", func(t *testing.T) {
		client := newTestClient("http://127.0.0.1:1")
		_, err := client.GetSession(context.Background(), "cs_1")
		require.Error(t, err)
	})
}
