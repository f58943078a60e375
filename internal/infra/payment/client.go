package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"lagoon-booking/internal/pkg/config"
	"lagoon-booking/internal/pkg/errs"
	"lagoon-booking/internal/usecase/commands"
)

// Client talks to the checkout-session provider over its REST surface. Only
// the two calls the booking flow needs are implemented; webhook delivery is
// out of scope because confirmation is pull-based.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type lineItemPayload struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}

type createSessionPayload struct {
	Mode       string            `json:"mode"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	LineItems  []lineItemPayload `json:"line_items"`
}

type sessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

func (c *Client) CreateSession(ctx context.Context, item commands.PaymentLineItem, successURL, cancelURL string) (*commands.CheckoutSession, error) {
	payload := createSessionPayload{
		Mode:       "payment",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		LineItems: []lineItemPayload{{
			Name:       item.Name,
			UnitAmount: item.UnitAmountCents,
			Currency:   item.Currency,
			Quantity:   item.Quantity,
		}},
	}

	var session sessionPayload
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", payload, &session); err != nil {
		return nil, err
	}
	return &commands.CheckoutSession{
		ID:              session.ID,
		URL:             session.URL,
		PaymentIntentID: session.PaymentIntent,
	}, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*commands.SessionStatus, error) {
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)

	var session sessionPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &commands.SessionStatus{
		PaymentStatus:   session.PaymentStatus,
		PaymentIntentID: session.PaymentIntent,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode provider request")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errs.Wrap(err, "failed to build provider request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "provider request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read keeps a misbehaving provider from blowing up memory.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.New(fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(err, "failed to decode provider response")
	}
	return nil
}
