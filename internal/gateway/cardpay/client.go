package cardpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDeclined is returned when the provider rejects the charge. Declines are
// final for the attempt; the payment is marked failed, not retried here.
var ErrDeclined = errors.New("card declined")

// Charge describes a charge to execute against the provider.
type Charge struct {
	PaymentID   int64
	OrderID     int64
	AmountCents int64
}

// Receipt is the provider's confirmation of a successful charge.
type Receipt struct {
	TransactionRef string
	ChargedAt      time.Time
}

// Client is a card payment provider gateway backed by its JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a card provider gateway. Returns nil when no base URL is
// configured; callers treat a nil gateway as "provider disabled".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	PaymentID   int64 `json:"payment_id"`
	OrderID     int64 `json:"order_id"`
	AmountCents int64 `json:"amount_cents"`
}

type chargeResponse struct {
	TransactionRef string    `json:"transaction_ref"`
	ChargedAt      time.Time `json:"charged_at"`
}

type refundRequest struct {
	TransactionRef string `json:"transaction_ref"`
	AmountCents    int64  `json:"amount_cents"`
}

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("card provider: status %d: %s", e.Status, e.Body)
}

// Charge executes a charge and returns the provider's receipt.
func (c *Client) Charge(ctx context.Context, ch Charge) (*Receipt, error) {
	var resp chargeResponse
	err := c.post(ctx, "/v1/charges", chargeRequest{
		PaymentID:   ch.PaymentID,
		OrderID:     ch.OrderID,
		AmountCents: ch.AmountCents,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.TransactionRef == "" {
		return nil, fmt.Errorf("card provider: empty transaction ref")
	}
	return &Receipt{TransactionRef: resp.TransactionRef, ChargedAt: resp.ChargedAt}, nil
}

// Refund reverses a completed charge.
func (c *Client) Refund(ctx context.Context, transactionRef string, amountCents int64) error {
	return c.post(ctx, "/v1/refunds", refundRequest{
		TransactionRef: transactionRef,
		AmountCents:    amountCents,
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("card provider: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("card provider: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("card provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return ErrDeclined
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{Status: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("card provider: decode: %w", err)
	}
	return nil
}
