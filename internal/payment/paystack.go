// internal/payment/paystack.go
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PaystackGateway verifies transactions against Paystack's
// GET /transaction/verify/:reference endpoint.
type PaystackGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		PaidAt   string `json:"paid_at"`
		Channel  string `json:"channel"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

func NewPaystackGateway(baseURL, secretKey string) *PaystackGateway {
	return &PaystackGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify returned status %d", resp.StatusCode)
	}

	var body paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if !body.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", body.Message)
	}

	paidAt, _ := time.Parse(time.RFC3339, body.Data.PaidAt)

	raw := map[string]interface{}{
		"provider": "paystack",
		"status":   body.Data.Status,
		"amount":   body.Data.Amount,
		"currency": body.Data.Currency,
		"channel":  body.Data.Channel,
	}

	return &VerificationResult{
		Succeeded:   body.Data.Status == "success",
		Status:      body.Data.Status,
		AmountMinor: body.Data.Amount,
		Currency:    body.Data.Currency,
		PaidAt:      paidAt,
		Channel:     body.Data.Channel,
		PayerEmail:  body.Data.Customer.Email,
		Raw:         raw,
	}, nil
}
