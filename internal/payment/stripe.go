// internal/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeGateway verifies transactions by retrieving the PaymentIntent the
// hosted checkout produced. The reference is the PaymentIntent ID.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	pi, err := g.api.PaymentIntents.Get(reference, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("stripe verify failed: %w", err)
	}

	raw := map[string]interface{}{
		"provider": "stripe",
		"status":   string(pi.Status),
		"amount":   pi.Amount,
		"currency": string(pi.Currency),
	}

	var payerEmail string
	if pi.ReceiptEmail != "" {
		payerEmail = pi.ReceiptEmail
	}

	return &VerificationResult{
		Succeeded:   pi.Status == stripe.PaymentIntentStatusSucceeded,
		Status:      string(pi.Status),
		AmountMinor: pi.Amount,
		Currency:    strings.ToUpper(string(pi.Currency)),
		PaidAt:      time.Unix(pi.Created, 0),
		Channel:     "card",
		PayerEmail:  payerEmail,
		Raw:         raw,
	}, nil
}
