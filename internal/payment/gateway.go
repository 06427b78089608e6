// internal/payment/gateway.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gisportal/evisa-backend/internal/config"
)

// ErrTransactionNotFound is returned when the provider has no record of the
// given reference. Callers treat it the same as a failed verification.
var ErrTransactionNotFound = errors.New("transaction not found")

// VerificationResult is the normalised outcome of a verify-by-reference call.
// AmountMinor is in the currency's minor unit (pesewas, cents).
type VerificationResult struct {
	Succeeded   bool
	Status      string
	AmountMinor int64
	Currency    string
	PaidAt      time.Time
	Channel     string
	PayerEmail  string
	Raw         map[string]interface{}
}

// Gateway is the trust boundary to the external payment provider. Verify is
// the only trusted source of truth for payment success; a client-side
// success callback is never sufficient on its own.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}

// New selects the configured provider adapter.
func New(cfg *config.Config) (Gateway, error) {
	switch cfg.Payment.Provider {
	case "paystack":
		return NewPaystackGateway(cfg.Payment.PaystackBaseURL, cfg.Payment.PaystackSecret), nil
	case "stripe":
		return NewStripeGateway(cfg.Payment.StripeSecretKey), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Payment.Provider)
	}
}
