package gateway

import (
	"context"
	"time"

	"vivare/models"
)

// CheckoutAPI is the boundary to the backend checkout state machine. The
// engine only observes and advances checkout state through these calls; it
// never decides locally whether a hold or payment may be created.
type CheckoutAPI interface {
	InitializeCheckout(ctx context.Context, params models.CreateCheckoutParams) (*models.Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (*models.Checkout, error)
	UpdateGuestInfo(ctx context.Context, checkoutID string, guest models.GuestInfo) (*models.Checkout, error)
	CreateHold(ctx context.Context, checkoutID, idempotencyKey string) (*models.HoldResult, error)
	CreatePaymentIntent(ctx context.Context, checkoutID, idempotencyKey string) (*models.PaymentIntentResult, error)
	FinalizeCheckout(ctx context.Context, checkoutID string, maxWait time.Duration) (*models.FinalizeResult, error)
	CancelCheckout(ctx context.Context, checkoutID, reason string) (*models.CancelResult, error)
	CalculatePrice(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
}

// APIError is a decoded backend error. Raw payloads stay at this boundary;
// callers convert to user-facing messages.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == 404
}
