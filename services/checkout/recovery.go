package checkout

import (
	"context"
	"sync"

	"vivare/gateway"

	"go.uber.org/zap"
)

// DefaultRecoveryBudget bounds automatic recovery attempts per mount.
const DefaultRecoveryBudget = 2

// RecoveryController re-acquires a usable payment session after a reload or
// an interrupted hold-to-payment transition. The stable pi:<checkoutId> key
// makes the call idempotent: an existing payment intent yields the same
// client secret, a missing one is created.
type RecoveryController struct {
	api    gateway.CheckoutAPI
	logger *zap.Logger
	budget int

	mu       sync.Mutex
	attempts int
	inFlight bool
}

func NewRecoveryController(api gateway.CheckoutAPI, logger *zap.Logger, budget int) *RecoveryController {
	if budget <= 0 {
		budget = DefaultRecoveryBudget
	}
	return &RecoveryController{api: api, logger: logger, budget: budget}
}

// Recover requests the payment session for checkoutID. Re-entrant calls
// return ErrRecoveryInFlight; once the attempt budget is spent, every call
// returns ErrRecoveryExhausted without touching the backend.
func (r *RecoveryController) Recover(ctx context.Context, checkoutID string) (string, error) {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return "", ErrRecoveryInFlight
	}
	if r.attempts >= r.budget {
		r.mu.Unlock()
		return "", ErrRecoveryExhausted
	}
	r.attempts++
	r.inFlight = true
	attempt := r.attempts
	r.mu.Unlock()

	result, err := r.api.CreatePaymentIntent(ctx, checkoutID, PaymentIntentKey(checkoutID))

	r.mu.Lock()
	r.inFlight = false
	exhausted := r.attempts >= r.budget
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("payment session recovery failed",
			zap.String("checkoutId", checkoutID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if exhausted {
			return "", ErrRecoveryExhausted
		}
		return "", NewRecoverableError("There was a problem loading the payment form. Please try again.")
	}

	r.logger.Info("payment session recovered",
		zap.String("checkoutId", checkoutID),
		zap.Int("attempt", attempt),
	)
	return result.ClientSecret, nil
}

// Attempts reports how many recovery attempts this mount has consumed.
func (r *RecoveryController) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}
