package checkout

import "fmt"

// FlowError is a user-facing checkout failure. Recoverable errors leave the
// flow resumable; terminal ones direct the user to manual retry or support.
type FlowError struct {
	Code        string
	Message     string
	Recoverable bool
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewRecoverableError(msg string) error {
	return &FlowError{
		Code:        "checkoutError",
		Message:     msg,
		Recoverable: true,
	}
}

// ErrRecoveryExhausted is returned once the automatic recovery budget for a
// mount is spent. It does not clear the checkout identifier.
var ErrRecoveryExhausted = &FlowError{
	Code:    "recoveryExhausted",
	Message: "We could not load the payment form. Please try again later or contact support.",
}

// ErrRecoveryInFlight signals a re-entrant recovery call; callers treat it as
// a no-op.
var ErrRecoveryInFlight = &FlowError{
	Code:        "recoveryInFlight",
	Message:     "A payment session recovery is already in progress.",
	Recoverable: true,
}

// ValidationError is a pre-network rejection of guest input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
