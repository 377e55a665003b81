package checkout

// Idempotency keys are derived from the checkout identifier and the resource
// kind, never from random values and never regenerated per attempt. Retries,
// reloads, and duplicate submissions against the same checkout therefore
// collapse to the same backend hold and payment intent.

// HoldKey returns the idempotency key for inventory hold creation.
func HoldKey(checkoutID string) string {
	return "hold:" + checkoutID
}

// PaymentIntentKey returns the idempotency key for payment-intent creation.
func PaymentIntentKey(checkoutID string) string {
	return "pi:" + checkoutID
}
