package checkout

import "vivare/models"

// Outcome is the reconciler's verdict for one authoritative checkout record.
// Exactly one of Redirect, Reset, or a forward step applies.
type Outcome struct {
	Step          models.FlowStep
	Redirect      *models.Redirect
	Reset         bool
	ResetReason   string
	NeedsRecovery bool
}

// Reconcile maps backend state to a UI step. The step is a pure function of
// the fetched record, never of local history, which is what keeps the flow
// resumable after a full reload. The mapping is total over the state enum.
func Reconcile(c *models.Checkout) Outcome {
	switch c.State {
	case models.StatePaid:
		return Outcome{Redirect: &models.Redirect{Kind: models.RedirectConfirming, CheckoutID: c.CheckoutID}}
	case models.StateBooked:
		return Outcome{Redirect: &models.Redirect{Kind: models.RedirectConfirmed, CheckoutID: c.CheckoutID}}
	case models.StateCanceled, models.StateExpired, models.StateFailed:
		return Outcome{
			Step:        models.StepSummary,
			Reset:       true,
			ResetReason: "Your previous session expired or was canceled. Please start again.",
		}
	case models.StateHoldCreated, models.StatePaymentCreated:
		// Both active-but-incomplete states recover the payment session
		// uniformly; the stable pi:<id> key either returns the existing
		// client secret or creates the intent that was never reached.
		return Outcome{Step: models.StepPayment, NeedsRecovery: true}
	case models.StateInitiated:
		return Outcome{Step: models.StepGuest}
	default:
		return Outcome{
			Step:        models.StepSummary,
			Reset:       true,
			ResetReason: "We could not restore your previous session. Please start again.",
		}
	}
}
