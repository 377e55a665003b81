package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"vivare/gateway"
	"vivare/models"
	"vivare/services/session"

	"go.uber.org/zap"
)

// Deps bundles the collaborators a Flow needs.
type Deps struct {
	API            gateway.CheckoutAPI
	Sessions       session.Store
	Expiry         ExpiryScheduler
	Logger         *zap.Logger
	RecoveryBudget int
	SessionTTL     time.Duration
	Now            func() time.Time
}

// Flow is one checkout mount: a per-device, per-listing session whose
// initialization (stored-record load, authoritative fetch, reconciliation,
// recovery) runs exactly once for its lifetime. Guest identity and the
// payment client secret live only in this struct, in process memory.
type Flow struct {
	deviceID  string
	listingID string
	stay      models.StayContext

	api         gateway.CheckoutAPI
	sessions    session.Store
	expiry      ExpiryScheduler
	logger      *zap.Logger
	coordinator *ActionCoordinator
	recovery    *RecoveryController
	now         func() time.Time

	initOnce sync.Once

	mu           sync.Mutex
	checkoutID   string
	guest        *models.GuestInfo
	clientSecret string
	state        models.FlowState
	lastActive   time.Time
}

func NewFlow(deps Deps, deviceID, listingID string, stay models.StayContext) *Flow {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	f := &Flow{
		deviceID:  deviceID,
		listingID: listingID,
		stay:      stay,
		api:       deps.API,
		sessions:  deps.Sessions,
		expiry:    deps.Expiry,
		logger:    deps.Logger,
		now:       now,
		coordinator: &ActionCoordinator{
			API:        deps.API,
			Sessions:   deps.Sessions,
			Expiry:     deps.Expiry,
			SessionTTL: deps.SessionTTL,
			Logger:     deps.Logger,
			Now:        now,
		},
		recovery: NewRecoveryController(deps.API, deps.Logger, deps.RecoveryBudget),
	}
	f.state = models.FlowState{Step: models.StepSummary}
	f.lastActive = now()
	return f
}

// Resume runs the one-time mount initialization and reports the flow state.
// Subsequent calls only report; the setup routine never re-runs.
func (f *Flow) Resume(ctx context.Context) (models.FlowState, error) {
	var initErr error
	f.initOnce.Do(func() {
		initErr = f.initialize(ctx)
	})
	f.touch()
	return f.State(), initErr
}

func (f *Flow) initialize(ctx context.Context) error {
	rec, err := f.sessions.Load(ctx, f.deviceID, f.listingID, f.stay)
	if err != nil {
		// Storage read failure fails open to a fresh start.
		f.logger.Warn("session record load failed", zap.String("listingId", f.listingID), zap.Error(err))
		rec = nil
	}
	if rec == nil {
		return nil
	}

	checkout, err := f.api.GetCheckout(ctx, rec.CheckoutID)
	if err != nil {
		// The record pointed at something we cannot restore; clear it and
		// start fresh rather than surfacing an error.
		f.logger.Warn("failed to restore checkout state",
			zap.String("checkoutId", rec.CheckoutID),
			zap.Error(err),
		)
		if clearErr := f.sessions.Clear(ctx, f.deviceID, f.listingID); clearErr != nil {
			f.logger.Warn("session record clear failed", zap.Error(clearErr))
		}
		return nil
	}

	return f.apply(ctx, checkout)
}

// apply reconciles one authoritative record into flow state and triggers
// recovery for active-but-incomplete states.
func (f *Flow) apply(ctx context.Context, c *models.Checkout) error {
	out := Reconcile(c)

	f.mu.Lock()
	st := models.FlowState{
		Step:          out.Step,
		CheckoutID:    c.CheckoutID,
		HoldExpiresAt: c.HoldExpiresAt,
	}
	switch {
	case out.Redirect != nil:
		st.Redirect = out.Redirect
		// The redirect supersedes the step; report the first step rather
		// than an undefined zero value.
		st.Step = models.StepSummary
		f.checkoutID = c.CheckoutID
	case out.Reset:
		st.Step = models.StepSummary
		st.CheckoutID = ""
		st.HoldExpiresAt = nil
		st.Notice = out.ResetReason
		f.checkoutID = ""
		f.clientSecret = ""
	default:
		f.checkoutID = c.CheckoutID
	}
	f.state = st
	f.mu.Unlock()

	if out.Reset {
		if err := f.sessions.Clear(ctx, f.deviceID, f.listingID); err != nil {
			f.logger.Warn("session record clear failed", zap.Error(err))
		}
		return nil
	}

	if out.Redirect == nil && c.HoldExpiresAt != nil && f.expiry != nil {
		if err := f.expiry.ScheduleSweep(ctx, f.deviceID, f.listingID, c.CheckoutID, c.HoldExpiresAt.Add(time.Minute)); err != nil {
			f.logger.Warn("failed to schedule session sweep", zap.Error(err))
		}
	}

	if out.NeedsRecovery {
		return f.runRecovery(ctx)
	}
	return nil
}

// runRecovery drives one bounded recovery attempt and folds the result into
// flow state. A recoverable failure becomes a notice, not an error.
func (f *Flow) runRecovery(ctx context.Context) error {
	f.mu.Lock()
	id := f.checkoutID
	f.state.Recovering = true
	f.mu.Unlock()

	secret, err := f.recovery.Recover(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Recovering = false

	if errors.Is(err, ErrRecoveryInFlight) {
		return nil
	}
	if errors.Is(err, ErrRecoveryExhausted) {
		f.state.Notice = ErrRecoveryExhausted.Message
		return ErrRecoveryExhausted
	}
	if err != nil {
		var flowErr *FlowError
		if errors.As(err, &flowErr) {
			f.state.Notice = flowErr.Message
		} else {
			f.state.Notice = "There was a problem loading the payment form. Please try again."
		}
		return nil
	}

	f.clientSecret = secret
	f.state.ClientSecret = secret
	f.state.Notice = ""
	return nil
}

// RetryRecovery re-runs payment session recovery after a recoverable failure,
// consuming one attempt from the same per-mount budget.
func (f *Flow) RetryRecovery(ctx context.Context) (models.FlowState, error) {
	f.touch()
	f.mu.Lock()
	id := f.checkoutID
	step := f.state.Step
	f.mu.Unlock()

	if id == "" || step != models.StepPayment {
		return f.State(), nil
	}
	err := f.runRecovery(ctx)
	return f.State(), err
}

// SubmitGuest drives the forward progression from the guest step. The guest
// payload is held in memory and sent to the backend, never persisted locally.
func (f *Flow) SubmitGuest(ctx context.Context, info models.GuestInfo) (models.FlowState, error) {
	f.touch()
	f.mu.Lock()
	f.guest = &info
	id := f.checkoutID
	f.mu.Unlock()

	result, err := f.coordinator.SubmitGuestInfo(ctx, f.deviceID, f.listingID, f.stay, id, info)

	f.mu.Lock()
	if result != nil && result.CheckoutID != "" {
		f.checkoutID = result.CheckoutID
		f.state.CheckoutID = result.CheckoutID
	}
	if err != nil {
		f.mu.Unlock()
		return f.State(), err
	}
	f.clientSecret = result.ClientSecret
	f.state.Step = models.StepPayment
	f.state.ClientSecret = result.ClientSecret
	f.state.Notice = ""
	f.mu.Unlock()

	return f.State(), nil
}

// Finalize asks the backend to confirm the booking after payment capture.
// Success clears the local record and redirects to the confirmed destination.
func (f *Flow) Finalize(ctx context.Context, maxWait time.Duration) (*models.FinalizeResult, error) {
	f.touch()
	f.mu.Lock()
	id := f.checkoutID
	f.mu.Unlock()

	if id == "" {
		return nil, NewRecoverableError("There is no active checkout to finalize.")
	}

	result, err := f.api.FinalizeCheckout(ctx, id, maxWait)
	if err != nil {
		f.logger.Warn("finalize failed", zap.String("checkoutId", id), zap.Error(err))
		return nil, NewRecoverableError("We could not confirm your booking yet. Please try again.")
	}

	if result.Success {
		if err := f.sessions.Clear(ctx, f.deviceID, f.listingID); err != nil {
			f.logger.Warn("session record clear failed", zap.Error(err))
		}
		f.mu.Lock()
		f.state.Redirect = &models.Redirect{Kind: models.RedirectConfirmed, CheckoutID: id}
		f.mu.Unlock()
	}
	return result, nil
}

// Cancel abandons the attempt: backend cancel, local record cleared, flow
// reset to the first step.
func (f *Flow) Cancel(ctx context.Context, reason string) error {
	f.touch()
	f.mu.Lock()
	id := f.checkoutID
	f.mu.Unlock()

	if id != "" {
		if _, err := f.api.CancelCheckout(ctx, id, reason); err != nil {
			f.logger.Warn("cancel failed", zap.String("checkoutId", id), zap.Error(err))
			return NewRecoverableError("We could not cancel your checkout. Please try again.")
		}
	}

	if err := f.sessions.Clear(ctx, f.deviceID, f.listingID); err != nil {
		f.logger.Warn("session record clear failed", zap.Error(err))
	}

	f.mu.Lock()
	f.checkoutID = ""
	f.clientSecret = ""
	f.guest = nil
	f.state = models.FlowState{Step: models.StepSummary}
	f.mu.Unlock()
	return nil
}

// State returns a snapshot of the current flow state.
func (f *Flow) State() models.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Stay returns the search context this flow was mounted with.
func (f *Flow) Stay() models.StayContext {
	return f.stay
}

// LastActive reports when the flow last served a call.
func (f *Flow) LastActive() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

func (f *Flow) touch() {
	f.mu.Lock()
	f.lastActive = f.now()
	f.mu.Unlock()
}
