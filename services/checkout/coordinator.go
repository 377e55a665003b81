package checkout

import (
	"context"
	"time"

	"vivare/gateway"
	"vivare/models"
	"vivare/services/session"

	"go.uber.org/zap"
)

// ExpiryScheduler queues a deferred sweep that clears a session record once
// its checkout can no longer progress. Optional; a nil scheduler disables it.
type ExpiryScheduler interface {
	ScheduleSweep(ctx context.Context, deviceID, listingID, checkoutID string, at time.Time) error
}

// ActionCoordinator sequences the ordered side-effecting calls of the forward
// path: initialize, submit guest info, create hold, create payment intent.
// Every billable call carries an idempotency key derived from the checkout
// identifier, so user re-submissions collapse instead of duplicating.
type ActionCoordinator struct {
	API        gateway.CheckoutAPI
	Sessions   session.Store
	Expiry     ExpiryScheduler
	SessionTTL time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// SubmitResult carries the outcome of a successful guest submission.
type SubmitResult struct {
	CheckoutID   string
	ClientSecret string
}

// SubmitGuestInfo runs the four-step sequence. Any step failure aborts the
// remainder but leaves an already-obtained checkoutID persisted, so a retry
// resumes the same attempt instead of restarting. Retries on this path are
// user-initiated, never automatic.
//
// Even on error, the returned result carries the checkoutID when one exists.
func (a *ActionCoordinator) SubmitGuestInfo(ctx context.Context, deviceID, listingID string, stay models.StayContext, checkoutID string, info models.GuestInfo) (*SubmitResult, error) {
	if err := ValidateGuestInfo(info); err != nil {
		return &SubmitResult{CheckoutID: checkoutID}, err
	}

	id := checkoutID
	if id == "" {
		created, err := a.API.InitializeCheckout(ctx, models.CreateCheckoutParams{
			ListingID: listingID,
			CheckIn:   stay.CheckIn,
			CheckOut:  stay.CheckOut,
			Guests:    stay.Guests,
		})
		if err != nil {
			return &SubmitResult{}, a.stepFailed("initialize", id, err,
				"We could not start your booking. Check your connection and try again.")
		}
		id = created.CheckoutID
		a.persistRecord(ctx, deviceID, listingID, id, stay)
	}

	// Guest info is re-sent even for a pre-existing checkout; it may have
	// changed. The payload goes to the backend only, never to local storage.
	if _, err := a.API.UpdateGuestInfo(ctx, id, info); err != nil {
		return &SubmitResult{CheckoutID: id}, a.stepFailed("updateGuest", id, err,
			"We could not save your guest details. Please try again.")
	}

	if _, err := a.API.CreateHold(ctx, id, HoldKey(id)); err != nil {
		return &SubmitResult{CheckoutID: id}, a.stepFailed("createHold", id, err,
			"We could not reserve your dates. Please try again.")
	}

	intent, err := a.API.CreatePaymentIntent(ctx, id, PaymentIntentKey(id))
	if err != nil {
		return &SubmitResult{CheckoutID: id}, a.stepFailed("createPaymentIntent", id, err,
			"We could not prepare the payment. Please try again.")
	}

	return &SubmitResult{CheckoutID: id, ClientSecret: intent.ClientSecret}, nil
}

// persistRecord writes the non-sensitive session record as soon as an
// identifier exists. A storage failure must not abort the money-bearing
// sequence; the attempt just won't survive a reload.
func (a *ActionCoordinator) persistRecord(ctx context.Context, deviceID, listingID, checkoutID string, stay models.StayContext) {
	now := a.now()
	rec := models.SessionRecord{
		CheckoutID: checkoutID,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		Timestamp:  now.UnixMilli(),
	}
	if err := a.Sessions.Save(ctx, deviceID, listingID, rec); err != nil {
		a.Logger.Warn("failed to persist session record",
			zap.String("checkoutId", checkoutID),
			zap.Error(err),
		)
		return
	}
	if a.Expiry != nil {
		ttl := a.SessionTTL
		if ttl <= 0 {
			ttl = session.DefaultTTL
		}
		at := now.Add(ttl + time.Minute)
		if err := a.Expiry.ScheduleSweep(ctx, deviceID, listingID, checkoutID, at); err != nil {
			a.Logger.Warn("failed to schedule session sweep",
				zap.String("checkoutId", checkoutID),
				zap.Error(err),
			)
		}
	}
}

func (a *ActionCoordinator) stepFailed(step, checkoutID string, err error, msg string) error {
	a.Logger.Warn("checkout step failed",
		zap.String("step", step),
		zap.String("checkoutId", checkoutID),
		zap.Error(err),
	)
	return NewRecoverableError(msg)
}

func (a *ActionCoordinator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
