package models

import "time"

// CheckoutState mirrors the backend checkout state machine. The engine never
// mutates state locally; it is always re-derived from the latest fetched record.
type CheckoutState string

const (
	StateInitiated      CheckoutState = "INITIATED"
	StateHoldCreated    CheckoutState = "HOLD_CREATED"
	StatePaymentCreated CheckoutState = "PAYMENT_CREATED"
	StatePaid           CheckoutState = "PAID"
	StateBooked         CheckoutState = "BOOKED"
	StateCanceled       CheckoutState = "CANCELED"
	StateExpired        CheckoutState = "EXPIRED"
	StateFailed         CheckoutState = "FAILED"
)

// AllCheckoutStates lists every state the backend can report.
func AllCheckoutStates() []CheckoutState {
	return []CheckoutState{
		StateInitiated,
		StateHoldCreated,
		StatePaymentCreated,
		StatePaid,
		StateBooked,
		StateCanceled,
		StateExpired,
		StateFailed,
	}
}

// Terminal reports whether the state is absorbing with no forward progress.
func (s CheckoutState) Terminal() bool {
	switch s {
	case StateCanceled, StateExpired, StateFailed:
		return true
	}
	return false
}

// Guests is the party composition for a stay. Infants do not count toward
// the priced guest total.
type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Total returns the number of priced guests.
func (g Guests) Total() int {
	return g.Adults + g.Children
}

// GuestInfo is contact/identity data for the booking guest. It is sent to the
// backend and held in process memory only; it must never be written to any
// persistent store.
type GuestInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Document  string `json:"document,omitempty"`
}

// QuoteSnapshot is the price snapshot attached to a checkout record.
type QuoteSnapshot struct {
	Total     float64        `json:"total"`
	Currency  string         `json:"currency"`
	Breakdown PriceBreakdown `json:"breakdown"`
}

// Checkout is the authoritative checkout record owned by the backend.
type Checkout struct {
	CheckoutID    string         `json:"checkoutId"`
	State         CheckoutState  `json:"state"`
	ListingID     string         `json:"listingId"`
	ListingName   string         `json:"listingName,omitempty"`
	CheckIn       string         `json:"checkIn"`
	CheckOut      string         `json:"checkOut"`
	Guests        Guests         `json:"guests"`
	Quote         *QuoteSnapshot `json:"quote,omitempty"`
	Guest         *GuestInfo     `json:"guest,omitempty"`
	BookingCode   string         `json:"bookingCode,omitempty"`
	HoldExpiresAt *time.Time     `json:"holdExpiresAt,omitempty"`
}

// CreateCheckoutParams is the payload for checkout initialization.
type CreateCheckoutParams struct {
	ListingID  string `json:"listingId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Guests     Guests `json:"guests"`
	CouponCode string `json:"couponCode,omitempty"`
}

// HoldResult is the backend response to hold creation.
type HoldResult struct {
	CheckoutID    string        `json:"checkoutId"`
	State         CheckoutState `json:"state"`
	ReservationID string        `json:"reservationId"`
}

// PaymentIntentResult is the backend response to payment-intent creation.
// ClientSecret is consumed by the external payment widget and is never persisted.
type PaymentIntentResult struct {
	CheckoutID   string        `json:"checkoutId"`
	ClientSecret string        `json:"clientSecret"`
	State        CheckoutState `json:"state"`
}

// FinalizeResult is the backend response to finalization.
type FinalizeResult struct {
	Success     bool     `json:"success"`
	Pending     bool     `json:"pending,omitempty"`
	BookingCode string   `json:"bookingCode,omitempty"`
	Message     string   `json:"message,omitempty"`
	Checkout    Checkout `json:"checkout"`
}

// CancelResult is the backend response to cancellation.
type CancelResult struct {
	CheckoutID string        `json:"checkoutId"`
	State      CheckoutState `json:"state"`
	Canceled   bool          `json:"canceled"`
}
