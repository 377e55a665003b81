package models

import "time"

// FlowStep is the UI step derived from backend state.
type FlowStep int

const (
	StepSummary FlowStep = 1
	StepGuest   FlowStep = 2
	StepPayment FlowStep = 3
)

// RedirectKind names a downstream destination, parameterized by checkoutId.
type RedirectKind string

const (
	RedirectConfirming RedirectKind = "confirming"
	RedirectConfirmed  RedirectKind = "confirmed"
)

// Redirect instructs the UI to leave the checkout flow.
type Redirect struct {
	Kind       RedirectKind `json:"kind"`
	CheckoutID string       `json:"checkoutId"`
}

// FlowState is the UI-facing view of a checkout flow. ClientSecret is present
// only once a payment session exists; Notice carries non-fatal user messages.
type FlowState struct {
	Step          FlowStep   `json:"step"`
	CheckoutID    string     `json:"checkoutId,omitempty"`
	ClientSecret  string     `json:"clientSecret,omitempty"`
	Redirect      *Redirect  `json:"redirect,omitempty"`
	Notice        string     `json:"notice,omitempty"`
	Recovering    bool       `json:"recovering,omitempty"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
}
