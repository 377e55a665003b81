package models

// StayContext is the search context a checkout attempt was started from.
type StayContext struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   Guests `json:"guests"`
}

// SessionRecord is the minimal, non-sensitive record persisted per listing so
// an interrupted attempt can be resumed. Timestamp is epoch milliseconds.
// Guest identity/contact fields are deliberately absent.
type SessionRecord struct {
	CheckoutID string `json:"checkoutId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Timestamp  int64  `json:"timestamp"`
}
