package models

// PriceBreakdown itemizes a quote total.
type PriceBreakdown struct {
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaningFee"`
	ServiceFee  float64 `json:"serviceFee"`
	Taxes       float64 `json:"taxes"`
}

// Quote is an ephemeral price computation for a date/guest selection.
// It is superseded on every selection change and never persisted.
type Quote struct {
	ListingID string         `json:"listingId"`
	CheckIn   string         `json:"checkIn"`
	CheckOut  string         `json:"checkOut"`
	Nights    int            `json:"nights"`
	Guests    int            `json:"guests"`
	Total     float64        `json:"total"`
	Currency  string         `json:"currency"`
	Breakdown PriceBreakdown `json:"breakdown"`
}

// QuoteRequest is the payload for a backend price computation.
type QuoteRequest struct {
	ListingID  string `json:"listingId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Guests     int    `json:"guests"`
	CouponCode string `json:"couponCode,omitempty"`
}
