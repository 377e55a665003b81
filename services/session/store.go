package session

import (
	"context"
	"time"

	"vivare/models"
)

// DefaultTTL is how long a persisted session record stays resumable.
const DefaultTTL = 30 * time.Minute

// Store persists the minimal per-listing session record. Load validates the
// record against the caller's current search context and the TTL; anything
// stale, mismatched, or malformed is treated as absence and cleared, never
// surfaced as an error.
type Store interface {
	Save(ctx context.Context, deviceID, listingID string, rec models.SessionRecord) error
	Load(ctx context.Context, deviceID, listingID string, stay models.StayContext) (*models.SessionRecord, error)
	Clear(ctx context.Context, deviceID, listingID string) error
}

// usable reports whether a stored record may resume the given stay context.
func usable(rec models.SessionRecord, stay models.StayContext, now time.Time, ttl time.Duration) bool {
	if rec.CheckoutID == "" {
		return false
	}
	if rec.CheckIn != stay.CheckIn || rec.CheckOut != stay.CheckOut {
		return false
	}
	age := now.UnixMilli() - rec.Timestamp
	return age >= 0 && age < ttl.Milliseconds()
}

func sessionKey(deviceID, listingID string) string {
	return "checkout:session:" + deviceID + ":" + listingID
}
