package session

import (
	"context"
	"sync"
	"time"

	"vivare/models"
)

// MemoryStore is the single-process store, used when the engine is embedded
// directly in a UI process or when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]models.SessionRecord
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		records: make(map[string]models.SessionRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, deviceID, listingID string, rec models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionKey(deviceID, listingID)] = rec
	return nil
}

func (s *MemoryStore) Load(_ context.Context, deviceID, listingID string, stay models.StayContext) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(deviceID, listingID)
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	if !usable(rec, stay, s.now(), s.ttl) {
		delete(s.records, key)
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Clear(_ context.Context, deviceID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionKey(deviceID, listingID))
	return nil
}
