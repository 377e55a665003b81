package quote

import (
	"sync"
	"time"

	"vivare/gateway"
	"vivare/models"

	"go.uber.org/zap"
)

// Service keys one Engine per device and listing, mirroring the sidebar the
// engine feeds: each open listing page has its own selection stream.
type Service struct {
	api    gateway.CheckoutAPI
	delay  time.Duration
	idle   time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	engines map[string]*entry
}

type entry struct {
	engine     *Engine
	lastActive time.Time
}

func NewService(api gateway.CheckoutAPI, delay time.Duration, logger *zap.Logger) *Service {
	return &Service{
		api:     api,
		delay:   delay,
		idle:    time.Hour,
		logger:  logger,
		engines: make(map[string]*entry),
	}
}

// Select feeds a selection change into the device's engine for a listing.
func (s *Service) Select(deviceID, listingID, checkIn, checkOut string, guests models.Guests) {
	s.engine(deviceID, listingID).OnSelectionChange(checkIn, checkOut, guests)
}

// Current reports the displayed quote for a device/listing pair.
func (s *Service) Current(deviceID, listingID string) (*models.Quote, string, bool) {
	s.mu.Lock()
	ent, ok := s.engines[deviceID+"|"+listingID]
	if ok {
		ent.lastActive = time.Now()
	}
	s.mu.Unlock()
	if !ok {
		return nil, "", false
	}
	return ent.engine.Snapshot()
}

func (s *Service) engine(deviceID, listingID string) *Engine {
	key := deviceID + "|" + listingID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIdleLocked()
	ent, ok := s.engines[key]
	if !ok {
		ent = &entry{engine: NewEngine(s.api, listingID, s.delay, s.logger)}
		s.engines[key] = ent
	}
	ent.lastActive = time.Now()
	return ent.engine
}

func (s *Service) evictIdleLocked() {
	cutoff := time.Now().Add(-s.idle)
	for key, ent := range s.engines {
		if ent.lastActive.Before(cutoff) {
			ent.engine.Close()
			delete(s.engines, key)
		}
	}
}
