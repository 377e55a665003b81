package checkout

import (
	"sync"
	"time"

	"vivare/models"
)

// Manager holds the live flows, keyed per device and listing so multiple
// listings can carry independent in-flight attempts. Idle flows are evicted;
// their persisted session records outlive them, so the next mount resumes
// from storage.
type Manager struct {
	deps Deps
	idle time.Duration

	mu    sync.Mutex
	flows map[string]*Flow
	stop  chan struct{}
	once  sync.Once
}

func NewManager(deps Deps, idle time.Duration) *Manager {
	if idle <= 0 {
		idle = 45 * time.Minute
	}
	m := &Manager{
		deps:  deps,
		idle:  idle,
		flows: make(map[string]*Flow),
		stop:  make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Flow returns the live flow for a device/listing pair. A changed search
// context is a new mount: the old flow is dropped and a fresh one built, so
// its one-time initialization re-derives everything from the backend.
func (m *Manager) Flow(deviceID, listingID string, stay models.StayContext) *Flow {
	key := deviceID + "|" + listingID

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.flows[key]; ok && existing.Stay() == stay {
		return existing
	}
	flow := NewFlow(m.deps, deviceID, listingID, stay)
	m.flows[key] = flow
	return flow
}

// Drop removes a flow outright (after cancel or finalize).
func (m *Manager) Drop(deviceID, listingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, deviceID+"|"+listingID)
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, flow := range m.flows {
		if flow.LastActive().Before(cutoff) {
			delete(m.flows, key)
		}
	}
}

// Close stops the eviction loop.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}
