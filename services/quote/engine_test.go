package quote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivare/models"

	"go.uber.org/zap"
)

// fakePricer implements the backend gateway with a controllable pricing call.
// Only CalculatePrice is reachable from this package.
type fakePricer struct {
	mu       sync.Mutex
	requests []models.QuoteRequest
	fail     error
	// gates, when set, holds a per-call channel the call blocks on before
	// returning, index-aligned with requests.
	gates []chan struct{}
}

func (f *fakePricer) CalculatePrice(_ context.Context, req models.QuoteRequest) (*models.Quote, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var gate chan struct{}
	if len(f.gates) >= len(f.requests) {
		gate = f.gates[len(f.requests)-1]
	}
	fail := f.fail
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail != nil {
		return nil, fail
	}
	return &models.Quote{
		ListingID: req.ListingID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Nights:    5,
		Guests:    req.Guests,
		Total:     1500,
		Currency:  "BRL",
	}, nil
}

func (f *fakePricer) calls() []models.QuoteRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.QuoteRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakePricer) InitializeCheckout(context.Context, models.CreateCheckoutParams) (*models.Checkout, error) {
	panic("not used")
}
func (f *fakePricer) GetCheckout(context.Context, string) (*models.Checkout, error) {
	panic("not used")
}
func (f *fakePricer) UpdateGuestInfo(context.Context, string, models.GuestInfo) (*models.Checkout, error) {
	panic("not used")
}
func (f *fakePricer) CreateHold(context.Context, string, string) (*models.HoldResult, error) {
	panic("not used")
}
func (f *fakePricer) CreatePaymentIntent(context.Context, string, string) (*models.PaymentIntentResult, error) {
	panic("not used")
}
func (f *fakePricer) FinalizeCheckout(context.Context, string, time.Duration) (*models.FinalizeResult, error) {
	panic("not used")
}
func (f *fakePricer) CancelCheckout(context.Context, string, string) (*models.CancelResult, error) {
	panic("not used")
}

// updateRecorder collects listener callbacks and signals each arrival.
type updateRecorder struct {
	mu      sync.Mutex
	updates []Update
	arrived chan struct{}
}

func newUpdateRecorder() *updateRecorder {
	return &updateRecorder{arrived: make(chan struct{}, 16)}
}

func (r *updateRecorder) record(u Update) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
	r.arrived <- struct{}{}
}

func (r *updateRecorder) wait(t *testing.T) Update {
	t.Helper()
	select {
	case <-r.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a quote update")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

func guests(adults int) models.Guests { return models.Guests{Adults: adults} }

func TestEngine_RapidSelectionsCollapseToOneCall(t *testing.T) {
	api := &fakePricer{}
	rec := newUpdateRecorder()
	e := NewEngine(api, "listing-1", 40*time.Millisecond, zap.NewNop())
	e.SetListener(rec.record)
	defer e.Close()

	e.OnSelectionChange("2025-12-10", "2025-12-14", guests(2))
	e.OnSelectionChange("2025-12-10", "2025-12-15", guests(2))

	update := rec.wait(t)
	require.NotNil(t, update.Quote)
	assert.Equal(t, "2025-12-15", update.Quote.CheckOut)

	calls := api.calls()
	require.Len(t, calls, 1, "only the settled selection may reach the backend")
	assert.Equal(t, "2025-12-15", calls[0].CheckOut)
}

func TestEngine_IncompleteSelectionClearsImmediately(t *testing.T) {
	api := &fakePricer{}
	rec := newUpdateRecorder()
	e := NewEngine(api, "listing-1", 40*time.Millisecond, zap.NewNop())
	e.SetListener(rec.record)
	defer e.Close()

	e.OnSelectionChange("2025-12-10", "2025-12-15", guests(2))
	rec.wait(t)

	e.OnSelectionChange("", "", guests(2))
	update := rec.wait(t)
	assert.Nil(t, update.Quote)

	q, notice, pending := e.Snapshot()
	assert.Nil(t, q)
	assert.Empty(t, notice)
	assert.False(t, pending)
	assert.Len(t, api.calls(), 1, "clearing must not issue a pricing call")
}

func TestEngine_SupersededResultIsDiscarded(t *testing.T) {
	api := &fakePricer{}
	firstGate := make(chan struct{})
	api.gates = []chan struct{}{firstGate}

	rec := newUpdateRecorder()
	e := NewEngine(api, "listing-1", 10*time.Millisecond, zap.NewNop())
	e.SetListener(rec.record)
	defer e.Close()

	e.OnSelectionChange("2025-12-10", "2025-12-14", guests(2))

	// Wait until the first call is in flight, held open by its gate.
	require.Eventually(t, func() bool { return len(api.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	e.OnSelectionChange("2025-12-10", "2025-12-15", guests(2))
	update := rec.wait(t)
	require.NotNil(t, update.Quote)
	assert.Equal(t, "2025-12-15", update.Quote.CheckOut)

	// Let the slow first call resolve; its result must not win.
	close(firstGate)
	time.Sleep(50 * time.Millisecond)

	q, _, _ := e.Snapshot()
	require.NotNil(t, q)
	assert.Equal(t, "2025-12-15", q.CheckOut)
}

func TestEngine_FailureClearsQuoteWithNotice(t *testing.T) {
	api := &fakePricer{fail: errors.New("pricing backend down")}
	rec := newUpdateRecorder()
	e := NewEngine(api, "listing-1", 10*time.Millisecond, zap.NewNop())
	e.SetListener(rec.record)
	defer e.Close()

	e.OnSelectionChange("2025-12-10", "2025-12-15", guests(2))
	update := rec.wait(t)
	assert.Nil(t, update.Quote)
	assert.NotEmpty(t, update.Notice)

	// The next selection recovers without manual intervention.
	api.mu.Lock()
	api.fail = nil
	api.mu.Unlock()

	e.OnSelectionChange("2025-12-11", "2025-12-16", guests(2))
	update = rec.wait(t)
	require.NotNil(t, update.Quote)
	assert.Empty(t, update.Notice)
}

func TestService_EnginesAreScopedPerDeviceAndListing(t *testing.T) {
	api := &fakePricer{}
	s := NewService(api, 10*time.Millisecond, zap.NewNop())

	s.Select("dev-1", "listing-1", "2025-12-10", "2025-12-15", guests(2))
	require.Eventually(t, func() bool {
		q, _, pending := s.Current("dev-1", "listing-1")
		return q != nil && !pending
	}, 2*time.Second, 5*time.Millisecond)

	q, _, _ := s.Current("dev-2", "listing-1")
	assert.Nil(t, q)
	q, _, _ = s.Current("dev-1", "listing-2")
	assert.Nil(t, q)
}
