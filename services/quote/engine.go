package quote

import (
	"context"
	"sync"
	"time"

	"vivare/gateway"
	"vivare/models"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period a selection must settle for before a
// pricing call is issued.
const DefaultDebounce = 500 * time.Millisecond

const computeTimeout = 10 * time.Second

// Update is pushed to the listener whenever the displayed quote changes.
type Update struct {
	Quote  *models.Quote
	Notice string
}

// Engine recomputes the price quote for one listing as the date/guest
// selection changes. Selection changes restart a single cancelable timer, so
// only the final settled selection within a quiet period reaches the backend.
// A generation token is compared at resolution time so a result whose input
// has been superseded never overwrites a newer one.
type Engine struct {
	api       gateway.CheckoutAPI
	listingID string
	delay     time.Duration
	logger    *zap.Logger
	listener  func(Update)

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	quote      *models.Quote
	notice     string
	pending    bool
}

func NewEngine(api gateway.CheckoutAPI, listingID string, delay time.Duration, logger *zap.Logger) *Engine {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Engine{api: api, listingID: listingID, delay: delay, logger: logger}
}

// SetListener registers a callback invoked after each quote change.
func (e *Engine) SetListener(fn func(Update)) {
	e.mu.Lock()
	e.listener = fn
	e.mu.Unlock()
}

// OnSelectionChange schedules a price computation for the new selection. A
// pending timer from a prior selection is canceled outright. An incomplete
// selection clears the quote immediately; there is nothing to price.
func (e *Engine) OnSelectionChange(checkIn, checkOut string, guests models.Guests) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if checkIn == "" || checkOut == "" {
		e.quote = nil
		e.notice = ""
		e.pending = false
		fn := e.listener
		e.mu.Unlock()
		if fn != nil {
			fn(Update{})
		}
		return
	}

	req := models.QuoteRequest{
		ListingID: e.listingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    guests.Total(),
	}
	e.pending = true
	e.timer = time.AfterFunc(e.delay, func() {
		e.compute(gen, req)
	})
	e.mu.Unlock()
}

func (e *Engine) compute(gen uint64, req models.QuoteRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
	defer cancel()

	result, err := e.api.CalculatePrice(ctx, req)

	e.mu.Lock()
	if gen != e.generation {
		// A newer selection was scheduled while this call was in flight.
		e.mu.Unlock()
		return
	}
	e.pending = false
	if err != nil {
		e.logger.Warn("price computation failed",
			zap.String("listingId", e.listingID),
			zap.String("checkIn", req.CheckIn),
			zap.String("checkOut", req.CheckOut),
			zap.Error(err),
		)
		e.quote = nil
		e.notice = "We could not calculate the price. Please try other dates."
	} else {
		e.quote = result
		e.notice = ""
	}
	update := Update{Quote: e.quote, Notice: e.notice}
	fn := e.listener
	e.mu.Unlock()

	if fn != nil {
		fn(update)
	}
}

// Snapshot returns the currently displayed quote, any transient notice, and
// whether a computation is pending.
func (e *Engine) Snapshot() (*models.Quote, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote, e.notice, e.pending
}

// Close cancels any pending timer and invalidates in-flight computations.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
