package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vivare/models"
)

// fakeAPI is an in-memory stand-in for the backend checkout state machine,
// with per-step failure injection and idempotency-key bookkeeping.
type fakeAPI struct {
	mu sync.Mutex

	checkouts map[string]*models.Checkout
	secrets   map[string]string // idempotency key -> client secret
	holds     map[string]string // idempotency key -> reservation id

	initCalls  int
	getCalls   int
	guestCalls int
	holdCalls  int
	piCalls    int
	piCreated  int // intents actually materialized (unseen keys)
	callOrder  []string
	holdKeys   []string
	piKeys     []string

	failInit  error
	failGet   error
	failGuest error
	failHold  error
	failPI    error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		checkouts: make(map[string]*models.Checkout),
		secrets:   make(map[string]string),
		holds:     make(map[string]string),
	}
}

func (f *fakeAPI) seed(c *models.Checkout) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts[c.CheckoutID] = c
}

func (f *fakeAPI) seedSecret(key, secret string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[key] = secret
}

func (f *fakeAPI) InitializeCheckout(_ context.Context, params models.CreateCheckoutParams) (*models.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	f.callOrder = append(f.callOrder, "initialize")
	if f.failInit != nil {
		return nil, f.failInit
	}
	id := fmt.Sprintf("co_%d", f.initCalls)
	c := &models.Checkout{
		CheckoutID: id,
		State:      models.StateInitiated,
		ListingID:  params.ListingID,
		CheckIn:    params.CheckIn,
		CheckOut:   params.CheckOut,
		Guests:     params.Guests,
	}
	f.checkouts[id] = c
	return c, nil
}

func (f *fakeAPI) GetCheckout(_ context.Context, checkoutID string) (*models.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	f.callOrder = append(f.callOrder, "get")
	if f.failGet != nil {
		return nil, f.failGet
	}
	c, ok := f.checkouts[checkoutID]
	if !ok {
		return nil, fmt.Errorf("checkout %s not found", checkoutID)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeAPI) UpdateGuestInfo(_ context.Context, checkoutID string, guest models.GuestInfo) (*models.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guestCalls++
	f.callOrder = append(f.callOrder, "guest")
	if f.failGuest != nil {
		return nil, f.failGuest
	}
	c := f.checkouts[checkoutID]
	c.Guest = &guest
	copied := *c
	return &copied, nil
}

func (f *fakeAPI) CreateHold(_ context.Context, checkoutID, idempotencyKey string) (*models.HoldResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdCalls++
	f.callOrder = append(f.callOrder, "hold")
	f.holdKeys = append(f.holdKeys, idempotencyKey)
	if f.failHold != nil {
		return nil, f.failHold
	}
	reservation, ok := f.holds[idempotencyKey]
	if !ok {
		reservation = "res_" + checkoutID
		f.holds[idempotencyKey] = reservation
	}
	c := f.checkouts[checkoutID]
	c.State = models.StateHoldCreated
	return &models.HoldResult{CheckoutID: checkoutID, State: c.State, ReservationID: reservation}, nil
}

func (f *fakeAPI) CreatePaymentIntent(_ context.Context, checkoutID, idempotencyKey string) (*models.PaymentIntentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.piCalls++
	f.callOrder = append(f.callOrder, "paymentIntent")
	f.piKeys = append(f.piKeys, idempotencyKey)
	if f.failPI != nil {
		return nil, f.failPI
	}
	secret, ok := f.secrets[idempotencyKey]
	if !ok {
		f.piCreated++
		secret = "secret_" + checkoutID
		f.secrets[idempotencyKey] = secret
	}
	c := f.checkouts[checkoutID]
	c.State = models.StatePaymentCreated
	return &models.PaymentIntentResult{CheckoutID: checkoutID, ClientSecret: secret, State: c.State}, nil
}

func (f *fakeAPI) FinalizeCheckout(_ context.Context, checkoutID string, _ time.Duration) (*models.FinalizeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callOrder = append(f.callOrder, "finalize")
	c := f.checkouts[checkoutID]
	c.State = models.StateBooked
	return &models.FinalizeResult{Success: true, BookingCode: "VIV-1234", Checkout: *c}, nil
}

func (f *fakeAPI) CancelCheckout(_ context.Context, checkoutID, _ string) (*models.CancelResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callOrder = append(f.callOrder, "cancel")
	if c, ok := f.checkouts[checkoutID]; ok {
		c.State = models.StateCanceled
	}
	return &models.CancelResult{CheckoutID: checkoutID, State: models.StateCanceled, Canceled: true}, nil
}

func (f *fakeAPI) CalculatePrice(_ context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return &models.Quote{ListingID: req.ListingID, Nights: 5, Guests: req.Guests, Total: 1500, Currency: "BRL"}, nil
}
