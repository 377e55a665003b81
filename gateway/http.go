package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vivare/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTPCheckoutAPI talks JSON to the backend checkout service.
type HTTPCheckoutAPI struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewHTTPCheckoutAPI builds a client against baseURL with the given timeout.
func NewHTTPCheckoutAPI(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPCheckoutAPI {
	return &HTTPCheckoutAPI{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

type backendError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// request performs one backend call and decodes the JSON response into out.
// Extra headers (idempotency keys) are passed through verbatim.
func (g *HTTPCheckoutAPI) request(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("checkout backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var backendErr backendError
		// A body that fails to decode still yields a usable APIError.
		_ = json.NewDecoder(resp.Body).Decode(&backendErr)
		msg := backendErr.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed: %d", resp.StatusCode)
		}
		g.Logger.Warn("checkout backend returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", backendErr.Code),
		)
		return &APIError{Status: resp.StatusCode, Code: backendErr.Code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func (g *HTTPCheckoutAPI) InitializeCheckout(ctx context.Context, params models.CreateCheckoutParams) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := g.request(ctx, http.MethodPost, "/checkout/initialize", params, nil, &checkout); err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (g *HTTPCheckoutAPI) GetCheckout(ctx context.Context, checkoutID string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := g.request(ctx, http.MethodGet, "/checkout/"+checkoutID, nil, nil, &checkout); err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (g *HTTPCheckoutAPI) UpdateGuestInfo(ctx context.Context, checkoutID string, guest models.GuestInfo) (*models.Checkout, error) {
	var checkout models.Checkout
	body := map[string]models.GuestInfo{"guest": guest}
	if err := g.request(ctx, http.MethodPatch, "/checkout/"+checkoutID+"/guest", body, nil, &checkout); err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (g *HTTPCheckoutAPI) CreateHold(ctx context.Context, checkoutID, idempotencyKey string) (*models.HoldResult, error) {
	var result models.HoldResult
	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	if err := g.request(ctx, http.MethodPost, "/checkout/"+checkoutID+"/hold", nil, headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPCheckoutAPI) CreatePaymentIntent(ctx context.Context, checkoutID, idempotencyKey string) (*models.PaymentIntentResult, error) {
	var result models.PaymentIntentResult
	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	if err := g.request(ctx, http.MethodPost, "/checkout/"+checkoutID+"/payment-intent", nil, headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPCheckoutAPI) FinalizeCheckout(ctx context.Context, checkoutID string, maxWait time.Duration) (*models.FinalizeResult, error) {
	var result models.FinalizeResult
	body := map[string]int64{"maxWaitMs": maxWait.Milliseconds()}
	if err := g.request(ctx, http.MethodPost, "/checkout/"+checkoutID+"/finalize", body, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPCheckoutAPI) CancelCheckout(ctx context.Context, checkoutID, reason string) (*models.CancelResult, error) {
	var result models.CancelResult
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	if err := g.request(ctx, http.MethodPost, "/checkout/"+checkoutID+"/cancel", body, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPCheckoutAPI) CalculatePrice(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	var quote models.Quote
	if err := g.request(ctx, http.MethodPost, "/listings/calculate-price", req, nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
