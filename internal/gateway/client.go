package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"motorent-backend/internal/domain"
)

type httpGateway struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	client     *http.Client
}

// NewHTTPGateway returns a Gateway backed by the provider's checkout-session
// HTTP API. statusTimeout bounds every status call; callers treat a timeout
// as transient, not as FAILED.
func NewHTTPGateway(baseURL, apiKey, appBaseURL string, statusTimeout time.Duration) Gateway {
	return &httpGateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		successURL: appBaseURL + "/api/payments/success?attempt_id={ATTEMPT_ID}",
		cancelURL:  appBaseURL + "/api/payments/cancel",
		client:     &http.Client{Timeout: statusTimeout},
	}
}

func (g *httpGateway) CreateAttempt(ctx context.Context, req CreateAttemptRequest) (*Attempt, error) {
	body := map[string]any{
		"amount":      req.AmountCents,
		"currency":    req.Currency,
		"description": req.Description,
		"metadata":    req.Metadata,
		"success_url": g.successURL,
		"cancel_url":  g.cancelURL,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout/sessions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: create attempt: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: create attempt failed: %s", domain.ErrGateway, resp.Status)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode create response: %v", domain.ErrGateway, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: empty attempt id", domain.ErrGateway)
	}

	return &Attempt{ID: out.ID, RedirectURL: out.URL}, nil
}

func (g *httpGateway) GetStatus(ctx context.Context, attemptID string) (ExternalStatus, error) {
	if attemptID == "" {
		return "", errors.New("attempt id is empty")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/checkout/sessions/"+attemptID, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: get status: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: get status failed: %s", domain.ErrGateway, resp.Status)
	}

	var out struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode status response: %v", domain.ErrGateway, err)
	}

	return mapSessionStatus(out.Status, out.PaymentStatus), nil
}

// mapSessionStatus folds the provider's session state into the three-valued
// status the reconciler understands.
func mapSessionStatus(status, paymentStatus string) ExternalStatus {
	switch {
	case status == "complete" && paymentStatus == "paid":
		return StatusPaid
	case status == "open":
		return StatusPending
	default:
		return StatusFailed
	}
}
