// Package backend implements the REST client for the remote collaborators
// that own eligibility decisions, credit balances, plan persistence, and
// payment history. The engine itself never touches a database or payment
// network; everything here is read/submit over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"go.uber.org/zap"
)

var (
	// ErrBackendUnavailable indicates the backend could not be reached or
	// answered with a server error.
	ErrBackendUnavailable = errors.New("installment backend unavailable")

	// ErrBadResponse indicates the backend answered with an unexpected
	// status or an unparseable body.
	ErrBadResponse = errors.New("unexpected backend response")
)

// Client talks to the installment backend. It implements the lifecycle and
// progress collaborator interfaces. Eligibility and credit-balance reads go
// through the optional cache; plan creation never does.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	logger  *zap.Logger
}

// NewClient creates a backend client for the given base URL. The cache may
// be nil to disable read caching.
func NewClient(baseURL string, timeout time.Duration, cache Cache, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  logger,
	}
}

type eligibilityRequest struct {
	UserID      string  `json:"userId"`
	FormationID string  `json:"formationId"`
	TotalAmount float64 `json:"totalAmount"`
}

// CheckEligibility asks the backend whether the user may finance the given
// amount for the given product.
func (c *Client) CheckEligibility(ctx context.Context, userID, formationID string, totalAmount float64) (*plan.Eligibility, error) {
	key := fmt.Sprintf("eligibility:%s:%s", userID, formationID)
	if cached, ok := c.cacheGet(ctx, key); ok {
		var verdict plan.Eligibility
		if err := json.Unmarshal([]byte(cached), &verdict); err == nil {
			return &verdict, nil
		}
	}

	body := eligibilityRequest{UserID: userID, FormationID: formationID, TotalAmount: totalAmount}
	var verdict plan.Eligibility
	if err := c.postJSON(ctx, "/installments/eligibility", body, &verdict); err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, &verdict)
	return &verdict, nil
}

// GetCreditBalance reads the user's available credits.
func (c *Client) GetCreditBalance(ctx context.Context, userID string) (*plan.CreditBalance, error) {
	key := fmt.Sprintf("credits:%s", userID)
	if cached, ok := c.cacheGet(ctx, key); ok {
		var balance plan.CreditBalance
		if err := json.Unmarshal([]byte(cached), &balance); err == nil {
			return &balance, nil
		}
	}

	var balance plan.CreditBalance
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/credits", userID), &balance); err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, &balance)
	return &balance, nil
}

// CreateInstallmentPlan submits the plan candidate for persistence and
// returns the stored plan with its server-assigned id and initial status.
func (c *Client) CreateInstallmentPlan(ctx context.Context, candidate *plan.InstallmentPlan) (*plan.InstallmentPlan, error) {
	var created plan.InstallmentPlan
	if err := c.postJSON(ctx, "/installments", candidate, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListPayments returns the recorded payments for a persisted plan.
func (c *Client) ListPayments(ctx context.Context, planID string) ([]plan.InstallmentPayment, error) {
	var payments []plan.InstallmentPayment
	if err := c.getJSON(ctx, fmt.Sprintf("/installments/%s/payments", planID), &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("op", "backend.do"),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func (c *Client) cacheGet(ctx context.Context, key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	return c.cache.Get(ctx, key)
}

func (c *Client) cacheSet(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(payload)); err != nil {
		c.logger.Debug("cache write failed",
			zap.String("op", "backend.cacheSet"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
