// Package server exposes the installment engine over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/engine"
	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/progress"
	"github.com/dhiadhaw0/installment-engine/internal/rates"
	"github.com/dhiadhaw0/installment-engine/pkg/datetime"
	"go.uber.org/zap"
)

type handler struct {
	governor *engine.Governor
	rates    *rates.Table
	tracker  *progress.Tracker
	logger   *zap.Logger
	version  string
}

// NewHandler constructs the HTTP handler that serves the quote API. The
// tracker may be nil when no backend is configured; the progress endpoint
// then answers 503.
func NewHandler(governor *engine.Governor, table *rates.Table, tracker *progress.Tracker, logger *zap.Logger, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{governor: governor, rates: table, tracker: tracker, logger: logger, version: version}

	mux := http.NewServeMux()

	// Quote endpoint: clamps parameters and returns the recomputed
	// amortization result plus the full schedule.
	mux.HandleFunc("/api/quote", h.handleQuote)

	// Progress endpoint: derives repayment progress for a persisted plan
	// from its recorded payments.
	mux.HandleFunc("/api/progress", h.handleProgress)

	// Rate table endpoint for UI metadata
	mux.HandleFunc("/api/rates", h.handleRates)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type quoteRequest struct {
	TotalAmount float64           `json:"totalAmount"`
	DownPayment float64           `json:"downPayment"`
	PeriodCount int               `json:"periodCount"`
	Frequency   string            `json:"frequency"`
	StartDate   string            `json:"startDate,omitempty"`
	Eligibility *plan.Eligibility `json:"eligibility,omitempty"`
}

type quoteResponse struct {
	Parameters   plan.PlanParameters     `json:"parameters"`
	Amortization plan.AmortizationResult `json:"amortization"`
	Schedule     []plan.ScheduleEntry    `json:"schedule"`
	Duration     string                  `json:"duration"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		parsed, err := time.Parse(datetime.DateLayout, req.StartDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	params := plan.PlanParameters{
		TotalAmount: req.TotalAmount,
		DownPayment: req.DownPayment,
		PeriodCount: req.PeriodCount,
		Frequency:   plan.Frequency(req.Frequency),
	}

	began := time.Now()
	result, err := h.governor.Apply(params, req.Eligibility, startDate)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, engine.ErrInvalidAmount) &&
			!errors.Is(err, engine.ErrInvalidPeriodCount) &&
			!errors.Is(err, rates.ErrUnknownFrequency) {
			status = http.StatusInternalServerError
		}
		h.logger.Warn("quote failed",
			zap.String("op", "server.handleQuote"),
			zap.Error(err),
		)
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, quoteResponse{
		Parameters:   result.Parameters,
		Amortization: result.Amortization,
		Schedule:     result.Schedule,
		Duration:     time.Since(began).String(),
	})
}

func (h *handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if h.tracker == nil {
		h.writeError(w, http.StatusServiceUnavailable, "no backend configured")
		return
	}

	var stored plan.InstallmentPlan
	if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if stored.ID == "" {
		h.writeError(w, http.StatusBadRequest, "plan id required")
		return
	}

	result, err := h.tracker.ForPlan(r.Context(), &stored)
	if err != nil {
		h.logger.Warn("progress lookup failed",
			zap.String("op", "server.handleProgress"),
			zap.String("planId", stored.ID),
			zap.Error(err),
		)
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]plan.RateEntry{"rates": h.rates.Entries()})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}
