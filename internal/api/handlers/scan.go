package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/pipeline"
	"github.com/mlefloch/stockscout/internal/report"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// Runner executes one full discovery scan.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// PriceResolver resolves a consensus price on demand.
type PriceResolver interface {
	Resolve(ctx context.Context, ticker contracts.TickerID) (contracts.ConsensusPrice, error)
}

// ScanHandler serves scan results, history and on-demand scans.
type ScanHandler struct {
	runner   Runner
	repo     *report.Repository
	resolver PriceResolver
	logger   *logger.Logger

	running atomic.Bool
}

// NewScanHandler creates the scan handler. repo and resolver may be nil when
// persistence or quoting is disabled.
func NewScanHandler(runner Runner, repo *report.Repository, resolver PriceResolver, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		runner:   runner,
		repo:     repo,
		resolver: resolver,
		logger:   log,
	}
}

// GetLatest returns the most recent persisted scan result.
// GET /api/scan/latest
func (h *ScanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Persistence is disabled")
		return
	}

	result, err := h.repo.LatestRun(r.Context())
	if errors.Is(err, report.ErrNoRuns) {
		respondError(w, http.StatusNotFound, "No scan has completed yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest scan")
		respondError(w, http.StatusInternalServerError, "Failed to load latest scan")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetHistory returns recent run summaries.
// GET /api/scan/history?limit=20
func (h *ScanHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Persistence is disabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.repo.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scan runs")
		respondError(w, http.StatusInternalServerError, "Failed to list scan runs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// TriggerScan starts a scan in the background. A second trigger while one is
// in flight returns 409.
// POST /api/scan
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "A scan is already running")
		return
	}

	go func() {
		defer h.running.Store(false)

		result, err := h.runner.Run(context.Background())
		if err != nil {
			h.logger.WithError(err).Error("Background scan failed")
			return
		}
		if h.repo != nil {
			if _, err := h.repo.SaveRun(context.Background(), result); err != nil {
				h.logger.WithError(err).Error("Failed to persist scan result")
			}
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "scan started"})
}

// GetPrice resolves a consensus price for one ticker.
// GET /api/price/{ticker}
func (h *ScanHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		respondError(w, http.StatusServiceUnavailable, "Price resolution is disabled")
		return
	}

	ticker := contracts.TickerID(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	price, err := h.resolver.Resolve(r.Context(), ticker)
	if err != nil {
		respondError(w, http.StatusNotFound, "No quote available for "+string(ticker))
		return
	}
	respondJSON(w, http.StatusOK, price)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
