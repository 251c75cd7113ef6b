package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlefloch/stockscout/internal/api/handlers"
	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/pipeline"
	"github.com/mlefloch/stockscout/pkg/logger"
)

type stubRunner struct{ result *pipeline.Result }

func (s stubRunner) Run(ctx context.Context) (*pipeline.Result, error) {
	return s.result, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, ticker contracts.TickerID) (contracts.ConsensusPrice, error) {
	return contracts.ConsensusPrice{Value: 101.5, Currency: "USD", Source: "yahoo", SourcesChecked: []string{"yahoo"}}, nil
}

func newTestRouter() http.Handler {
	h := handlers.NewScanHandler(stubRunner{&pipeline.Result{}}, nil, stubResolver{}, logger.NewNop())
	return NewRouter(h, nil, false, logger.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestPriceEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/price/AAPL", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/price/AAPL = %d, want 200", rec.Code)
	}
	var price contracts.ConsensusPrice
	if err := json.Unmarshal(rec.Body.Bytes(), &price); err != nil {
		t.Fatalf("price response is not JSON: %v", err)
	}
	if price.Value != 101.5 || price.Source != "yahoo" {
		t.Errorf("price = %+v", price)
	}
}

func TestTriggerScanAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scan", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /api/scan = %d, want 202", rec.Code)
	}
}

func TestLatestWithoutPersistence(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/scan/latest", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /api/scan/latest without a repo = %d, want 503", rec.Code)
	}
}

func TestMetricsRouteToggle(t *testing.T) {
	h := handlers.NewScanHandler(stubRunner{&pipeline.Result{}}, nil, stubResolver{}, logger.NewNop())

	rec := httptest.NewRecorder()
	NewRouter(h, nil, true, logger.NewNop()).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics with metrics enabled = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewRouter(h, nil, false, logger.NewNop()).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics with metrics disabled = %d, want 404", rec.Code)
	}
}
