package quote

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// fxServer serves a EURUSD chart response whose price and availability can
// be changed between calls.
type fxServer struct {
	eurUSD  atomic.Value // float64
	failing atomic.Bool
	fetches atomic.Int32
}

func newFXServer(t *testing.T, eurUSD float64) (*fxServer, *FXConverter) {
	t.Helper()

	fs := &fxServer{}
	fs.eurUSD.Store(eurUSD)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.fetches.Add(1)
		if fs.failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `{"chart":{"result":[{"meta":{"currency":"USD","regularMarketPrice":%f,"previousClose":%f}}]}}`,
			fs.eurUSD.Load().(float64), fs.eurUSD.Load().(float64))
	}))
	t.Cleanup(srv.Close)

	conv := NewFXConverter(httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop())
	conv.baseURL = srv.URL
	return fs, conv
}

func TestFXRateCachedWithinTTL(t *testing.T) {
	srv, conv := newFXServer(t, 1.25)
	ctx := context.Background()

	if got := conv.Rate(ctx); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("Rate() = %f, want 0.8", got)
	}

	// The upstream pair moves, but the cached rate holds for the TTL.
	srv.eurUSD.Store(1.0)
	if got := conv.Rate(ctx); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Rate() within TTL = %f, want cached 0.8", got)
	}
	if n := srv.fetches.Load(); n != 1 {
		t.Errorf("fetches within TTL = %d, want 1", n)
	}
}

func TestFXRateRefreshesAfterTTL(t *testing.T) {
	srv, conv := newFXServer(t, 1.25)
	ctx := context.Background()

	if got := conv.Rate(ctx); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("Rate() = %f, want 0.8", got)
	}

	srv.eurUSD.Store(1.0)
	conv.fetchedAt = time.Now().Add(-2 * fxRateTTL)

	if got := conv.Rate(ctx); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Rate() after expiry = %f, want refreshed 1.0", got)
	}
	if n := srv.fetches.Load(); n != 2 {
		t.Errorf("fetches after expiry = %d, want 2", n)
	}
}

func TestFXRateFallbackNotPinned(t *testing.T) {
	srv, conv := newFXServer(t, 1.25)
	srv.failing.Store(true)
	ctx := context.Background()

	if got := conv.Rate(ctx); got != fallbackUSDToEUR {
		t.Fatalf("Rate() with source down = %f, want fallback %f", got, fallbackUSDToEUR)
	}

	// Source recovers; the next refresh replaces the fallback.
	srv.failing.Store(false)
	conv.fetchedAt = time.Now().Add(-2 * fxRateTTL)

	if got := conv.Rate(ctx); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Rate() after recovery = %f, want 0.8", got)
	}
}

func TestToEURRoundsToCents(t *testing.T) {
	_, conv := newFXServer(t, 1.25)
	ctx := context.Background()

	if got := conv.ToEUR(ctx, 1.234); math.Abs(got-0.99) > 1e-9 {
		t.Errorf("ToEUR(1.234) = %f, want 0.99", got)
	}
	if got := conv.ToEUR(ctx, 100); math.Abs(got-80.0) > 1e-9 {
		t.Errorf("ToEUR(100) = %f, want 80.00", got)
	}
}
