package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

const constituentsHTML = `<html><body>
<table class="wikitable">
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td>AAPL</td><td>Apple</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
<tr><td>MSFT[1]</td><td>Microsoft</td></tr>
<tr><td>  </td><td>blank row</td></tr>
</table>
</body></html>`

func TestParseConstituents(t *testing.T) {
	src := remoteSource{URL: "test", Column: "Symbol", DotToDash: true}
	got, err := parseConstituents(constituentsHTML, src)
	if err != nil {
		t.Fatalf("parseConstituents() error = %v", err)
	}

	want := []contracts.TickerID{"AAPL", "BRK-B", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("got %d tickers, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ticker[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseConstituentsKeepsExchangeSuffix(t *testing.T) {
	html := `<table class="wikitable">
<tr><th>Ticker</th></tr>
<tr><td>MC.PA</td></tr>
<tr><td>SAP.DE</td></tr>
</table>`

	got, err := parseConstituents(html, remoteSource{URL: "test", Column: "Ticker"})
	if err != nil {
		t.Fatalf("parseConstituents() error = %v", err)
	}
	if got[0] != "MC.PA" || got[1] != "SAP.DE" {
		t.Errorf("European suffixes must be preserved, got %v", got)
	}
}

func TestParseConstituentsMissingColumn(t *testing.T) {
	html := `<table class="wikitable"><tr><th>Name</th></tr><tr><td>Apple</td></tr></table>`
	if _, err := parseConstituents(html, remoteSource{URL: "test", Column: "Symbol"}); err == nil {
		t.Error("parseConstituents() without the symbol column should fail")
	}
}

func TestFetchSegmentFallsBack(t *testing.T) {
	// Server always fails, so every remote segment must serve its curated list.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestAggregator(t, srv.URL)

	for _, segment := range contracts.AllSegments() {
		tickers := a.FetchSegment(context.Background(), segment)
		if len(tickers) == 0 {
			t.Errorf("segment %s: fallback list must never be empty", segment)
		}
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	// Two segments with one overlapping symbol: AAPL appears in both the
	// large-cap and tech fallback lists.
	a := newTestAggregator(t, "http://127.0.0.1:0")

	universe := a.Aggregate(context.Background(), []contracts.Segment{
		contracts.SegmentLargeCapUS,
		contracts.SegmentTechUS,
	})

	seen := make(map[contracts.TickerID]int)
	for _, ticker := range universe {
		seen[ticker]++
	}
	for ticker, n := range seen {
		if n > 1 {
			t.Errorf("ticker %s appears %d times after dedup", ticker, n)
		}
	}

	wantLen := len(seen)
	if len(universe) != wantLen {
		t.Errorf("universe length = %d, want %d distinct", len(universe), wantLen)
	}
}

func TestAggregateThreeTickersTwoSegmentsOneOverlap(t *testing.T) {
	a := newTestAggregator(t, "http://127.0.0.1:0")

	union := func(lists ...[]contracts.TickerID) int {
		seen := make(map[contracts.TickerID]struct{})
		for _, l := range lists {
			for _, t := range l {
				seen[t] = struct{}{}
			}
		}
		return len(seen)
	}

	segments := []contracts.Segment{contracts.SegmentBlueChipUS, contracts.SegmentCanada}
	want := union(Fallback(contracts.SegmentBlueChipUS), Fallback(contracts.SegmentCanada))

	universe := a.Aggregate(context.Background(), segments)
	if len(universe) != want {
		t.Errorf("aggregated universe = %d tickers, want exactly the deduplicated count %d", len(universe), want)
	}
}

func TestTruncate(t *testing.T) {
	universe := []contracts.TickerID{"A", "B", "C", "D"}

	if got := Truncate(universe, 2); len(got) != 2 {
		t.Errorf("Truncate(4, 2) = %d tickers, want 2", len(got))
	}
	if got := Truncate(universe, 0); len(got) != 4 {
		t.Errorf("Truncate with limit 0 must not cap, got %d", len(got))
	}
	if got := Truncate(universe, 10); len(got) != 4 {
		t.Errorf("Truncate beyond length must return all, got %d", len(got))
	}
}

// newTestAggregator points every remote source at base so tests never hit
// the real pages.
func newTestAggregator(t *testing.T, base string) *Aggregator {
	t.Helper()

	orig := remoteSources
	patched := make(map[contracts.Segment]remoteSource, len(orig))
	for seg, src := range orig {
		src.URL = base
		patched[seg] = src
	}
	remoteSources = patched
	t.Cleanup(func() { remoteSources = orig })

	client := httputil.New(logger.NewNop()).DisableRetry()
	return NewAggregator(client, logger.NewNop())
}
