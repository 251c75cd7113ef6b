package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/fundamentals"
	"github.com/mlefloch/stockscout/internal/history"
	"github.com/mlefloch/stockscout/internal/metrics"
	"github.com/mlefloch/stockscout/internal/opinion"
	"github.com/mlefloch/stockscout/internal/screening"
	"github.com/mlefloch/stockscout/internal/scoring"
	"github.com/mlefloch/stockscout/internal/technical"
	"github.com/mlefloch/stockscout/internal/universe"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// Empty-result reason codes.
const (
	ReasonNoTickers    = "no_tickers"
	ReasonNoneScreened = "none_screened"
	ReasonNoneEnriched = "none_enriched"
)

const historyLookback = "1y"

// UniverseSource yields the ticker universe for a run.
type UniverseSource interface {
	Aggregate(ctx context.Context, segments []contracts.Segment) []contracts.TickerID
}

// PriceResolver reconciles a consensus price for one ticker.
type PriceResolver interface {
	Resolve(ctx context.Context, ticker contracts.TickerID) (contracts.ConsensusPrice, error)
}

// EnrichedProfile is one row of a run's final output.
type EnrichedProfile struct {
	contracts.TechnicalProfile
	Opinion   opinion.Opinion           `json:"opinion"`
	Consensus *contracts.ConsensusPrice `json:"consensus,omitempty"`
}

// Result is the outcome of one full pipeline run. When Profiles is empty,
// Reason carries an explicit code instead of letting the emptiness pass as
// success.
type Result struct {
	RunAt        time.Time         `json:"run_at"`
	Duration     time.Duration     `json:"duration"`
	UniverseSize int               `json:"universe_size"`
	Processed    int               `json:"processed"`
	Screened     int               `json:"screened"`
	Profiles     []EnrichedProfile `json:"profiles"`
	Reason       string            `json:"reason,omitempty"`
}

// Event reports pipeline progress to observers (CLI progress output, the
// websocket stream).
type Event struct {
	Stage   string             `json:"stage"`
	Ticker  contracts.TickerID `json:"ticker,omitempty"`
	Current int                `json:"current"`
	Total   int                `json:"total"`
	Message string             `json:"message,omitempty"`
}

// ProgressFunc observes pipeline events. May be nil.
type ProgressFunc func(Event)

// Pipeline runs the full discovery flow: universe aggregation, fundamental
// screening, scoring, technical enrichment. Stages run sequentially and each
// fully materializes its output before the next starts. Per-ticker failures
// are skipped, never fatal.
type Pipeline struct {
	cfg      *config.Config
	source   UniverseSource
	fund     fundamentals.Provider
	screener *screening.Screener
	scorer   *scoring.Scorer
	history  history.Provider
	analyzer *technical.Analyzer
	resolver PriceResolver
	advisor  opinion.Advisor
	fallback *opinion.FallbackAdvisor
	metrics  *metrics.Metrics
	logger   *logger.Logger
	progress ProgressFunc
}

// Options carries the pipeline's collaborators. Resolver, Advisor, Metrics
// and Progress are optional.
type Options struct {
	Config   *config.Config
	Source   UniverseSource
	Fund     fundamentals.Provider
	History  history.Provider
	Analyzer *technical.Analyzer
	Resolver PriceResolver
	Advisor  opinion.Advisor
	Metrics  *metrics.Metrics
	Progress ProgressFunc
	Logger   *logger.Logger
}

// New assembles a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		cfg:      opts.Config,
		source:   opts.Source,
		fund:     opts.Fund,
		screener: screening.NewScreener(opts.Config.Thresholds, opts.Logger),
		scorer:   scoring.NewScorer(opts.Logger),
		history:  opts.History,
		analyzer: opts.Analyzer,
		resolver: opts.Resolver,
		advisor:  opts.Advisor,
		fallback: opinion.NewFallbackAdvisor(),
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Run executes one full scan.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunAt: start.UTC()}

	tickers := p.source.Aggregate(ctx, contracts.AllSegments())
	tickers = universe.Truncate(tickers, p.cfg.Scan.ScanLimit)
	result.UniverseSize = len(tickers)
	p.emit(Event{Stage: "universe", Total: len(tickers)})

	if len(tickers) == 0 {
		result.Reason = ReasonNoTickers
		result.Duration = time.Since(start)
		p.logger.Warn("Universe aggregation produced no tickers")
		return result, nil
	}

	candidates, processed := p.screenUniverse(ctx, tickers)
	result.Processed = processed
	result.Screened = len(candidates)
	p.metrics.SetCandidates(len(candidates))

	if len(candidates) == 0 {
		result.Reason = ReasonNoneScreened
		result.Duration = time.Since(start)
		p.logger.Warn("No candidates survived screening")
		return result, nil
	}

	ranked := p.scorer.Rank(candidates, p.cfg.Scan.TopN)
	p.emit(Event{Stage: "ranked", Total: len(ranked)})

	profiles := p.enrich(ctx, ranked)
	result.Profiles = profiles
	p.metrics.SetProfiles(len(profiles))

	if len(profiles) == 0 {
		result.Reason = ReasonNoneEnriched
		p.logger.Warn("No candidates survived technical enrichment")
	}

	result.Duration = time.Since(start)
	p.metrics.ScanCompleted(result.Duration.Seconds())
	p.logger.WithFields(map[string]interface{}{
		"universe": result.UniverseSize,
		"screened": result.Screened,
		"profiles": len(result.Profiles),
		"duration": result.Duration.String(),
	}).Info("Pipeline run completed")

	return result, nil
}

// screenUniverse walks the universe one ticker at a time, fetching
// fundamentals and applying the screening rules. A ticker whose fundamentals
// carry no price gets one consensus-resolver attempt before being skipped.
func (p *Pipeline) screenUniverse(ctx context.Context, tickers []contracts.TickerID) ([]contracts.ScreenedCandidate, int) {
	infos := make([]fundamentals.CompanyInfo, 0, len(tickers))
	processed := 0

	for i, ticker := range tickers {
		if err := p.pause(ctx); err != nil {
			break
		}
		processed++
		p.metrics.TickerProcessed()
		p.emit(Event{Stage: "screening", Ticker: ticker, Current: i + 1, Total: len(tickers)})

		info, err := p.fund.Fetch(ctx, ticker)
		if err != nil {
			if !errors.Is(err, fundamentals.ErrNoData) {
				p.metrics.ProviderError("fundamentals")
			}
			p.metrics.TickerSkipped("fundamentals")
			p.logger.WithField("ticker", ticker).WithError(err).Debug("Skipping ticker, no fundamentals")
			continue
		}

		if info.Price <= 0 && p.resolver != nil {
			consensus, err := p.resolver.Resolve(ctx, ticker)
			if err != nil {
				p.metrics.TickerSkipped("price")
				p.logger.WithField("ticker", ticker).Debug("Skipping ticker, no usable price")
				continue
			}
			info.Price = consensus.Value
			info.Currency = consensus.Currency
		}
		if info.Price <= 0 {
			p.metrics.TickerSkipped("price")
			continue
		}

		infos = append(infos, info)
	}

	return p.screener.Screen(infos), processed
}

// enrich computes a technical profile, consensus price and opinion for each
// ranked candidate. Candidates without enough history are dropped.
func (p *Pipeline) enrich(ctx context.Context, ranked []contracts.ScoredCandidate) []EnrichedProfile {
	profiles := make([]EnrichedProfile, 0, len(ranked))

	for i, candidate := range ranked {
		if err := p.pause(ctx); err != nil {
			break
		}
		p.emit(Event{Stage: "enrichment", Ticker: candidate.Ticker, Current: i + 1, Total: len(ranked)})

		bars, err := p.history.Fetch(ctx, candidate.Ticker, historyLookback)
		if err != nil {
			if !errors.Is(err, history.ErrNoHistory) {
				p.metrics.ProviderError("history")
			}
			p.metrics.TickerSkipped("history")
			p.logger.WithField("ticker", candidate.Ticker).WithError(err).Debug("Skipping candidate, no history")
			continue
		}

		profile, err := p.analyzer.Analyze(ctx, candidate, bars)
		if err != nil {
			p.metrics.TickerSkipped("technical")
			p.logger.WithField("ticker", candidate.Ticker).WithError(err).Debug("Skipping candidate, analysis failed")
			continue
		}

		enriched := EnrichedProfile{TechnicalProfile: *profile}

		if p.resolver != nil {
			if consensus, err := p.resolver.Resolve(ctx, candidate.Ticker); err == nil {
				enriched.Consensus = &consensus
			}
		}

		enriched.Opinion = p.advise(ctx, profile)
		profiles = append(profiles, enriched)
	}

	return profiles
}

// advise asks the configured advisor, falling back to the built-in text
// generator when it is missing or fails.
func (p *Pipeline) advise(ctx context.Context, profile *contracts.TechnicalProfile) opinion.Opinion {
	if p.advisor != nil {
		if op, err := p.advisor.Advise(ctx, profile); err == nil {
			return op
		}
		p.logger.WithField("ticker", profile.Ticker).Warn("Advisor unavailable, using fallback opinion")
	}
	op, _ := p.fallback.Advise(ctx, profile)
	return op
}

// pause waits the configured inter-call delay, honoring cancellation.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.cfg.Scan.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.cfg.Scan.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) emit(e Event) {
	if p.progress != nil {
		p.progress(e)
	}
}
