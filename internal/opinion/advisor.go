package opinion

import (
	"context"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// Verdict is the summary recommendation attached to an opinion.
type Verdict string

const (
	VerdictBuy     Verdict = "buy"
	VerdictWatch   Verdict = "watch"
	VerdictNeutral Verdict = "neutral"
)

// Opinion is the free-text analysis for one enriched candidate.
type Opinion struct {
	Verdict Verdict `json:"verdict"`
	Text    string  `json:"text"`
}

// Advisor turns a technical profile into a narrative opinion. External
// implementations (LLM-backed) may fail; callers fall back to the built-in
// generator in that case.
type Advisor interface {
	Advise(ctx context.Context, profile *contracts.TechnicalProfile) (Opinion, error)
}
