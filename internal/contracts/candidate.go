package contracts

// ScreenedCandidate is a ticker that passed the fundamental screen,
// together with the snapshot it was screened on. Immutable once created.
type ScreenedCandidate struct {
	Ticker   TickerID            `json:"ticker"`
	Name     string              `json:"name"`
	Sector   string              `json:"sector"`
	Price    float64             `json:"price"`
	Currency string              `json:"currency"`
	Fund     FundamentalSnapshot `json:"fundamentals"`
}

// ScoredCandidate is a screened candidate with its composite score.
type ScoredCandidate struct {
	ScreenedCandidate
	Score float64 `json:"score"` // composite score in [0, 100]
}
