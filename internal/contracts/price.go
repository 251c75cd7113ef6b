package contracts

import "time"

// Quote is a single price observation from one provider.
type Quote struct {
	Value    float64
	Currency string
	Source   string
}

// ConsensusPrice is the reconciled price for one instrument. Ephemeral:
// computed on demand and never persisted by the pipeline.
type ConsensusPrice struct {
	Value          float64  `json:"value"`
	Currency       string   `json:"currency"`
	Source         string   `json:"source"` // provider name, or "consensus"
	SourcesChecked []string `json:"sources_checked"`
}

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
