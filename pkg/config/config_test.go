package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Thresholds.MinRevenueGrowth != 0.12 {
		t.Errorf("MinRevenueGrowth = %v, want 0.12", cfg.Thresholds.MinRevenueGrowth)
	}
	if cfg.Thresholds.MinPE != 10 || cfg.Thresholds.MaxPE != 30 {
		t.Errorf("PE band = (%v, %v), want (10, 30)", cfg.Thresholds.MinPE, cfg.Thresholds.MaxPE)
	}
	if cfg.Thresholds.MinMarketCap != 2_000_000_000 {
		t.Errorf("MinMarketCap = %v, want 2e9", cfg.Thresholds.MinMarketCap)
	}
	if cfg.Scan.TopN != 20 {
		t.Errorf("TopN = %d, want 20", cfg.Scan.TopN)
	}
	if cfg.Scan.ScanLimit != 2000 {
		t.Errorf("ScanLimit = %d, want 2000", cfg.Scan.ScanLimit)
	}
	if cfg.Scan.Delay != 100*time.Millisecond {
		t.Errorf("Delay = %v, want 100ms", cfg.Scan.Delay)
	}
}

func TestThresholdsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*Thresholds)
		wantErr bool
	}{
		{"defaults pass", func(t *Thresholds) {}, false},
		{"inverted PE band", func(t *Thresholds) { t.MinPE = 40 }, true},
		{"inverted PEG band", func(t *Thresholds) { t.MinPEG = 3.0 }, true},
		{"negative revenue growth min", func(t *Thresholds) { t.MinRevenueGrowth = -0.1 }, true},
		{"negative market cap floor", func(t *Thresholds) { t.MinMarketCap = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := Thresholds{
				MinRevenueGrowth:  0.12,
				MinEarningsGrowth: 0.10,
				MinROE:            0.15,
				MinProfitMargin:   0.08,
				MinPE:             10,
				MaxPE:             30,
				MinPEG:            0.3,
				MaxPEG:            2.0,
				MinMarketCap:      2_000_000_000,
			}
			tt.mod(&th)
			if err := th.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TOP_N", "5")
	t.Setenv("MIN_ROE", "0.20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scan.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.Scan.TopN)
	}
	if cfg.Thresholds.MinROE != 0.20 {
		t.Errorf("MinROE = %v, want 0.20", cfg.Thresholds.MinROE)
	}
}

func TestInvalidBoundsFailFast(t *testing.T) {
	t.Setenv("MIN_PE_RATIO", "50")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with inverted PE band should fail")
	}
}
