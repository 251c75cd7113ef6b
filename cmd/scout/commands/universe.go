package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/universe"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe [segment]",
	Short: "List the tickers of one segment, or the whole universe",
	Long: `Fetches index constituents and prints the resulting ticker list.
Without an argument the full deduplicated universe is printed.

Segments:
  large-cap-us   S&P 500
  tech-us        NASDAQ 100
  blue-chip-us   Dow Jones
  europe         Euro Stoxx 600
  emerging       BRICS and others
  asia-pacific   Japan, Australia, HK, SG
  canada         TSX 60

Example:
  go run ./cmd/scout universe
  go run ./cmd/scout universe europe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	agg := universe.NewAggregator(httputil.New(log).WithPacing(cfg.Scan.Delay), log)
	ctx := cmd.Context()

	var tickers []contracts.TickerID
	if len(args) == 1 {
		segment, err := parseSegment(args[0])
		if err != nil {
			return err
		}
		tickers = agg.FetchSegment(ctx, segment)
		fmt.Printf("Segment %s: %d tickers\n", segment, len(tickers))
	} else {
		tickers = agg.Aggregate(ctx, contracts.AllSegments())
		fmt.Printf("Universe: %d tickers across %d segments\n", len(tickers), len(contracts.AllSegments()))
	}

	printSeparator()
	for _, t := range tickers {
		fmt.Println(t)
	}
	return nil
}

func parseSegment(name string) (contracts.Segment, error) {
	for _, s := range contracts.AllSegments() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown segment %q", name)
}
