package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlefloch/stockscout/internal/pipeline"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one discovery scan",
	Long: `Runs the full discovery pipeline once:

1. Aggregate the ticker universe from all index segments
2. Screen fundamentals against the growth thresholds
3. Score and rank the survivors
4. Enrich the top candidates with technical analysis

Results are printed to stdout and, when DATABASE_URL is set, persisted.

Example:
  go run ./cmd/scout scan
  go run ./cmd/scout scan --limit 50 --top 5`,
	RunE: runScan,
}

var (
	scanLimit int
	scanTopN  int
	scanSave  bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "cap on tickers processed (0 = config default)")
	scanCmd.Flags().IntVar(&scanTopN, "top", 0, "candidates to enrich (0 = config default)")
	scanCmd.Flags().BoolVar(&scanSave, "save", true, "persist the run when a database is configured")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockScout Discovery Scan ===")

	var progress pipeline.ProgressFunc
	if verbose {
		progress = func(e pipeline.Event) {
			fmt.Printf("  [%s] %d/%d %s %s\n", e.Stage, e.Current, e.Total, e.Ticker, e.Message)
		}
	}

	rt, err := initRuntime(progress)
	if err != nil {
		return err
	}
	defer rt.Close()

	if scanLimit > 0 {
		rt.cfg.Scan.ScanLimit = scanLimit
	}
	if scanTopN > 0 {
		rt.cfg.Scan.TopN = scanTopN
	}

	ctx := cmd.Context()
	result, err := rt.pipe.Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	printResult(result)

	if scanSave && rt.repo != nil {
		if err := rt.repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		id, err := rt.repo.SaveRun(ctx, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("\n✅ Run saved (id=%d)\n", id)
	}

	return nil
}

func printResult(result *pipeline.Result) {
	fmt.Printf("\nUniverse: %d tickers, processed %d, screened %d (took %v)\n",
		result.UniverseSize, result.Processed, result.Screened, result.Duration.Round(timeRound))

	if len(result.Profiles) == 0 {
		fmt.Printf("No candidates produced (reason: %s)\n", result.Reason)
		return
	}

	fmt.Printf("\n%-4s %-10s %-28s %6s %10s %5s %8s %-8s %-7s\n",
		"#", "TICKER", "NAME", "SCORE", "PRICE", "CCY", "RSI", "TREND", "VERDICT")
	for i, p := range result.Profiles {
		fmt.Printf("%-4d %-10s %-28s %6.2f %10.2f %5s %8.1f %-8s %-7s\n",
			i+1, p.Ticker, clip(p.Name, 28), p.Score,
			p.CurrentPrice, p.Currency, p.RSI, p.Trend, p.Opinion.Verdict)
	}
}

// clip truncates by runes so accented company names never split mid-rune.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
