package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price [ticker]",
	Short: "Resolve a consensus price for one ticker",
	Long: `Queries every configured price source for the ticker and reduces
the answers to a single consensus value. Sources that disagree by more
than the accepted spread fall back to the primary source.

Example:
  go run ./cmd/scout price AAPL
  go run ./cmd/scout price MC.PA`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	ticker := contracts.TickerID(strings.ToUpper(args[0]))

	price, err := rt.resolver.Resolve(cmd.Context(), ticker)
	if err != nil {
		return fmt.Errorf("resolve price: %w", err)
	}

	fmt.Printf("%s: %.2f %s\n", ticker, price.Value, price.Currency)
	fmt.Printf("  source:  %s\n", price.Source)
	fmt.Printf("  checked: %s\n", strings.Join(price.SourcesChecked, ", "))
	return nil
}
