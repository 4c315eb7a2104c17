package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "A candlestick trading simulator and research platform",
	Long: `trader drives bar-aligned candlestick data through a scripted
strategy and a position ledger.

It provides tools for:
  - Keeping a local candle store in sync with an exchange
  - Diagnosing and filling gaps in historical candle data
  - Running a Lua strategy script bar by bar against historical data
  - Managing the ledger of past script-back-test runs

Complete documentation is available at https://github.com/rustyeddy/candletrader`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
