package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/candletrader/candle"
	"github.com/rustyeddy/candletrader/exchange"
	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/pkg/id"
	"github.com/rustyeddy/candletrader/script"
	"github.com/rustyeddy/candletrader/store"
	"github.com/rustyeddy/candletrader/strategy"
	"github.com/rustyeddy/candletrader/tradectx"
)

var (
	sbtFile    string
	sbtSymbol  string
	sbtMinutes int32
	sbtStart   string
	sbtEnd     string
	sbtStore   string
	sbtFiat    float64
	sbtPrice   float64
)

var scriptBackTestCmd = &cobra.Command{
	Use:   "script-back-test",
	Short: "Run a strategy script bar by bar over historical data",
	RunE:  runScriptBackTest,
}

func init() {
	rootCmd.AddCommand(scriptBackTestCmd)

	scriptBackTestCmd.Flags().StringVar(&sbtFile, "file", "", "path to the strategy script (required)")
	scriptBackTestCmd.Flags().StringVar(&sbtSymbol, "symbol", "", "trading symbol (required)")
	scriptBackTestCmd.Flags().Int32Var(&sbtMinutes, "minutes", 15, "bar period in minutes")
	scriptBackTestCmd.Flags().StringVar(&sbtStart, "start", "", "range start, "+timeLayout+" (required)")
	scriptBackTestCmd.Flags().StringVar(&sbtEnd, "end", "", "range end, "+timeLayout+" (required)")
	scriptBackTestCmd.Flags().StringVar(&sbtStore, "store", "./candletrader.db", "path to the SQLite store")
	scriptBackTestCmd.Flags().Float64Var(&sbtFiat, "fiat", 1000, "starting fiat balance")
	scriptBackTestCmd.Flags().Float64Var(&sbtPrice, "price", 0, "starting mark price (defaults to the first bar's close)")

	scriptBackTestCmd.MarkFlagRequired("file")
	scriptBackTestCmd.MarkFlagRequired("symbol")
	scriptBackTestCmd.MarkFlagRequired("start")
	scriptBackTestCmd.MarkFlagRequired("end")
}

func runScriptBackTest(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(timeLayout, sbtStart)
	if err != nil {
		return fmt.Errorf("parse --start: %w", err)
	}
	end, err := time.Parse(timeLayout, sbtEnd)
	if err != nil {
		return fmt.Errorf("parse --end: %w", err)
	}

	s, err := store.Open(sbtStore)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	prov := candle.NewProvisioner(s, exchange.NewBinance())
	sel := market.Selection{Symbol: sbtSymbol, Minutes: sbtMinutes, StartTime: start, EndTime: end}

	ctx := context.Background()
	bars, err := prov.Provide(ctx, sel)
	if err != nil {
		return fmt.Errorf("provide bars: %w", err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars in [%s, %s] for %s/%d", start, end, sbtSymbol, sbtMinutes)
	}

	markPrice := sbtPrice
	if markPrice == 0 {
		markPrice = bars[0].Close
	}

	runID := id.New()
	if err := s.InsertRun(ctx, store.RunRecord{
		RunID:                runID,
		Symbol:               sbtSymbol,
		Minutes:              sbtMinutes,
		ScriptPath:           sbtFile,
		StartedAt:            time.Now().UTC(),
		StartRealBalanceFiat: sqlNullFloat(sbtFiat),
	}); err != nil {
		return fmt.Errorf("record run start: %w", err)
	}

	adapter, err := script.NewAdapter(sbtFile)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	defer adapter.Close()

	tc := tradectx.New(sbtSymbol, prov)
	pos := ledger.NewPosition(runID, sbtSymbol, sbtFiat, markPrice)
	register := ledger.NewRegister(pos, s)
	trader := strategy.NewTrader(tc, register, adapter)

	for _, bar := range bars {
		if err := trader.Check(ctx, bar.OpenTime, bar.Close); err != nil {
			return fmt.Errorf("bar %s: %w", bar.OpenTime, err)
		}
	}

	final := register.Position()
	if err := s.FinishRun(ctx, runID, time.Now().UTC(), final.RealBalanceFiat, len(trader.TradeLog())); err != nil {
		return fmt.Errorf("record run end: %w", err)
	}

	fmt.Printf("run %s: %d bars, %d trades\n", runID, len(bars), len(trader.TradeLog()))
	fmt.Printf("  starting fiat:    %.2f\n", sbtFiat)
	fmt.Printf("  ending balance:   asset=%.8f fiat=%.2f real=%.2f\n", final.BalanceAsset, final.BalanceFiat, final.RealBalanceFiat)
	return nil
}
