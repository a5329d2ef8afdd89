package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/metrics"
	"github.com/rustyeddy/propjournal/risk"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Suggest a lot size for the next trade",
	Long: `Size the next position so that a stop-out loses the configured risk
percent of current equity.

Example:
  journal size
  journal size --equity 12500`,
	Args: cobra.NoArgs,
	RunE: withBook(false, runSize),
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print the challenge dashboard",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runMetrics),
}

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Draw the equity curve",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runCurve),
}

var (
	sizeEquity  float64
	metricsDate string
	curveWidth  int
)

func init() {
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(curveCmd)

	sizeCmd.Flags().Float64Var(&sizeEquity, "equity", 0, "equity to size from (default current equity)")
	metricsCmd.Flags().StringVar(&metricsDate, "date", "", "evaluate daily and monthly figures as of this date (default today)")
	curveCmd.Flags().IntVarP(&curveWidth, "width", "w", 50, "bar width in columns")
}

func runSize(cmd *cobra.Command, args []string, a *app) error {
	s := a.book.Settings()
	equity := a.book.CurrentEquity()
	if sizeEquity > 0 {
		equity = sizeEquity
	}

	res := risk.Calculate(risk.Inputs{
		Equity:         equity,
		RiskPct:        s.RiskPercent,
		StopLossPips:   s.StopLossPips,
		TakeProfitPips: s.TakeProfitPips,
	})

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Equity:         %s\n", journal.Money(equity))
	fmt.Fprintf(w, "Risk:           %g%% = %s\n", s.RiskPercent, journal.Money(res.RiskDollars))
	fmt.Fprintf(w, "Stop / Target:  %g / %g pips\n", s.StopLossPips, s.TakeProfitPips)
	fmt.Fprintf(w, "Lot Size:       %s\n", res.SuggestedLotSize)
	fmt.Fprintf(w, "Reward:         %s\n", journal.Money(risk.RewardDollars(res.SuggestedLots, s.TakeProfitPips)))
	return nil
}

func runMetrics(cmd *cobra.Command, args []string, a *app) error {
	now := time.Now()
	if metricsDate != "" {
		t, ok := journal.ParseDate(metricsDate, time.Local)
		if !ok {
			return fmt.Errorf("unrecognised date %q", metricsDate)
		}
		now = t
	}
	metrics.Print(cmd.OutOrStdout(), metrics.Project(a.book.Settings(), a.book.Trades(), now))
	return nil
}

func runCurve(cmd *cobra.Command, args []string, a *app) error {
	pts := metrics.EquityCurve(a.book.Settings(), a.book.Trades())
	return metrics.WriteCurve(cmd.OutOrStdout(), pts, curveWidth)
}
