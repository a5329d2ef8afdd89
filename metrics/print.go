package metrics

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func money(x float64) string { return decimal.NewFromFloat(finite(x)).StringFixed(2) }

func pct(x float64) string { return decimal.NewFromFloat(finite(x)).StringFixed(2) + "%" }

// Print writes the dashboard in a fixed-width report.
func Print(w io.Writer, s Snapshot) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Challenge Dashboard")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Phase:          %s (%s)\n", s.Phase, pct(s.PhaseProgress))
	fmt.Fprintf(w, "Equity:         %s\n", money(s.CurrentEquity))
	fmt.Fprintf(w, "Phase Target:   %s\n", money(s.PhaseTarget))
	if s.Phase1Target > 0 {
		fmt.Fprintf(w, "Phase 1:        %s (%s)\n", money(s.Phase1Target), pct(s.Phase1Progress))
	}
	if s.Phase2Target > 0 {
		fmt.Fprintf(w, "Phase 2:        %s (%s)\n", money(s.Phase2Target), pct(s.Phase2Progress))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:         %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins:           %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:         %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:       %s\n", pct(s.WinRate))
	fmt.Fprintf(w, "Expectancy:     %s\n", money(s.Expectancy))
	fmt.Fprintf(w, "Grade:          %s\n", s.StrategyGrade)
	fmt.Fprintf(w, "Suggested Lots: %s\n", s.SuggestedLotSize)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Daily Drawdown: %s\n", pct(s.DailyDrawdown))
	if s.DrawdownWarning {
		fmt.Fprintln(w, "WARNING: daily drawdown limit reached")
	}

	if s.MonthlyTargetAmount > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Monthly Target")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Target:         %s\n", money(s.MonthlyTargetAmount))
		fmt.Fprintf(w, "Month Start:    %s\n", money(s.MonthlyStartingBalance))
		fmt.Fprintf(w, "Progress:       %s\n", pct(s.MonthlyTargetProgress))
	}

	fmt.Fprintln(w)
}
