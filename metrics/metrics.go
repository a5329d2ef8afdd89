// Package metrics projects dashboard figures from the settings and the
// ledger. Nothing here is stored; every value is re-derived on read.
package metrics

import (
	"math"
	"time"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/risk"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// Snapshot is the projected dashboard. Money is in account currency and
// percentages are clamped to [0, 100]; rounding happens only at display.
type Snapshot struct {
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64

	CurrentEquity    float64
	Expectancy       float64
	StrategyGrade    Grade
	SuggestedLotSize string

	Phase          challenge.Phase
	PhaseProgress  float64
	PhaseTarget    float64
	Phase1Target   float64
	Phase2Target   float64
	Phase1Progress float64
	Phase2Progress float64

	DailyDrawdown   float64
	DrawdownWarning bool

	MonthlyTargetProgress  float64
	MonthlyTargetAmount    float64
	MonthlyStartingBalance float64
}

// Zero is the safe snapshot returned when a projection fails.
func Zero(s challenge.Settings) Snapshot {
	return Snapshot{
		CurrentEquity:    finite(s.AccountBalance),
		StrategyGrade:    GradeC,
		SuggestedLotSize: "0.00",
		Phase:            challenge.Phase1,
	}
}

// Project derives the snapshot for the ledger as of now. Dates are
// compared in now's location.
func Project(s challenge.Settings, trades []journal.Trade, now time.Time) (snap Snapshot) {
	defer func() {
		if p := recover(); p != nil {
			snap = Zero(s)
		}
	}()

	snap.TotalTrades = len(trades)
	for _, t := range trades {
		switch t.Outcome {
		case journal.Win:
			snap.Wins++
		case journal.Loss:
			snap.Losses++
		}
	}
	if snap.TotalTrades > 0 {
		snap.WinRate = challenge.Clamp(100 * float64(snap.Wins) / float64(snap.TotalTrades))
	}

	equity := journal.LastEquity(s, trades)
	snap.CurrentEquity = equity

	snap.Expectancy = Expectancy(snap.WinRate, finite(s.TakeProfitPips), finite(s.StopLossPips))
	snap.StrategyGrade = GradeFor(snap.Expectancy)

	snap.SuggestedLotSize = risk.Calculate(risk.Inputs{
		Equity:       equity,
		RiskPct:      s.RiskPercent,
		StopLossPips: s.StopLossPips,
	}).SuggestedLotSize

	st := challenge.Resolve(s, equity)
	if n := len(trades); n > 0 && trades[n-1].IsMasterPhase && st.Phase != challenge.Master {
		// the funded account restarts from the master balance, which is
		// usually below the challenge target
		st.Phase = challenge.Master
		st.Progress = 100
	}
	snap.Phase = st.Phase
	snap.PhaseProgress = challenge.Clamp(st.Progress)
	snap.PhaseTarget = st.Target
	snap.Phase1Target = st.Phase1Target
	snap.Phase2Target = st.Phase2Target
	snap.Phase1Progress = challenge.Clamp(st.Phase1Progress)
	snap.Phase2Progress = challenge.Clamp(st.Phase2Progress)

	snap.DailyDrawdown = DailyDrawdown(trades, equity, now)
	snap.DrawdownWarning = snap.DailyDrawdown >= finite(s.DailyDrawdownLimit)

	if snap.Phase == challenge.Master || s.Type() == challenge.ZeroStep {
		snap.MonthlyTargetAmount = math.Max(0, finite(s.MonthlyTarget))
		if snap.MonthlyTargetAmount > 0 {
			snap.MonthlyStartingBalance = MonthlyBaseline(s, trades, now)
			snap.MonthlyTargetProgress = challenge.Clamp(100 * (equity - snap.MonthlyStartingBalance) / snap.MonthlyTargetAmount)
		}
	}
	return snap
}

// Expectancy is the expected pips per trade. Trades carry no per-trade
// pip counts, so winning and losing trades are valued at the configured
// take-profit and stop-loss distances.
func Expectancy(winRate, avgWinPips, avgLossPips float64) float64 {
	p := challenge.Clamp(winRate) / 100
	return p*avgWinPips - (1-p)*avgLossPips
}

// GradeFor grades a strategy by its expectancy.
func GradeFor(expectancy float64) Grade {
	switch {
	case expectancy > 1:
		return GradeA
	case expectancy >= 0:
		return GradeB
	}
	return GradeC
}

// DailyDrawdown is the percentage drop from the equity before today's
// first trade to the lowest point reached during today's trades.
func DailyDrawdown(trades []journal.Trade, current float64, now time.Time) float64 {
	baseline := current
	var today []journal.Trade
	for _, t := range trades {
		if journal.SameDay(t.Date, now) {
			today = append(today, t)
			continue
		}
		if e := t.EquityAfter; len(today) == 0 && !math.IsNaN(e) && !math.IsInf(e, 0) {
			baseline = e
		}
	}
	if len(today) == 0 {
		return 0
	}
	if !(baseline > 0) || math.IsInf(baseline, 0) {
		return 0
	}

	equity, low := baseline, baseline
	for _, t := range today {
		if t.Outcome == journal.Win {
			equity += finite(t.RewardDollars)
		} else {
			equity -= finite(t.RiskDollars)
		}
		low = math.Min(low, equity)
	}
	return challenge.Clamp(100 * (baseline - low) / baseline)
}

// MonthlyBaseline is the equity just before the first funded trade dated
// in now's month, or the master account balance when there is none.
func MonthlyBaseline(s challenge.Settings, trades []journal.Trade, now time.Time) float64 {
	zeroStep := s.Type() == challenge.ZeroStep
	for i, t := range trades {
		if !(t.IsMasterPhase || zeroStep) || !journal.SameMonth(t.Date, now) {
			continue
		}
		if i > 0 {
			if e := trades[i-1].EquityAfter; e != 0 && !math.IsNaN(e) && !math.IsInf(e, 0) {
				return e
			}
		}
		break
	}
	return s.MasterBalance()
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
