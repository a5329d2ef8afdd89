package journal

import (
	"fmt"
	"math"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/risk"
)

// Fallback records a point where the engine substituted a safe value for
// a non-finite intermediate result.
type Fallback struct {
	Index  int
	Reason string
}

func (f Fallback) String() string {
	return fmt.Sprintf("trade %d: %s", f.Index+1, f.Reason)
}

// Recalc is the result of one recalculation pass.
//
// When Err is set the pass was abandoned and Trades is the input ledger,
// untouched. Otherwise Trades is a new slice with every trade from the
// starting index re-derived. MasterUpdated reports whether the pass ended
// in the Master phase, in which case MasterAccountBalance carries the
// last trade's equity.
type Recalc struct {
	Trades               []Trade
	MasterAccountBalance float64
	MasterUpdated        bool
	Fallbacks            []Fallback
	Err                  error
}

// chain is the accumulator carried across the fold.
type chain struct {
	equity   float64
	inMaster bool
}

// Recalculate re-derives the financial fields of trades[from:] under s.
//
// The equity before trades[from] is the prior trade's stored equity, or
// the challenge's starting equity when from is 0. Once a trade is in the
// Master phase every later trade of the pass is too, and the first Master
// trade starts from the configured master account balance.
func Recalculate(s challenge.Settings, trades []Trade, from int) (res Recalc) {
	res = Recalc{Trades: trades, MasterAccountBalance: s.MasterAccountBalance}

	defer func() {
		if p := recover(); p != nil {
			res = Recalc{
				Trades:               trades,
				MasterAccountBalance: s.MasterAccountBalance,
				Err:                  fmt.Errorf("recalculate from %d: %v", from, p),
			}
		}
	}()

	n := len(trades)
	if n == 0 {
		return res
	}
	if from < 0 {
		from = 0
	}
	if from >= n {
		return res
	}

	out := make([]Trade, n)
	copy(out, trades)

	zeroStep := s.Type() == challenge.ZeroStep
	base := finiteOr(s.AccountBalance, 0)
	master := s.MasterBalance()
	riskPct := finiteOr(s.RiskPercent, 0)
	tpPips := finiteOr(s.TakeProfitPips, 0)

	acc := seed(s, out, from, &res)

	for i := from; i < n; i++ {
		t := out[i]

		if !acc.inMaster && !zeroStep {
			if challenge.Resolve(s, acc.equity).Phase == challenge.Master {
				acc.inMaster = true
				acc.equity = master
			}
		}

		riskAmt := risk.RiskDollars(acc.equity, riskPct)
		reward := risk.RewardDollars(t.LotSize, tpPips)
		result := -riskAmt
		if t.Outcome == Win {
			result = reward
		}

		acc.equity += result
		if !isFinite(acc.equity) {
			acc.equity = base
			if acc.inMaster {
				acc.equity = master
			}
			res.Fallbacks = append(res.Fallbacks, Fallback{Index: i, Reason: "equity not finite, reset to baseline"})
		}

		t.RiskDollars = Round2(riskAmt)
		t.RewardDollars = Round2(reward)
		t.ResultDollars = Round2(result)
		t.EquityAfter = Round2(acc.equity)
		t.IsMasterPhase = acc.inMaster
		out[i] = t
	}

	last := out[n-1]
	if last.IsMasterPhase || zeroStep {
		res.MasterAccountBalance = last.EquityAfter
		res.MasterUpdated = true
	}
	res.Trades = out
	return res
}

// seed builds the accumulator for a pass starting at from.
func seed(s challenge.Settings, trades []Trade, from int, res *Recalc) chain {
	zeroStep := s.Type() == challenge.ZeroStep
	if from == 0 {
		return chain{equity: s.StartingEquity(), inMaster: zeroStep}
	}

	prev := trades[from-1]
	acc := chain{equity: prev.EquityAfter, inMaster: zeroStep || prev.IsMasterPhase}
	if !isFinite(acc.equity) {
		acc.equity = finiteOr(s.AccountBalance, 0)
		if acc.inMaster {
			acc.equity = s.MasterBalance()
		}
		res.Fallbacks = append(res.Fallbacks, Fallback{Index: from - 1, Reason: "stored equity not finite, using baseline"})
	}
	return acc
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteOr(x, def float64) float64 {
	if isFinite(x) {
		return x
	}
	return def
}
