package risk

// Lot sizing uses a fixed pip value: 1 standard lot is $100 per pip
// (0.01 lot is $1 per pip) for every instrument.

import (
	"math"

	"github.com/shopspring/decimal"
)

// PipValuePerLot is the account-currency value of one pip on one lot.
const PipValuePerLot = 100.0

type Inputs struct {
	Equity         float64
	RiskPct        float64 // percent, 0.5 means 0.5%
	StopLossPips   float64
	TakeProfitPips float64
	LotSize        float64
}

type Result struct {
	RiskDollars      float64
	RewardDollars    float64
	SuggestedLots    float64
	SuggestedLotSize string // two decimals, "0.00" when no stop is set
}

// RiskDollars is the amount risked on a trade at the given equity.
func RiskDollars(equity, riskPct float64) float64 {
	return finite(equity) * finite(riskPct) / 100
}

// RewardDollars is the take-profit payout for a lot size. Non-positive
// lots or pips pay nothing.
func RewardDollars(lotSize, takeProfitPips float64) float64 {
	lotSize, takeProfitPips = finite(lotSize), finite(takeProfitPips)
	if lotSize <= 0 || takeProfitPips <= 0 {
		return 0
	}
	return lotSize * takeProfitPips * PipValuePerLot
}

// SuggestedLots sizes a position so that a stop-out loses riskDollars,
// rounded to two decimals.
func SuggestedLots(riskDollars, stopLossPips float64) float64 {
	stopLossPips = finite(stopLossPips)
	if stopLossPips <= 0 {
		return 0
	}
	lots := finite(riskDollars) / (stopLossPips * PipValuePerLot)
	f, _ := decimal.NewFromFloat(finite(lots)).Round(2).Float64()
	return f
}

func Calculate(in Inputs) Result {
	riskAmt := RiskDollars(in.Equity, in.RiskPct)
	lots := SuggestedLots(riskAmt, in.StopLossPips)

	return Result{
		RiskDollars:      riskAmt,
		RewardDollars:    RewardDollars(in.LotSize, in.TakeProfitPips),
		SuggestedLots:    lots,
		SuggestedLotSize: decimal.NewFromFloat(lots).StringFixed(2),
	}
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
