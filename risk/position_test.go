package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskDollars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		equity  float64
		riskPct float64
		want    float64
	}{
		{"half_percent", 10000, 0.5, 50},
		{"compounded", 10120, 0.5, 50.6},
		{"zero_risk", 10000, 0, 0},
		{"nan_equity", math.NaN(), 1, 0},
		{"inf_risk", 10000, math.Inf(1), 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RiskDollars(tt.equity, tt.riskPct), 1e-9)
		})
	}
}

func TestRewardDollars(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 120.0, RewardDollars(0.03, 40), 1e-9)
	assert.InDelta(t, 100.0, RewardDollars(1, 1), 1e-9)
	assert.Zero(t, RewardDollars(0, 40))
	assert.Zero(t, RewardDollars(-0.5, 40))
	assert.Zero(t, RewardDollars(0.03, 0))
	assert.Zero(t, RewardDollars(math.NaN(), 40))
}

func TestCalculate_SuggestedLotSize(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{
		Equity:         10000,
		RiskPct:        0.25,
		StopLossPips:   25,
		TakeProfitPips: 50,
		LotSize:        0.01,
	})

	assert.InDelta(t, 25.0, got.RiskDollars, 1e-9)
	assert.InDelta(t, 50.0, got.RewardDollars, 1e-9)
	assert.InDelta(t, 0.01, got.SuggestedLots, 1e-12)
	assert.Equal(t, "0.01", got.SuggestedLotSize)
}

func TestCalculate_Rounding(t *testing.T) {
	t.Parallel()

	// 50 / (20 * 100) = 0.025 -> 0.03
	got := Calculate(Inputs{Equity: 10000, RiskPct: 0.5, StopLossPips: 20})
	assert.Equal(t, "0.03", got.SuggestedLotSize)
}

func TestCalculate_NoStop(t *testing.T) {
	t.Parallel()

	got := Calculate(Inputs{Equity: 10000, RiskPct: 0.5, StopLossPips: 0})
	assert.Equal(t, "0.00", got.SuggestedLotSize)
	assert.Zero(t, got.SuggestedLots)
	assert.InDelta(t, 50.0, got.RiskDollars, 1e-9)
}
