package challenge

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestResolveOneStep(t *testing.T) {
	t.Parallel()

	s := Default()
	s.ChallengeType = OneStep
	s.Phase1Target = 10

	tests := []struct {
		name     string
		equity   float64
		phase    Phase
		progress float64
	}{
		{"below_start", 9500, Phase1, 0},
		{"at_start", 10000, Phase1, 0},
		{"halfway", 10500, Phase1, 50},
		{"at_target", 11000, Master, 100},
		{"above_target", 12000, Master, 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := Resolve(s, tt.equity)
			assert.Equal(t, tt.phase, st.Phase)
			assert.InDelta(t, tt.progress, st.Progress, 1e-9)
			assert.InDelta(t, 11000.0, st.Phase1Target, 1e-9)
			assert.Zero(t, st.Phase2Target)
		})
	}
}

func TestResolveTwoStep(t *testing.T) {
	t.Parallel()

	s := Default() // 8% then 5%
	t1 := 10800.0
	t2 := t1 * 1.05

	st := Resolve(s, 10400)
	assert.Equal(t, Phase1, st.Phase)
	assert.InDelta(t, 50.0, st.Progress, 1e-9)
	assert.InDelta(t, t1, st.Target, 1e-9)
	assert.Equal(t, 10000.0, st.StartingBalance)

	st = Resolve(s, t1+(t2-t1)/4)
	assert.Equal(t, Phase2, st.Phase)
	assert.InDelta(t, 25.0, st.Progress, 1e-9)
	assert.InDelta(t, 100.0, st.Phase1Progress, 1e-9)
	assert.InDelta(t, t2, st.Target, 1e-9)

	s.MasterAccountBalance = 50000
	st = Resolve(s, t2)
	assert.Equal(t, Master, st.Phase)
	assert.Equal(t, 100.0, st.Progress)
	assert.Equal(t, 50000.0, st.StartingBalance)
}

func TestResolveZeroStep(t *testing.T) {
	t.Parallel()

	s := Default().WithType(ZeroStep)
	s.MasterAccountBalance = 25000

	st := Resolve(s, 1)
	assert.Equal(t, Master, st.Phase)
	assert.Equal(t, 100.0, st.Progress)
	assert.Equal(t, 25000.0, st.StartingBalance)
	assert.Zero(t, st.Phase1Target)
	assert.Zero(t, st.Phase2Target)
}

func TestResolveZeroTargets(t *testing.T) {
	t.Parallel()

	s := Default()
	s.Phase1Target = 0
	s.Phase2Target = 0

	assert.Equal(t, Master, Resolve(s, 10000).Phase)
	assert.Equal(t, Phase1, Resolve(s, 9999.99).Phase)
}

func TestResolveUnknownTypeIsTwoStep(t *testing.T) {
	t.Parallel()

	s := Default()
	s.ChallengeType = "three-step"
	assert.Equal(t, Phase2, Resolve(s, 10900).Phase)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 100.0, Clamp(250))
	assert.Equal(t, 100.0, Clamp(math.Inf(1)))
	assert.Equal(t, 42.5, Clamp(42.5))
}

func TestResolveProgressAlwaysClamped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	types := []Type{TwoStep, OneStep, ZeroStep}

	properties.Property("progress stays within [0,100]", prop.ForAll(
		func(equity, balance, p1, p2 float64, ti int) bool {
			s := Default()
			s.ChallengeType = types[ti]
			s.AccountBalance = balance
			s.Phase1Target = p1
			s.Phase2Target = p2

			st := Resolve(s, equity)
			for _, v := range []float64{st.Progress, st.Phase1Progress, st.Phase2Progress} {
				if math.IsNaN(v) || v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e7, 1e7),
		gen.Float64Range(1, 1e7),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
