package challenge

import (
	"fmt"
	"math"
	"strings"
)

const (
	PresetSafe       = "safe"
	PresetBalanced   = "balanced"
	PresetAggressive = "aggressive"
	PresetCustom     = "custom"
)

// RiskPresets maps a preset name to its risk percent.
var RiskPresets = map[string]float64{
	PresetSafe:       0.25,
	PresetBalanced:   0.5,
	PresetAggressive: 1.0,
}

// AccountSizes are the challenge account sizes on offer.
var AccountSizes = []float64{5000, 10000, 25000, 50000, 100000}

// DetectPreset names the preset matching risk, or "custom".
func DetectPreset(risk float64) string {
	for _, name := range []string{PresetSafe, PresetBalanced, PresetAggressive} {
		if math.Abs(risk-RiskPresets[name]) < 0.001 {
			return name
		}
	}
	return PresetCustom
}

// WithPreset sets the risk percent from a named preset.
func (s Settings) WithPreset(name string) (Settings, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	risk, ok := RiskPresets[n]
	if !ok {
		return s, fmt.Errorf("%w: unknown risk preset %q", ErrInvalidSetting, name)
	}
	s.RiskPercent = risk
	s.RiskPreset = n
	return s, nil
}

// WithAccountSize sets the challenge balance and resets the master
// account balance to the same amount.
func (s Settings) WithAccountSize(size float64) (Settings, error) {
	if err := checkLimit(KeyAccountBalance, size); err != nil {
		return s, err
	}
	s.AccountBalance = size
	s.MasterAccountBalance = size
	return s, nil
}

// TargetsFor returns the default phase targets for a challenge type.
func TargetsFor(t Type) (phase1, phase2 float64) {
	switch t {
	case OneStep:
		return 10, 0
	case ZeroStep:
		return 0, 0
	}
	return 8, 5
}

// WithType switches the topology and resets the phase targets. Existing
// trade math is left alone; callers must not recalculate on this change.
func (s Settings) WithType(t Type) Settings {
	s.ChallengeType = t
	s.Phase1Target, s.Phase2Target = TargetsFor(t)
	return s
}
