// Package challenge holds the account configuration of a funded-account
// challenge and resolves which phase a given equity falls in.
package challenge

import (
	"fmt"
	"math"
	"strings"
)

// Type is the challenge topology.
type Type string

const (
	TwoStep  Type = "two-step"
	OneStep  Type = "one-step"
	ZeroStep Type = "zero-step"
)

// ParseType accepts the canonical names plus a few loose spellings
// ("2", "twostep", "two_step").
func ParseType(s string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
	switch n {
	case "twostep", "two", "2":
		return TwoStep, nil
	case "onestep", "one", "1":
		return OneStep, nil
	case "zerostep", "zero", "0", "direct", "master":
		return ZeroStep, nil
	}
	return "", fmt.Errorf("unknown challenge type %q", s)
}

// Settings is the account configuration. Field names on the wire match the
// storage slot format so that stored settings survive across versions.
type Settings struct {
	AccountBalance       float64 `json:"accountBalance" yaml:"account_balance" mapstructure:"account_balance"`
	RiskPercent          float64 `json:"riskPercent" yaml:"risk_percent" mapstructure:"risk_percent"`
	RiskPreset           string  `json:"riskPreset" yaml:"risk_preset" mapstructure:"risk_preset"`
	StopLossPips         float64 `json:"stopLossPips" yaml:"stop_loss_pips" mapstructure:"stop_loss_pips"`
	TakeProfitPips       float64 `json:"takeProfitPips" yaml:"take_profit_pips" mapstructure:"take_profit_pips"`
	Phase1Target         float64 `json:"phase1Target" yaml:"phase1_target" mapstructure:"phase1_target"`
	Phase2Target         float64 `json:"phase2Target" yaml:"phase2_target" mapstructure:"phase2_target"`
	DailyDrawdownLimit   float64 `json:"dailyDrawdownLimit" yaml:"daily_drawdown_limit" mapstructure:"daily_drawdown_limit"`
	ChallengeType        Type    `json:"challengeType" yaml:"challenge_type" mapstructure:"challenge_type"`
	MasterAccountBalance float64 `json:"masterAccountBalance" yaml:"master_account_balance" mapstructure:"master_account_balance"`
	MonthlyTarget        float64 `json:"monthlyTarget" yaml:"monthly_target" mapstructure:"monthly_target"`
}

// Default returns the settings a fresh journal starts with.
func Default() Settings {
	return Settings{
		AccountBalance:       10000,
		RiskPercent:          0.5,
		RiskPreset:           PresetBalanced,
		StopLossPips:         20,
		TakeProfitPips:       40,
		Phase1Target:         8,
		Phase2Target:         5,
		DailyDrawdownLimit:   5,
		ChallengeType:        TwoStep,
		MasterAccountBalance: 10000,
		MonthlyTarget:        0,
	}
}

// Type returns the challenge type, treating anything unrecognised as
// two-step.
func (s Settings) Type() Type {
	switch s.ChallengeType {
	case TwoStep, OneStep, ZeroStep:
		return s.ChallengeType
	}
	return TwoStep
}

// Targets returns the phase targets in percent. Zero-step has none.
func (s Settings) Targets() (phase1, phase2 float64) {
	switch s.Type() {
	case ZeroStep:
		return 0, 0
	case OneStep:
		return num(s.Phase1Target), 0
	}
	return num(s.Phase1Target), num(s.Phase2Target)
}

// MasterBalance is the master account baseline, falling back to the
// challenge balance when the stored value is unusable.
func (s Settings) MasterBalance() float64 {
	if m := num(s.MasterAccountBalance); m > 0 {
		return m
	}
	return num(s.AccountBalance)
}

// StartingEquity is the equity the chain starts from before any trade.
func (s Settings) StartingEquity() float64 {
	if s.Type() == ZeroStep {
		return s.MasterBalance()
	}
	return num(s.AccountBalance)
}

// Normalize repairs values that cannot have come from a valid edit, such
// as an unknown challenge type from a stale storage slot.
func (s Settings) Normalize() Settings {
	s.ChallengeType = s.Type()
	if s.RiskPreset == "" {
		s.RiskPreset = DetectPreset(s.RiskPercent)
	}
	return s
}

// Validate checks every field against the edit limits.
func (s Settings) Validate() error {
	for _, k := range Keys {
		if err := checkLimit(k, s.value(k)); err != nil {
			return err
		}
	}
	if _, err := ParseType(string(s.ChallengeType)); err != nil {
		return &SettingError{Key: "challengeType", Value: string(s.ChallengeType), Reason: "unknown challenge type"}
	}
	return nil
}

// num coerces non-finite values to zero.
func num(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
