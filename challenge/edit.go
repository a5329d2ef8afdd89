package challenge

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidSetting = errors.New("invalid setting")
	ErrUnknownSetting = errors.New("unknown setting")
)

// SettingError describes a rejected field edit.
type SettingError struct {
	Key    Key
	Value  string
	Reason string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s=%q: %s", e.Key, e.Value, e.Reason)
}

func (e *SettingError) Unwrap() error { return ErrInvalidSetting }

// Key names an editable numeric setting.
type Key string

const (
	KeyAccountBalance       Key = "accountBalance"
	KeyMasterAccountBalance Key = "masterAccountBalance"
	KeyRiskPercent          Key = "riskPercent"
	KeyStopLossPips         Key = "stopLossPips"
	KeyTakeProfitPips       Key = "takeProfitPips"
	KeyPhase1Target         Key = "phase1Target"
	KeyPhase2Target         Key = "phase2Target"
	KeyDailyDrawdownLimit   Key = "dailyDrawdownLimit"
	KeyMonthlyTarget        Key = "monthlyTarget"
)

// Keys lists the numeric settings in display order.
var Keys = []Key{
	KeyAccountBalance,
	KeyMasterAccountBalance,
	KeyRiskPercent,
	KeyStopLossPips,
	KeyTakeProfitPips,
	KeyPhase1Target,
	KeyPhase2Target,
	KeyDailyDrawdownLimit,
	KeyMonthlyTarget,
}

// Limit is an inclusive range.
type Limit struct {
	Min, Max float64
}

var limits = map[Key]Limit{
	KeyAccountBalance:       {1, 10_000_000},
	KeyMasterAccountBalance: {1, 10_000_000},
	KeyRiskPercent:          {0.01, 10},
	KeyStopLossPips:         {1, 10000},
	KeyTakeProfitPips:       {1, 10000},
	KeyPhase1Target:         {0, 100},
	KeyPhase2Target:         {0, 100},
	KeyDailyDrawdownLimit:   {0, 100},
	KeyMonthlyTarget:        {0, 10_000_000},
}

// LimitFor returns the accepted range for k.
func LimitFor(k Key) (Limit, bool) {
	l, ok := limits[k]
	return l, ok
}

// ParseKey resolves a setting name case-insensitively, ignoring '-', '_'
// and spaces, so "stop-loss-pips" and "stopLossPips" name the same field.
func ParseKey(s string) (Key, error) {
	n := fold(s)
	for _, k := range Keys {
		if fold(string(k)) == n {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, s)
}

func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// TriggersRecalc reports whether a change to k invalidates the derived
// financials of the existing ledger.
func (k Key) TriggersRecalc() bool {
	switch k {
	case KeyAccountBalance, KeyRiskPercent, KeyStopLossPips, KeyTakeProfitPips:
		return true
	}
	return false
}

// With returns s with key set to the parsed raw value. Empty input is not
// an edit: it returns s unchanged with applied=false and no error. Invalid
// input returns a *SettingError and s unchanged.
func (s Settings) With(key Key, raw string) (next Settings, applied bool, err error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return s, false, nil
	}
	if _, ok := limits[key]; !ok {
		return s, false, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	// strip leading zeros, but keep "0.5" and "0"
	if len(v) > 1 && v[0] == '0' && v[1] != '.' {
		v = strings.TrimLeft(v, "0")
		if v == "" || v[0] == '.' {
			v = "0" + v
		}
	}

	x, perr := strconv.ParseFloat(v, 64)
	if perr != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return s, false, &SettingError{Key: key, Value: raw, Reason: "not a number"}
	}
	if x < 0 {
		return s, false, &SettingError{Key: key, Value: raw, Reason: "must not be negative"}
	}
	if err := checkLimit(key, x); err != nil {
		return s, false, err
	}

	s.set(key, x)
	if key == KeyRiskPercent {
		s.RiskPreset = DetectPreset(x)
	}
	return s, true, nil
}

func checkLimit(k Key, x float64) error {
	l, ok := limits[k]
	if !ok {
		return nil
	}
	if math.IsNaN(x) || x < l.Min || x > l.Max {
		return &SettingError{
			Key:    k,
			Value:  strconv.FormatFloat(x, 'f', -1, 64),
			Reason: fmt.Sprintf("must be between %g and %g", l.Min, l.Max),
		}
	}
	return nil
}

func (s Settings) value(k Key) float64 {
	switch k {
	case KeyAccountBalance:
		return s.AccountBalance
	case KeyMasterAccountBalance:
		return s.MasterAccountBalance
	case KeyRiskPercent:
		return s.RiskPercent
	case KeyStopLossPips:
		return s.StopLossPips
	case KeyTakeProfitPips:
		return s.TakeProfitPips
	case KeyPhase1Target:
		return s.Phase1Target
	case KeyPhase2Target:
		return s.Phase2Target
	case KeyDailyDrawdownLimit:
		return s.DailyDrawdownLimit
	case KeyMonthlyTarget:
		return s.MonthlyTarget
	}
	return 0
}

// Value returns the current value of k.
func (s Settings) Value(k Key) float64 { return s.value(k) }

func (s *Settings) set(k Key, x float64) {
	switch k {
	case KeyAccountBalance:
		s.AccountBalance = x
	case KeyMasterAccountBalance:
		s.MasterAccountBalance = x
	case KeyRiskPercent:
		s.RiskPercent = x
	case KeyStopLossPips:
		s.StopLossPips = x
	case KeyTakeProfitPips:
		s.TakeProfitPips = x
	case KeyPhase1Target:
		s.Phase1Target = x
	case KeyPhase2Target:
		s.Phase2Target = x
	case KeyDailyDrawdownLimit:
		s.DailyDrawdownLimit = x
	case KeyMonthlyTarget:
		s.MonthlyTarget = x
	}
}
