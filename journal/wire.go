package journal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexNumber decodes a JSON number, a numeric string or null. Trades saved
// by older builds stored money as "50.60" strings and ids as numbers.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			*f = 0
			return nil
		}
		*f = flexNumber(x)
		return nil
	}
	var x float64
	if err := json.Unmarshal(b, &x); err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(x)
	return nil
}

// flexString decodes a string, a number or a bool into its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(string(b))
	}
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

type wireTrade struct {
	ID            flexString `json:"id"`
	Date          flexString `json:"date"`
	Session       flexString `json:"session"`
	Entry         flexString `json:"entry"`
	LotSize       flexNumber `json:"lotSize"`
	Outcome       flexString `json:"outcome"`
	Notes         flexString `json:"notes"`
	RiskDollars   flexNumber `json:"riskDollars"`
	RewardDollars flexNumber `json:"rewardDollars"`
	ResultDollars flexNumber `json:"resultDollars"`
	EquityAfter   flexNumber `json:"equityAfter"`
	IsMasterPhase flexBool   `json:"isMasterPhase"`
}

// UnmarshalJSON accepts loosely typed records. Unknown sessions fall back
// to London and anything but a win counts as a loss, matching how the
// engine treats outcomes.
func (t *Trade) UnmarshalJSON(b []byte) error {
	var w wireTrade
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	sess, ok := ParseSession(string(w.Session))
	if !ok {
		sess = London
	}
	out, ok := ParseOutcome(string(w.Outcome))
	if !ok {
		out = Loss
		if strings.TrimSpace(string(w.Outcome)) == "" {
			out = Win
		}
	}
	lots := float64(w.LotSize)
	if lots < 0 {
		lots = 0
	}
	*t = Trade{
		ID:            strings.TrimSpace(string(w.ID)),
		Date:          strings.TrimSpace(string(w.Date)),
		Session:       sess,
		Entry:         strings.TrimSpace(string(w.Entry)),
		LotSize:       lots,
		Outcome:       out,
		Notes:         string(w.Notes),
		RiskDollars:   float64(w.RiskDollars),
		RewardDollars: float64(w.RewardDollars),
		ResultDollars: float64(w.ResultDollars),
		EquityAfter:   float64(w.EquityAfter),
		IsMasterPhase: bool(w.IsMasterPhase),
	}
	return nil
}
