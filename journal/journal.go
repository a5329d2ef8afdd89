// Package journal holds the trade ledger and the engine that derives each
// trade's financials and the running equity chain.
package journal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTrade  = errors.New("invalid trade")
	ErrTradeNotFound = errors.New("trade not found")
	ErrLedgerFull    = errors.New("ledger is full")
)

// MaxTrades bounds the ledger so every recalculation stays cheap.
const MaxTrades = 10000

type Outcome string

const (
	Win  Outcome = "Win"
	Loss Outcome = "Loss"
)

// ParseOutcome matches "win"/"loss" case-insensitively.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w":
		return Win, true
	case "loss", "l", "lose":
		return Loss, true
	}
	return "", false
}

type Session string

const (
	Asian   Session = "Asian"
	London  Session = "London"
	NewYork Session = "New York"
	Overlap Session = "Overlap"
)

// Sessions lists the trading sessions in display order.
var Sessions = []Session{Asian, London, NewYork, Overlap}

// ParseSession matches a session name loosely ("new-york", "NY", "london
// session").
func ParseSession(s string) (Session, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimSuffix(n, " session")
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	switch n {
	case "asian", "asia", "tokyo":
		return Asian, true
	case "london", "ldn":
		return London, true
	case "newyork", "ny":
		return NewYork, true
	case "overlap":
		return Overlap, true
	}
	return "", false
}

// Trade is one ledger entry. RiskDollars through IsMasterPhase are derived
// by Recalculate and are never edited directly.
type Trade struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Session Session `json:"session"`
	Entry   string  `json:"entry"`
	LotSize float64 `json:"lotSize"`
	Outcome Outcome `json:"outcome"`
	Notes   string  `json:"notes"`

	RiskDollars   float64 `json:"riskDollars"`
	RewardDollars float64 `json:"rewardDollars"`
	ResultDollars float64 `json:"resultDollars"`
	EquityAfter   float64 `json:"equityAfter"`
	IsMasterPhase bool    `json:"isMasterPhase"`
}

// Key is the identity used to deduplicate trades against a spreadsheet.
func (t Trade) Key() string {
	return DedupKey(t.Date, t.Entry, FormatLots(t.LotSize))
}

// DedupKey joins the composite spreadsheet identity.
func DedupKey(date, entry, lots string) string {
	return strings.TrimSpace(date) + "|" + strings.TrimSpace(entry) + "|" + strings.TrimSpace(lots)
}

// FormatLots renders a lot size with no trailing zeros ("0.03", "1").
func FormatLots(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Input is a trade as typed by the user, before validation.
type Input struct {
	Date    string
	Session string
	Entry   string
	LotSize string
	Outcome string
	Notes   string
}

// Validate requires entry, a positive lot size and a date.
func (in Input) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Entry) == "" {
		missing = append(missing, "entry")
	}
	if lots, err := parseLots(in.LotSize); err != nil || lots <= 0 {
		missing = append(missing, "lot size")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidTrade, strings.Join(missing, ", "))
	}
	if s := strings.TrimSpace(in.Session); s != "" {
		if _, ok := ParseSession(s); !ok {
			return fmt.Errorf("%w: unknown session %q", ErrInvalidTrade, in.Session)
		}
	}
	if o := strings.TrimSpace(in.Outcome); o != "" {
		if _, ok := ParseOutcome(o); !ok {
			return fmt.Errorf("%w: outcome must be Win or Loss, got %q", ErrInvalidTrade, in.Outcome)
		}
	}
	return nil
}

// Trade builds an underived trade record from validated input. Session
// defaults to London and outcome to Win.
func (in Input) Trade(id string) (Trade, error) {
	if err := in.Validate(); err != nil {
		return Trade{}, err
	}
	lots, _ := parseLots(in.LotSize)
	sess, ok := ParseSession(in.Session)
	if !ok {
		sess = London
	}
	out, ok := ParseOutcome(in.Outcome)
	if !ok {
		out = Win
	}
	return Trade{
		ID:      id,
		Date:    strings.TrimSpace(in.Date),
		Session: sess,
		Entry:   strings.TrimSpace(in.Entry),
		LotSize: lots,
		Outcome: out,
		Notes:   strings.TrimSpace(in.Notes),
	}, nil
}

func parseLots(s string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(x) || x < 0 {
		return 0, fmt.Errorf("lot size %q out of range", s)
	}
	return x, nil
}

// Round2 rounds a monetary amount to cents.
func Round2(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// Money formats an amount with exactly two decimals.
func Money(x float64) string {
	if !isFinite(x) {
		x = 0
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}
