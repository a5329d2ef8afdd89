package journal

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/pkg/id"
)

// Field names an editable trade field.
type Field string

const (
	FieldDate    Field = "date"
	FieldSession Field = "session"
	FieldEntry   Field = "entry"
	FieldLotSize Field = "lotSize"
	FieldOutcome Field = "outcome"
	FieldNotes   Field = "notes"
)

// ParseField resolves a field name loosely ("lot-size", "LotSize", "lots").
func ParseField(s string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	switch n {
	case "date":
		return FieldDate, nil
	case "session":
		return FieldSession, nil
	case "entry", "pair", "symbol", "instrument":
		return FieldEntry, nil
	case "lotsize", "lots", "lot", "size":
		return FieldLotSize, nil
	case "outcome", "result":
		return FieldOutcome, nil
	case "notes", "note":
		return FieldNotes, nil
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidTrade, s)
}

// financial reports whether editing f changes the equity chain.
func (f Field) financial() bool {
	return f != FieldEntry && f != FieldNotes
}

// Book owns the settings and the ledger and applies every mutation with
// the recalculation it requires. It is not safe for concurrent use; there
// is exactly one mutator.
type Book struct {
	settings challenge.Settings
	trades   []Trade
	log      zerolog.Logger
	newID    func() string
}

type Option func(*Book)

// WithLogger routes engine fallbacks and recovered failures to log.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Book) { b.log = log }
}

// WithIDs overrides trade id generation.
func WithIDs(fn func() string) Option {
	return func(b *Book) { b.newID = fn }
}

// NewBook takes ownership of trades. Trades without an id are given one.
func NewBook(s challenge.Settings, trades []Trade, opts ...Option) *Book {
	b := &Book{
		settings: s.Normalize(),
		log:      zerolog.Nop(),
		newID:    id.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.trades = make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.ID == "" {
			t.ID = b.newID()
		}
		b.trades = append(b.trades, t)
	}
	return b
}

// Settings returns a copy of the current settings.
func (b *Book) Settings() challenge.Settings { return b.settings }

// Trades returns a copy of the ledger.
func (b *Book) Trades() []Trade {
	out := make([]Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

func (b *Book) Len() int { return len(b.trades) }

// Find returns the trade with the given id and its ledger position. A
// unique id prefix is accepted.
func (b *Book) Find(tradeID string) (Trade, int, error) {
	tradeID = strings.TrimSpace(tradeID)
	if tradeID == "" {
		return Trade{}, -1, ErrTradeNotFound
	}
	for i, t := range b.trades {
		if t.ID == tradeID {
			return t, i, nil
		}
	}
	match := -1
	for i, t := range b.trades {
		if strings.HasPrefix(t.ID, tradeID) {
			if match >= 0 {
				return Trade{}, -1, fmt.Errorf("%w: id prefix %q is ambiguous", ErrTradeNotFound, tradeID)
			}
			match = i
		}
	}
	if match < 0 {
		return Trade{}, -1, fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
	}
	return b.trades[match], match, nil
}

// CurrentEquity is the last trade's equity, or the starting equity of the
// challenge when the ledger is empty or the last value is unusable.
func (b *Book) CurrentEquity() float64 {
	return LastEquity(b.settings, b.trades)
}

// LastEquity is the equity after the final trade of trades.
func LastEquity(s challenge.Settings, trades []Trade) float64 {
	if n := len(trades); n > 0 {
		if e := trades[n-1].EquityAfter; isFinite(e) {
			return e
		}
	}
	return s.StartingEquity()
}

// Add validates in, appends it and derives it from the prior trade.
func (b *Book) Add(in Input) (Trade, error) {
	if len(b.trades) >= MaxTrades {
		return Trade{}, fmt.Errorf("%w: %d trades", ErrLedgerFull, MaxTrades)
	}
	t, err := in.Trade(b.newID())
	if err != nil {
		return Trade{}, err
	}
	b.trades = append(b.trades, t)
	if !b.Recalculate(len(b.trades) - 1) {
		b.trades = b.trades[:len(b.trades)-1]
		return Trade{}, fmt.Errorf("%w: could not derive trade financials", ErrInvalidTrade)
	}
	return b.trades[len(b.trades)-1], nil
}

// Update sets one field of a trade. Entry and notes are written through;
// any other field re-derives the ledger from that trade onward.
func (b *Book) Update(tradeID string, field Field, value string) (Trade, error) {
	_, i, err := b.Find(tradeID)
	if err != nil {
		return Trade{}, err
	}
	t := b.trades[i]

	switch field {
	case FieldEntry:
		v := strings.TrimSpace(value)
		if v == "" {
			return Trade{}, fmt.Errorf("%w: entry must not be blank", ErrInvalidTrade)
		}
		t.Entry = v
	case FieldNotes:
		t.Notes = strings.TrimSpace(value)
	case FieldDate:
		v := strings.TrimSpace(value)
		if v == "" {
			return Trade{}, fmt.Errorf("%w: date must not be blank", ErrInvalidTrade)
		}
		t.Date = v
	case FieldSession:
		sess, ok := ParseSession(value)
		if !ok {
			return Trade{}, fmt.Errorf("%w: unknown session %q", ErrInvalidTrade, value)
		}
		t.Session = sess
	case FieldLotSize:
		lots, err := parseLots(value)
		if err != nil {
			return Trade{}, fmt.Errorf("%w: %v", ErrInvalidTrade, err)
		}
		t.LotSize = lots
	case FieldOutcome:
		out, ok := ParseOutcome(value)
		if !ok {
			return Trade{}, fmt.Errorf("%w: outcome must be Win or Loss, got %q", ErrInvalidTrade, value)
		}
		t.Outcome = out
	default:
		return Trade{}, fmt.Errorf("%w: unknown field %q", ErrInvalidTrade, field)
	}

	prev := b.trades[i]
	b.trades[i] = t
	if field.financial() && !b.Recalculate(i) {
		b.trades[i] = prev
	}
	return b.trades[i], nil
}

// Delete removes a trade and re-derives the remaining ledger from the
// start, since the removed trade may have been the phase transition.
func (b *Book) Delete(tradeID string) (Trade, error) {
	t, i, err := b.Find(tradeID)
	if err != nil {
		return Trade{}, err
	}
	b.trades = append(b.trades[:i:i], b.trades[i+1:]...)

	if len(b.trades) == 0 {
		if b.settings.Type() == challenge.ZeroStep {
			b.settings.MasterAccountBalance = b.settings.AccountBalance
		}
		return t, nil
	}
	b.Recalculate(0)
	return t, nil
}

// Import appends already-parsed trades up to the ledger ceiling and then
// re-derives the whole ledger against the live settings. It returns how
// many trades were dropped by the ceiling.
func (b *Book) Import(trades []Trade) (added, truncated int, err error) {
	room := MaxTrades - len(b.trades)
	if room <= 0 {
		return 0, len(trades), fmt.Errorf("%w: %d trades, delete some before importing", ErrLedgerFull, MaxTrades)
	}
	if len(trades) > room {
		truncated = len(trades) - room
		trades = trades[:room]
	}
	for _, t := range trades {
		if t.ID == "" {
			t.ID = b.newID()
		}
		b.trades = append(b.trades, t)
	}
	b.Recalculate(0)
	return len(trades), truncated, nil
}

// SetSetting applies a raw field edit. Balance, risk and pip changes
// re-derive the whole ledger.
func (b *Book) SetSetting(key challenge.Key, raw string) (applied bool, err error) {
	next, applied, err := b.settings.With(key, raw)
	if err != nil || !applied {
		return false, err
	}
	b.settings = next
	if key.TriggersRecalc() {
		b.Recalculate(0)
	}
	return true, nil
}

// SetPreset switches to a named risk preset and re-derives the ledger.
func (b *Book) SetPreset(name string) error {
	next, err := b.settings.WithPreset(name)
	if err != nil {
		return err
	}
	b.settings = next
	b.Recalculate(0)
	return nil
}

// SetAccountSize changes the challenge account size, which also resets
// the master account balance, and re-derives the ledger.
func (b *Book) SetAccountSize(size float64) error {
	next, err := b.settings.WithAccountSize(size)
	if err != nil {
		return err
	}
	b.settings = next
	b.Recalculate(0)
	return nil
}

// SetChallengeType changes the topology and resets the phase targets.
// Existing trade math is not re-derived until a triggering field changes.
func (b *Book) SetChallengeType(t challenge.Type) {
	b.settings = b.settings.WithType(t)
}

// Recalculate runs the engine from index from and commits its result.
// On failure the ledger is left as it was and false is returned.
func (b *Book) Recalculate(from int) bool {
	res := Recalculate(b.settings, b.trades, from)
	if res.Err != nil {
		b.log.Error().Err(res.Err).Int("from", from).Int("trades", len(b.trades)).Msg("recalculation abandoned")
		return false
	}
	for _, fb := range res.Fallbacks {
		b.log.Warn().Int("trade", fb.Index+1).Str("reason", fb.Reason).Msg("recalculation fallback")
	}
	b.trades = res.Trades
	if res.MasterUpdated {
		b.settings.MasterAccountBalance = res.MasterAccountBalance
	}
	b.log.Debug().Int("from", from).Int("trades", len(b.trades)).Msg("ledger recalculated")
	return true
}
