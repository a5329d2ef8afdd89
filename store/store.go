// Package store persists the settings and the ledger in two independent
// string slots. A corrupt slot is discarded on load, never propagated.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/pkg/id"
)

// Slot keys. They match the keys older journals were saved under.
const (
	SettingsKey = "propFirmSettings"
	TradesKey   = "propFirmTrades"
)

// ErrQuotaExceeded is returned by a backend that refuses a write for size.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Slots is a string-keyed whole-value store. Set replaces the value
// atomically.
type Slots interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a Slots implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Open returns the backend rooted at path: a directory for file, a
// database file for sqlite.
func Open(backend Backend, path string) (Slots, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(path)
	case BackendSQLite:
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// State is what a load recovered. Warnings describe discarded data.
type State struct {
	Settings challenge.Settings
	Trades   []journal.Trade
	Warnings []string
}

// Load reads both slots. defaults fills a missing or corrupt settings
// slot and any field absent from a stored one. A corrupt slot is deleted
// so that the next save starts clean. Only backend read failures are
// returned as errors.
func Load(ctx context.Context, slots Slots, defaults challenge.Settings) (State, error) {
	st := State{Settings: defaults.Normalize()}

	raw, ok, err := slots.Get(ctx, SettingsKey)
	if err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		s, err := decodeSettings(raw, defaults)
		if err != nil {
			st.Warnings = append(st.Warnings, fmt.Sprintf("settings discarded: %v", err))
			_ = slots.Delete(ctx, SettingsKey)
		} else {
			st.Settings = s
		}
	}

	raw, ok, err = slots.Get(ctx, TradesKey)
	if err != nil {
		return st, fmt.Errorf("load trades: %w", err)
	}
	if ok {
		trades, skipped, err := decodeTrades(raw)
		if err != nil {
			st.Warnings = append(st.Warnings, fmt.Sprintf("trades discarded: %v", err))
			_ = slots.Delete(ctx, TradesKey)
		} else {
			st.Trades = trades
			if skipped > 0 {
				st.Warnings = append(st.Warnings, fmt.Sprintf("%d malformed trade records skipped", skipped))
			}
		}
	}
	return st, nil
}

func decodeSettings(raw string, defaults challenge.Settings) (challenge.Settings, error) {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || b[0] != '{' {
		return defaults, errors.New("not an object")
	}
	s := defaults
	if err := json.Unmarshal(b, &s); err != nil {
		return defaults, err
	}
	return s.Normalize(), nil
}

func decodeTrades(raw string) (trades []journal.Trade, skipped int, err error) {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || b[0] != '[' {
		return nil, 0, errors.New("not an array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, 0, err
	}

	trades = make([]journal.Trade, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			skipped++
			continue
		}
		var t journal.Trade
		if err := json.Unmarshal(item, &t); err != nil {
			skipped++
			continue
		}
		if t.ID == "" {
			t.ID = id.New()
		}
		trades = append(trades, t)
	}
	return trades, skipped, nil
}

// Save writes both slots. A failing slot does not stop the other from
// being written; the failures are joined.
func Save(ctx context.Context, slots Slots, s challenge.Settings, trades []journal.Trade) error {
	if trades == nil {
		trades = []journal.Trade{}
	}

	var errs []error
	if b, err := json.Marshal(s); err != nil {
		errs = append(errs, fmt.Errorf("encode settings: %w", err))
	} else if err := slots.Set(ctx, SettingsKey, string(b)); err != nil {
		errs = append(errs, fmt.Errorf("save settings: %w", err))
	}

	if b, err := json.Marshal(trades); err != nil {
		errs = append(errs, fmt.Errorf("encode trades: %w", err))
	} else if err := slots.Set(ctx, TradesKey, string(b)); err != nil {
		errs = append(errs, fmt.Errorf("save trades: %w", err))
	}
	return errors.Join(errs...)
}
