// market/instruments.go
package market

import (
	"sort"
	"strings"
)

type Class string

const (
	Metal  Class = "metal"
	Major  Class = "major"
	Minor  Class = "minor"
	Exotic Class = "exotic"
	Crypto Class = "crypto"
)

type InstrumentMeta struct {
	Symbol string
	Class  Class
	Rank   int // catalog order, XAUUSD first
}

// Instruments is the suggestion catalog for trade entries. Entry symbols are
// free text; the catalog only drives suggestions and the form default.
var Instruments = map[string]InstrumentMeta{}

// DefaultInstrument pre-fills a new trade's entry.
const DefaultInstrument = "XAUUSD"

var catalog = []struct {
	class   Class
	symbols []string
}{
	{Metal, []string{"XAUUSD", "XAGUSD", "XAUEUR"}},
	{Major, []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "USD/CAD", "NZD/USD"}},
	{Minor, []string{
		"EUR/GBP", "EUR/JPY", "GBP/JPY", "AUD/JPY", "EUR/AUD", "GBP/AUD", "EUR/CAD",
		"GBP/CAD", "AUD/CAD", "EUR/CHF", "GBP/CHF", "AUD/CHF", "EUR/NZD", "GBP/NZD",
	}},
	{Exotic, []string{"USD/TRY", "USD/ZAR", "USD/MXN", "USD/SGD", "USD/HKD", "USD/SEK", "USD/NOK"}},
	{Crypto, []string{
		"BTC/USD", "ETH/USD", "BNB/USD", "SOL/USD", "ADA/USD", "XRP/USD", "DOT/USD",
		"DOGE/USD", "MATIC/USD", "LTC/USD", "AVAX/USD", "LINK/USD", "UNI/USD",
		"BTC/USDT", "ETH/USDT", "BNB/USDT", "SOL/USDT",
	}},
}

func init() {
	rank := 0
	for _, group := range catalog {
		for _, sym := range group.symbols {
			Instruments[sym] = InstrumentMeta{Symbol: sym, Class: group.class, Rank: rank}
			rank++
		}
	}
}

// Symbols returns the catalog in display order.
func Symbols() []string {
	out := make([]string, 0, len(Instruments))
	for sym := range Instruments {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		return Instruments[out[i]].Rank < Instruments[out[j]].Rank
	})
	return out
}

// Suggest returns catalog symbols matching the typed text. Separators are
// ignored so "eurusd" finds "EUR/USD".
func Suggest(typed string) []string {
	q := squash(typed)
	var out []string
	for _, sym := range Symbols() {
		if q == "" || strings.Contains(squash(sym), q) {
			out = append(out, sym)
		}
	}
	return out
}

// Lookup finds a catalog entry by loose symbol match.
func Lookup(symbol string) (InstrumentMeta, bool) {
	if m, ok := Instruments[symbol]; ok {
		return m, true
	}
	q := squash(symbol)
	for _, m := range Instruments {
		if squash(m.Symbol) == q {
			return m, true
		}
	}
	return InstrumentMeta{}, false
}

func squash(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("/", "", "_", "", "-", "", " ", "").Replace(s)
}
