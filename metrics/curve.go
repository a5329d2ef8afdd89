package metrics

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
)

// Point is one sample of the equity curve. Trade 0 is the starting equity.
type Point struct {
	Trade  int
	Equity float64
}

// EquityCurve returns the starting equity followed by each trade's equity.
// An unusable stored value repeats the previous point.
func EquityCurve(s challenge.Settings, trades []journal.Trade) []Point {
	prev := s.StartingEquity()
	pts := make([]Point, 0, len(trades)+1)
	pts = append(pts, Point{Trade: 0, Equity: prev})
	for i, t := range trades {
		e := t.EquityAfter
		if math.IsNaN(e) || math.IsInf(e, 0) {
			e = prev
		}
		pts = append(pts, Point{Trade: i + 1, Equity: e})
		prev = e
	}
	return pts
}

// WriteCurve prints the curve as a text bar chart scaled to width columns.
func WriteCurve(w io.Writer, pts []Point, width int) error {
	if len(pts) == 0 {
		return nil
	}
	if width < 10 {
		width = 10
	}
	lo, hi := pts[0].Equity, pts[0].Equity
	for _, p := range pts {
		lo = math.Min(lo, p.Equity)
		hi = math.Max(hi, p.Equity)
	}

	for _, p := range pts {
		n := width
		if hi > lo {
			n = 1 + int(float64(width-1)*(p.Equity-lo)/(hi-lo))
		}
		label := decimal.NewFromFloat(p.Equity).StringFixed(2)
		if _, err := fmt.Fprintf(w, "%5d %12s %s\n", p.Trade, label, strings.Repeat("#", n)); err != nil {
			return err
		}
	}
	return nil
}
