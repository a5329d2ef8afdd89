package sheet

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/propjournal/journal"
)

// CSVHeader is the header line of a CSV export.
var CSVHeader = []string{
	"Date", "Session", "Entry", "Lot Size", "Outcome",
	"Risk $", "Reward $", "Result $", "Equity After", "Notes",
}

// CSVFileName is the export file name for the given day.
func CSVFileName(now time.Time) string {
	return "fundingpips-trades-" + now.Format("2006-01-02") + ".csv"
}

// ExportCSV writes the header and one line per trade with every data cell
// quoted.
func ExportCSV(w io.Writer, trades []journal.Trade) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return err
	}
	for _, t := range trades {
		cells := []string{
			t.Date,
			string(t.Session),
			t.Entry,
			journal.FormatLots(t.LotSize),
			string(t.Outcome),
			journal.Money(t.RiskDollars),
			journal.Money(t.RewardDollars),
			journal.Money(t.ResultDollars),
			journal.Money(t.EquityAfter),
			t.Notes,
		}
		for i, c := range cells {
			cells[i] = quote(c)
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
