package sheet

import (
	"io"
	"math"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/risk"
)

// ImportResult holds the trades read from a sheet and the number of data
// rows that were skipped for lacking a date or an entry.
type ImportResult struct {
	Trades  []journal.Trade
	Skipped int
}

// Import reads trades from the first sheet of a journal workbook. Each
// trade gets a provisional equity chain continuing from existing; the
// caller is expected to recalculate the merged ledger afterwards. Ids
// are left empty.
func Import(r io.Reader, s challenge.Settings, existing []journal.Trade) (ImportResult, error) {
	f, _, rows, err := openFirstSheet(r)
	if err != nil {
		return ImportResult{}, err
	}
	f.Close()

	if len(rows) < 2 {
		return ImportResult{}, ErrEmptySheet
	}
	header := rows[0]
	c := matchColumns(header)
	if err := c.require(header); err != nil {
		return ImportResult{}, err
	}

	equity := s.AccountBalance
	if n := len(existing); n > 0 {
		if e := existing[n-1].EquityAfter; e > 0 && !math.IsInf(e, 0) {
			equity = e
		}
	}

	var res ImportResult
	for _, row := range rows[1:] {
		date := dateText(cell(row, c.date))
		entry := cell(row, c.entry)
		if date == "" || entry == "" {
			res.Skipped++
			continue
		}

		sess, ok := journal.ParseSession(cell(row, c.session))
		if !ok {
			sess = journal.London
		}
		lots, ok := number(cell(row, c.lot))
		if !ok || lots < 0 {
			lots = 0
		}
		out := importOutcome(row, c)

		riskAmt := risk.RiskDollars(equity, s.RiskPercent)
		reward := risk.RewardDollars(lots, s.TakeProfitPips)
		result := reward
		if out == journal.Loss {
			result = -riskAmt
		}
		after := math.Max(0, equity+result)

		res.Trades = append(res.Trades, journal.Trade{
			Date:          date,
			Session:       sess,
			Entry:         entry,
			LotSize:       lots,
			Outcome:       out,
			Notes:         cell(row, c.notes),
			RiskDollars:   journal.Round2(riskAmt),
			RewardDollars: journal.Round2(reward),
			ResultDollars: journal.Round2(result),
			EquityAfter:   journal.Round2(after),
		})
		equity = after
		if equity <= 0 {
			equity = s.AccountBalance
		}
	}

	if len(res.Trades) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

// importOutcome prefers an explicit outcome, then the sign of the result
// column, then Win.
func importOutcome(row []string, c columns) journal.Outcome {
	if o, ok := journal.ParseOutcome(cell(row, c.outcome)); ok {
		return o
	}
	if x, ok := number(cell(row, c.result)); ok {
		if x < 0 {
			return journal.Loss
		}
		return journal.Win
	}
	return journal.Win
}
