package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/propjournal/journal"
)

// AppendResult reports how many trades were written and how many data
// rows the rewritten sheet holds.
type AppendResult struct {
	Added int
	Total int
}

// Append reads an existing journal from src, adds the trades whose
// date|entry|lot key is not already present and writes the merged
// workbook to dst. Every row is renumbered under a "Trade #" column,
// which is inserted first when the sheet lacks one.
func Append(src io.Reader, trades []journal.Trade, dst io.Writer) (AppendResult, error) {
	f, name, rows, err := openFirstSheet(src)
	if err != nil {
		return AppendResult{}, err
	}
	f.Close()

	header := rows[0]
	c := matchColumns(header)
	if err := c.require(header); err != nil {
		return AppendResult{}, err
	}

	seen := make(map[string]bool)
	var body [][]string
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if cell(row, c.date) != "" && cell(row, c.entry) != "" {
			seen[rowKey(row, c)] = true
		}
		body = append(body, row)
	}

	var add []journal.Trade
	for _, t := range trades {
		if t.Date == "" || t.Entry == "" {
			continue
		}
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		add = append(add, t)
	}
	if len(add) == 0 {
		return AppendResult{}, ErrNothingToAppend
	}

	if c.tradeNum < 0 {
		header = append([]string{"Trade #"}, header...)
		for i, row := range body {
			body[i] = append([]string{""}, row...)
		}
		c = matchColumns(header)
	}

	out := excelize.NewFile()
	defer out.Close()

	if err := out.SetSheetName("Sheet1", name); err != nil {
		return AppendResult{}, err
	}
	st, err := newStyles(out)
	if err != nil {
		return AppendResult{}, err
	}

	width := len(header)
	if err := writeRow(out, name, 1, toRow(header)); err != nil {
		return AppendResult{}, err
	}
	n := 0
	for _, row := range body {
		n++
		if err := writeRow(out, name, n+1, existingRow(row, c, n)); err != nil {
			return AppendResult{}, err
		}
	}
	for _, t := range add {
		n++
		if err := writeRow(out, name, n+1, layoutRow(t, c, width, n)); err != nil {
			return AppendResult{}, err
		}
	}

	if err := styleJournal(out, name, c, width, n, st); err != nil {
		return AppendResult{}, err
	}
	if err := out.Write(dst); err != nil {
		return AppendResult{}, fmt.Errorf("write xlsx: %w", err)
	}
	return AppendResult{Added: len(add), Total: n}, nil
}

// existingRow carries a row of the source sheet over, typing its numeric
// columns and renumbering it as trade n.
func existingRow(row []string, c columns, n int) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	if c.date >= 0 && c.date < len(row) {
		out[c.date] = dateText(row[c.date])
	}
	for _, col := range []int{c.lot, c.risk, c.reward, c.result, c.equity} {
		if col < 0 || col >= len(row) {
			continue
		}
		if x, ok := number(row[col]); ok {
			out[col] = x
		}
	}
	if c.tradeNum >= 0 {
		for len(out) <= c.tradeNum {
			out = append(out, "")
		}
		out[c.tradeNum] = n
	}
	return out
}

// layoutRow places a trade's fields into the columns of an existing sheet.
// Fields the sheet has no column for are dropped.
func layoutRow(t journal.Trade, c columns, width, n int) []interface{} {
	out := make([]interface{}, width)
	for i := range out {
		out[i] = ""
	}
	put := func(col int, v interface{}) {
		if col >= 0 && col < width {
			out[col] = v
		}
	}
	put(c.tradeNum, n)
	put(c.date, t.Date)
	put(c.session, string(t.Session))
	put(c.entry, t.Entry)
	put(c.lot, t.LotSize)
	put(c.outcome, string(t.Outcome))
	put(c.risk, journal.Round2(t.RiskDollars))
	put(c.reward, journal.Round2(t.RewardDollars))
	put(c.result, journal.Round2(t.ResultDollars))
	put(c.equity, journal.Round2(t.EquityAfter))
	put(c.notes, t.Notes)
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
