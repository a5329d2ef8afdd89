package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/propjournal/journal"
)

// exportRow is the Header layout of one trade.
func exportRow(n int, t journal.Trade) []interface{} {
	return []interface{}{
		n,
		t.Date,
		string(t.Session),
		t.Entry,
		t.LotSize,
		string(t.Outcome),
		journal.Round2(t.RiskDollars),
		journal.Round2(t.RewardDollars),
		journal.Round2(t.ResultDollars),
		journal.Round2(t.EquityAfter),
		t.Notes,
	}
}

// ExportXLSX writes the ledger as a fresh single-sheet journal.
func ExportXLSX(w io.Writer, trades []journal.Trade) error {
	if len(trades) == 0 {
		return ErrNoTrades
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeRow(f, SheetName, 1, toRow(Header)); err != nil {
		return err
	}
	for i, t := range trades {
		if err := writeRow(f, SheetName, i+2, exportRow(i+1, t)); err != nil {
			return err
		}
	}

	if err := styleJournal(f, SheetName, matchColumns(Header), len(Header), len(trades), st); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// styleJournal formats the numeric columns found in c and finishes the
// sheet.
func styleJournal(f *excelize.File, sheet string, c columns, width, rows int, st styles) error {
	if width > 0 {
		last, err := excelize.CoordinatesToCellName(width, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
			return err
		}
	}
	for col, style := range map[int]int{
		c.tradeNum: st.integer,
		c.lot:      st.lots,
		c.risk:     st.money,
		c.reward:   st.money,
		c.result:   st.money,
		c.equity:   st.money,
	} {
		if err := styleColumn(f, sheet, col, rows, style); err != nil {
			return err
		}
	}
	return finish(f, sheet, width, rows)
}

func writeRow(f *excelize.File, sheet string, n int, row []interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, ref, &row)
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
