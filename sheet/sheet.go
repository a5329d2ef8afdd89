// Package sheet moves the ledger in and out of spreadsheet files: a
// single-sheet xlsx journal (create, append, import), a strict six-sheet
// workbook, and CSV.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/propjournal/journal"
)

// FileName is the name every xlsx export and append is written under.
const FileName = "XAUUSD_ULTIMATE_TRADING_JOURNAL.xlsx"

// SheetName is the sheet a fresh export writes.
const SheetName = "Trading Journal"

// MaxFileSize bounds the spreadsheets accepted for append and import.
const MaxFileSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds 10MB limit")
	ErrNoSheets        = errors.New("workbook has no sheets")
	ErrEmptySheet      = errors.New("sheet is empty")
	ErrNoTrades        = errors.New("no trades")
	ErrNothingToAppend = errors.New("no new trades to add, all trades already exist in the file")
	ErrNoValidRows     = errors.New("no valid trades found")
	errMissingRequired = errors.New("spreadsheet must contain 'Date' and 'Entry' columns")
)

// MissingColumnsError reports a sheet without the required Date or Entry
// column.
type MissingColumnsError struct {
	Found []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%v; found columns: %s", errMissingRequired, strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return errMissingRequired }

// Header is the column layout of an exported journal sheet.
var Header = []string{
	"Trade #", "Date", "Session", "Entry", "Lot Size", "Outcome",
	"Risk $", "Reward $", "Result $", "Equity After", "Notes",
}

var colWidths = []float64{8, 11, 10, 10, 9, 10, 15, 15, 15, 15, 40}

// columns holds the position of each recognised header, -1 when absent.
type columns struct {
	tradeNum, date, entry, lot, session, outcome, notes int
	risk, reward, result, equity                        int
}

// matchColumns finds columns by case-insensitive substring, first match
// wins.
func matchColumns(header []string) columns {
	c := columns{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	set := func(p *int, i int) {
		if *p < 0 {
			*p = i
		}
	}
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		if h == "" {
			continue
		}
		trade := strings.Contains(h, "trade")
		if trade && (strings.Contains(h, "#") || strings.Contains(h, "num") || strings.Contains(h, "count")) {
			set(&c.tradeNum, i)
		}
		if strings.Contains(h, "date") && !trade {
			set(&c.date, i)
		}
		if strings.Contains(h, "entry") {
			set(&c.entry, i)
		}
		if (strings.Contains(h, "lot") || strings.Contains(h, "size")) && !trade {
			set(&c.lot, i)
		}
		if strings.Contains(h, "session") {
			set(&c.session, i)
		}
		if strings.Contains(h, "outcome") {
			set(&c.outcome, i)
		}
		if strings.Contains(h, "note") {
			set(&c.notes, i)
		}
		if strings.Contains(h, "risk") {
			set(&c.risk, i)
		}
		if strings.Contains(h, "reward") {
			set(&c.reward, i)
		}
		if strings.Contains(h, "result") {
			set(&c.result, i)
		}
		if strings.Contains(h, "equity") {
			set(&c.equity, i)
		}
	}
	return c
}

func (c columns) require(header []string) error {
	if c.date < 0 || c.entry < 0 {
		found := make([]string, 0, len(header))
		for _, h := range header {
			if h = strings.TrimSpace(h); h != "" {
				found = append(found, h)
			}
		}
		return &MissingColumnsError{Found: found}
	}
	return nil
}

// cell returns the trimmed text at i, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric cell, tolerating thousands separators and a
// currency sign.
func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "").Replace(s)
	if s == "" {
		return 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// dateText normalises a date cell. Raw cells hold date-formatted values
// as Excel serial numbers; those become ISO dates.
func dateText(s string) string {
	s = strings.TrimSpace(s)
	if x, ok := number(s); ok && x > 59 && x < 2958466 && !strings.ContainsAny(s, "-/") {
		if t, err := excelize.ExcelDateToTime(x, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// lotText normalises a lot size cell so "0.030" and "0.03" compare equal.
func lotText(s string) string {
	if x, ok := number(s); ok {
		return journal.FormatLots(x)
	}
	return strings.TrimSpace(s)
}

func rowKey(row []string, c columns) string {
	return journal.DedupKey(dateText(cell(row, c.date)), cell(row, c.entry), lotText(cell(row, c.lot)))
}

// readLimited buffers r, failing once it exceeds MaxFileSize.
func readLimited(r io.Reader) (*bytes.Reader, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return bytes.NewReader(b), nil
}

// openFirstSheet opens a workbook and returns the name and raw rows of its
// first sheet.
func openFirstSheet(r io.Reader) (*excelize.File, string, [][]string, error) {
	br, err := readLimited(r)
	if err != nil {
		return nil, "", nil, err
	}
	f, err := excelize.OpenReader(br)
	if err != nil {
		return nil, "", nil, fmt.Errorf("read workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		f.Close()
		return nil, "", nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		f.Close()
		return nil, "", nil, fmt.Errorf("%w: %s", ErrEmptySheet, sheets[0])
	}
	return f, sheets[0], rows, nil
}

// styles are the formats applied to journal sheets.
type styles struct {
	header, integer, lots, money int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, err
	}
	if st.integer, err = f.NewStyle(&excelize.Style{NumFmt: 1}); err != nil {
		return st, err
	}
	if st.lots, err = f.NewStyle(&excelize.Style{NumFmt: 2}); err != nil {
		return st, err
	}
	st.money, err = f.NewStyle(&excelize.Style{NumFmt: 4})
	return st, err
}

// finish applies widths, the frozen header and the autofilter to a
// journal sheet with a header row plus rows data rows.
func finish(f *excelize.File, sheet string, width, rows int) error {
	for i, w := range colWidths {
		if i >= width {
			break
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if rows == 0 || width == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(width, rows+1)
	if err != nil {
		return err
	}
	return f.AutoFilter(sheet, "A1:"+last, []excelize.AutoFilterOptions{})
}

func styleColumn(f *excelize.File, sheet string, col, rows, style int) error {
	if col < 0 || rows == 0 {
		return nil
	}
	top, err := excelize.CoordinatesToCellName(col+1, 2)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col+1, rows+1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, top, bottom, style)
}
