package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
)

// SheetNames is the exact sheet order of a full journal workbook.
var SheetNames = []string{
	"Dashboard",
	"Trade_Journal",
	"Stats",
	"Progress",
	"READ ME",
	"1-PAGE GUIDE",
}

const tradeSheet = "Trade_Journal"

// TradeColumns is the header of the Trade_Journal sheet.
var TradeColumns = []string{
	"Date",
	"Session (IST)",
	"Pair",
	"Setup Type",
	"Direction",
	"Entry Price",
	"Stop Loss Price",
	"Take Profit Price",
	"Stop Loss (pips)",
	"Take Profit (pips)",
	"Lot Size",
	"Risk $",
	"Reward $",
	"Result $",
	"Outcome",
	"Rule Followed?",
	"Equity After Trade",
	"Notes",
}

// Trade_Journal column positions.
const (
	wbDate    = 0
	wbSession = 1
	wbPair    = 2
	wbSLPips  = 8
	wbTPPips  = 9
	wbLots    = 10
	wbRisk    = 11
	wbReward  = 12
	wbResult  = 13
	wbOutcome = 14
	wbEquity  = 16
	wbNotes   = 17
)

// ErrLayout is wrapped by every LayoutError.
var ErrLayout = errors.New("workbook layout mismatch")

// LayoutError reports a workbook whose sheets are not exactly SheetNames.
type LayoutError struct {
	Want []string
	Got  []string
}

func (e *LayoutError) Error() string {
	if len(e.Got) != len(e.Want) {
		return fmt.Sprintf("%v: expected %d sheets, found %d", ErrLayout, len(e.Want), len(e.Got))
	}
	for i := range e.Want {
		if e.Got[i] != e.Want[i] {
			return fmt.Sprintf("%v: sheet %d must be %q, found %q", ErrLayout, i+1, e.Want[i], e.Got[i])
		}
	}
	return ErrLayout.Error()
}

func (e *LayoutError) Unwrap() error { return ErrLayout }

// skipMarkers flag instruction rows inside Trade_Journal.
var skipMarkers = []string{"DO NOT EDIT", "⚠️"}

// ExportWorkbook writes the six-sheet journal workbook.
func ExportWorkbook(w io.Writer, s challenge.Settings, trades []journal.Trade) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetNames[0]); err != nil {
		return err
	}
	for _, name := range SheetNames[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	sheets := map[string][][]interface{}{
		"Dashboard":    dashboardRows(s),
		tradeSheet:     tradeRows(s, trades),
		"Stats":        statsRows(trades),
		"Progress":     progressRows(s),
		"READ ME":      readMeRows(),
		"1-PAGE GUIDE": guideRows(s),
	}
	for name, rows := range sheets {
		for i, row := range rows {
			if err := writeRow(f, name, i+1, row); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(TradeColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tradeSheet, "A1", last, st.header); err != nil {
		return err
	}
	for _, col := range []int{wbRisk, wbReward, wbResult, wbEquity} {
		if err := styleColumn(f, tradeSheet, col, len(trades), st.money); err != nil {
			return err
		}
	}
	if err := styleColumn(f, tradeSheet, wbLots, len(trades), st.lots); err != nil {
		return err
	}
	if err := f.SetPanes(tradeSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func dashboardRows(s challenge.Settings) [][]interface{} {
	p1, p2 := s.Targets()
	return [][]interface{}{
		{"ACCOUNT DASHBOARD", ""},
		{"", ""},
		{"Starting Balance ($)", s.AccountBalance},
		{"Fixed SL (pips)", s.StopLossPips},
		{"Default Risk % (editable)", s.RiskPercent / 100},
		{"", ""},
		{fmt.Sprintf("Phase1 Target (%g%%)", p1), journal.Round2(s.AccountBalance * p1 / 100)},
		{fmt.Sprintf("Phase2 Target (%g%%)", p2), journal.Round2(s.AccountBalance * p2 / 100)},
		{"", ""},
		{fmt.Sprintf("Daily Drawdown Limit (%g%%)", s.DailyDrawdownLimit), journal.Round2(s.AccountBalance * s.DailyDrawdownLimit / 100)},
		{"Overall Drawdown Limit (10%)", journal.Round2(s.AccountBalance * 0.1)},
	}
}

func tradeRows(s challenge.Settings, trades []journal.Trade) [][]interface{} {
	rows := [][]interface{}{toRow(TradeColumns)}
	for _, t := range trades {
		row := make([]interface{}, len(TradeColumns))
		for i := range row {
			row[i] = ""
		}
		row[wbDate] = t.Date
		row[wbSession] = string(t.Session)
		row[wbPair] = t.Entry
		row[wbSLPips] = s.StopLossPips
		row[wbTPPips] = s.TakeProfitPips
		row[wbLots] = t.LotSize
		row[wbRisk] = journal.Round2(t.RiskDollars)
		row[wbReward] = journal.Round2(t.RewardDollars)
		row[wbResult] = journal.Round2(t.ResultDollars)
		row[wbOutcome] = string(t.Outcome)
		row[wbEquity] = journal.Round2(t.EquityAfter)
		row[wbNotes] = t.Notes
		rows = append(rows, row)
	}
	return rows
}

func statsRows(trades []journal.Trade) [][]interface{} {
	wins := 0
	for _, t := range trades {
		if t.Outcome == journal.Win {
			wins++
		}
	}
	rate := 0.0
	if len(trades) > 0 {
		rate = float64(wins) / float64(len(trades))
	}
	return [][]interface{}{
		{"Total Trades", len(trades)},
		{"Winning Trades", wins},
		{"Losing Trades", len(trades) - wins},
		{"Win Rate %", rate},
	}
}

func progressRows(s challenge.Settings) [][]interface{} {
	p1, p2 := s.Targets()
	return [][]interface{}{
		{fmt.Sprintf("Phase 1 Target (%g%%)", p1), journal.Round2(s.AccountBalance * p1 / 100)},
		{fmt.Sprintf("Phase 2 Target (%g%%)", p2), journal.Round2(s.AccountBalance * p2 / 100)},
	}
}

func readMeRows() [][]interface{} {
	return [][]interface{}{
		{"⚠️ READ ME FIRST – HOW TO USE THIS TRADING JOURNAL"},
		{""},
		{"EDIT ONLY THESE COLUMNS IN Trade_Journal:"},
		{"Date, Session, Pair, Setup Type, Direction, Entry, SL, TP, SL pips, TP pips, Lot, Outcome, Rule Followed, Notes"},
	}
}

func guideRows(s challenge.Settings) [][]interface{} {
	return [][]interface{}{
		{"XAUUSD TRADING JOURNAL – QUICK GUIDE"},
		{""},
		{fmt.Sprintf("PAIR: XAUUSD | SL: %g pips | TP: %g pips", s.StopLossPips, s.TakeProfitPips)},
	}
}

// ReadWorkbook re-imports a workbook written by ExportWorkbook. The sheet
// list must match SheetNames exactly. Financial fields are returned as
// stored; ids are left empty.
func ReadWorkbook(r io.Reader) ([]journal.Trade, error) {
	br, err := readLimited(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(br)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	got := f.GetSheetList()
	if !sameNames(got, SheetNames) {
		return nil, &LayoutError{Want: SheetNames, Got: got}
	}

	rows, err := f.GetRows(tradeSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", tradeSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrEmptySheet, tradeSheet)
	}

	var trades []journal.Trade
	for _, row := range rows[1:] {
		date := dateText(cell(row, wbDate))
		if date == "" || marked(date) {
			continue
		}
		pair := cell(row, wbPair)
		if pair == "" {
			continue
		}
		sess, ok := journal.ParseSession(cell(row, wbSession))
		if !ok {
			sess = journal.London
		}
		out, ok := journal.ParseOutcome(cell(row, wbOutcome))
		if !ok {
			out = journal.Win
		}
		lots, _ := number(cell(row, wbLots))
		riskAmt, _ := number(cell(row, wbRisk))
		reward, _ := number(cell(row, wbReward))
		result, _ := number(cell(row, wbResult))
		equity, _ := number(cell(row, wbEquity))

		trades = append(trades, journal.Trade{
			Date:          date,
			Session:       sess,
			Entry:         pair,
			LotSize:       lots,
			Outcome:       out,
			Notes:         cell(row, wbNotes),
			RiskDollars:   riskAmt,
			RewardDollars: reward,
			ResultDollars: result,
			EquityAfter:   equity,
		})
	}
	return trades, nil
}

func sameNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func marked(s string) bool {
	for _, m := range skipMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
