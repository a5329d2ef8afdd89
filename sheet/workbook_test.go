package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
)

func TestWorkbookRoundTrip(t *testing.T) {
	t.Parallel()

	s := challenge.Default()
	trades := ledger(t, 4)

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(&buf, s, trades))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, SheetNames, f.GetSheetList())
	header, err := f.GetRows(tradeSheet)
	require.NoError(t, err)
	assert.Equal(t, TradeColumns, header[0])
	require.NoError(t, f.Close())

	got, err := ReadWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(trades))
	for i, tr := range got {
		want := trades[i]
		assert.Equal(t, want.Date, tr.Date)
		assert.Equal(t, want.Session, tr.Session)
		assert.Equal(t, want.Entry, tr.Entry)
		assert.Equal(t, want.Outcome, tr.Outcome)
		assert.InDelta(t, want.LotSize, tr.LotSize, 1e-9)
		assert.InDelta(t, want.EquityAfter, tr.EquityAfter, 0.01)
		assert.InDelta(t, want.ResultDollars, tr.ResultDollars, 0.01)
		assert.Equal(t, want.Notes, tr.Notes)
	}
}

func TestReadWorkbookSkipsMarkerRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(&buf, challenge.Default(), ledger(t, 2)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	require.NoError(t, writeRow(f, tradeSheet, 4, []interface{}{"⚠️ DO NOT EDIT BELOW THIS LINE"}))
	require.NoError(t, writeRow(f, tradeSheet, 5, []interface{}{"", "London", "XAUUSD"}))
	require.NoError(t, writeRow(f, tradeSheet, 6, []interface{}{"2024-06-01", "London", ""}))
	var out bytes.Buffer
	require.NoError(t, f.Write(&out))
	require.NoError(t, f.Close())

	got, err := ReadWorkbook(&out)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadWorkbookLayout(t *testing.T) {
	t.Parallel()

	var single bytes.Buffer
	require.NoError(t, ExportXLSX(&single, ledger(t, 1)))

	_, err := ReadWorkbook(&single)
	var le *LayoutError
	require.True(t, errors.As(err, &le))
	assert.ErrorIs(t, err, ErrLayout)
	assert.Equal(t, []string{SheetName}, le.Got)
	assert.Contains(t, err.Error(), "expected 6 sheets, found 1")

	var full bytes.Buffer
	require.NoError(t, ExportWorkbook(&full, challenge.Default(), ledger(t, 1)))
	f, err := excelize.OpenReader(&full)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetName("Stats", "Statistics"))
	var renamed bytes.Buffer
	require.NoError(t, f.Write(&renamed))
	require.NoError(t, f.Close())

	_, err = ReadWorkbook(&renamed)
	assert.ErrorIs(t, err, ErrLayout)
	assert.Contains(t, err.Error(), `sheet 3 must be "Stats", found "Statistics"`)
}

func TestReadWorkbookNoRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(&buf, challenge.Default(), nil))

	_, err := ReadWorkbook(&buf)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	trades := []journal.Trade{
		{
			Date: "2024-05-01", Session: journal.NewYork, Entry: "XAUUSD", LotSize: 0.03,
			Outcome: journal.Win, Notes: `said "hold", then closed`,
			RiskDollars: 50, RewardDollars: 120, ResultDollars: 120, EquityAfter: 10120,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, trades))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Session,Entry,Lot Size,Outcome,Risk $,Reward $,Result $,Equity After,Notes", lines[0])
	assert.Equal(t, `"2024-05-01","New York","XAUUSD","0.03","Win","50.00","120.00","120.00","10120.00","said ""hold"", then closed"`, lines[1])

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `said "hold", then closed`, records[1][9])
}

func TestCSVFileName(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "fundingpips-trades-2024-05-01.csv", CSVFileName(day))
}
