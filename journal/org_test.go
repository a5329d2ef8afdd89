package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/propjournal/pkg/id"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := Trade{
		ID:            "01HV3K8Q9ZABCDEF",
		Date:          "2024-03-15",
		Session:       NewYork,
		Entry:         "XAUUSD",
		LotSize:       0.03,
		Outcome:       Win,
		Notes:         "Clean break and retest",
		RiskDollars:   50,
		RewardDollars: 120,
		ResultDollars: 120,
		EquityAfter:   10120,
	}

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** Trade: XAUUSD Win (01HV3K8Q)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HV3K8Q9ZABCDEF")
	assert.Contains(t, result, ":DATE: 2024-03-15")
	assert.Contains(t, result, ":SESSION: New York")
	assert.Contains(t, result, ":LOT_SIZE: 0.03")
	assert.Contains(t, result, ":RISK: 50.00")
	assert.Contains(t, result, ":REWARD: 120.00")
	assert.Contains(t, result, ":RESULT: 120.00")
	assert.Contains(t, result, ":EQUITY_AFTER: 10120.00")
	assert.Contains(t, result, ":PHASE: Challenge")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "Clean break and retest")

	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgLossInMaster(t *testing.T) {
	t.Parallel()

	trade := Trade{
		ID:            "loss",
		Entry:         "EURUSD",
		LotSize:       1,
		Outcome:       Loss,
		RiskDollars:   50.6,
		ResultDollars: -50.6,
		EquityAfter:   9949.4,
		IsMasterPhase: true,
	}

	result := FormatTradeOrg(trade)
	assert.Contains(t, result, "** Trade: EURUSD Loss (loss)")
	assert.Contains(t, result, ":RESULT: -50.60")
	assert.Contains(t, result, ":LOT_SIZE: 1\n")
	assert.Contains(t, result, ":PHASE: Master")
	assert.NotContains(t, result, ":CREATED:")
}

func TestFormatTradeOrgCreated(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	result := FormatTradeOrg(Trade{ID: id.At(at), Entry: "XAUUSD", Outcome: Win})
	assert.Contains(t, result, ":CREATED: [2024-03-15 Fri 14:30]\n")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{ID: "trade-001", Entry: "EURUSD", LotSize: 0.1, Outcome: Win},
		{ID: "trade-002", Entry: "GBPUSD", LotSize: 0.2, Outcome: Loss},
	}

	result := FormatTradesOrg(trades)

	assert.Contains(t, result, "EURUSD")
	assert.Contains(t, result, "GBPUSD")
	assert.Contains(t, result, "trade-001")
	assert.Contains(t, result, "trade-002")

	parts := strings.Split(result, "\n\n\n")
	assert.Len(t, parts, 2, "Expected two trades separated by blank lines")
}

func TestFormatTradesOrgEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))
}

func TestFormatTradesOrgSingle(t *testing.T) {
	t.Parallel()

	result := FormatTradesOrg([]Trade{{ID: "single", Entry: "USDCAD", Outcome: Win}})

	assert.Contains(t, result, "USDCAD")
	assert.NotContains(t, result, "\n\n\n")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"long ID gets truncated", "01HV3K8Q9ZABCDEF", "01HV3K8Q"},
		{"exactly 8 characters", "12345678", "12345678"},
		{"less than 8 characters", "short", "short"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, shortID(tt.input))
		})
	}
}
