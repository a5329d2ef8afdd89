package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/propjournal/pkg/id"
)

// FormatTradeOrg renders a trade as an Org-mode block for pasting into a
// written journal. Structured facts go in a PROPERTIES drawer for search;
// the narrative headings are left for the trader to fill in.
func FormatTradeOrg(t Trade) string {
	phase := "Challenge"
	if t.IsMasterPhase {
		phase = "Master"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Entry, t.Outcome, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	if at, ok := id.Time(t.ID); ok {
		fmt.Fprintf(&b, ":CREATED: [%s]\n", at.UTC().Format("2006-01-02 Mon 15:04"))
	}
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date)
	fmt.Fprintf(&b, ":SESSION: %s\n", t.Session)
	fmt.Fprintf(&b, ":ENTRY: %s\n", t.Entry)
	fmt.Fprintf(&b, ":LOT_SIZE: %s\n", FormatLots(t.LotSize))
	fmt.Fprintf(&b, ":OUTCOME: %s\n", t.Outcome)
	fmt.Fprintf(&b, ":RISK: %s\n", Money(t.RiskDollars))
	fmt.Fprintf(&b, ":REWARD: %s\n", Money(t.RewardDollars))
	fmt.Fprintf(&b, ":RESULT: %s\n", Money(t.ResultDollars))
	fmt.Fprintf(&b, ":EQUITY_AFTER: %s\n", Money(t.EquityAfter))
	fmt.Fprintf(&b, ":PHASE: %s\n", phase)
	b.WriteString(":END:\n\n")
	if t.Notes != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Notes)
	}
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
