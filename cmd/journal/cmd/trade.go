package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/market"
	"github.com/rustyeddy/propjournal/risk"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record and edit trades",
	Long: `Record, edit and inspect ledger trades.

Every change re-derives the risk, reward, result and equity of the
affected trades and of every trade after them.

Examples:
  journal trade add --entry XAUUSD --lots 0.03 --outcome win
  journal trade edit 01HX3K outcome loss
  journal trade list
  journal trade show 01HX3K`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a trade to the ledger",
	Args:  cobra.NoArgs,
	RunE:  withBook(true, runTradeAdd),
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <trade-id> <field> <value>",
	Short: "Change one field of a trade (date, session, entry, lotSize, outcome, notes)",
	Args:  cobra.ExactArgs(3),
	RunE:  withBook(true, runTradeEdit),
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  withBook(true, runTradeDelete),
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the ledger",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runTradeList),
}

var tradeShowCmd = &cobra.Command{
	Use:   "show [trade-id]",
	Short: "Print trades as Org-mode entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withBook(false, runTradeShow),
}

var tradeSymbolsCmd = &cobra.Command{
	Use:   "symbols [text]",
	Short: "Suggest instrument symbols",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTradeSymbols,
}

var tradeNotesCmd = &cobra.Command{
	Use:   "notes [text]",
	Short: "Suggest canned trade notes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTradeNotes,
}

var tradeInput journal.Input

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeEditCmd)
	tradeCmd.AddCommand(tradeDeleteCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeShowCmd)
	tradeCmd.AddCommand(tradeSymbolsCmd)
	tradeCmd.AddCommand(tradeNotesCmd)

	f := tradeAddCmd.Flags()
	f.StringVar(&tradeInput.Date, "date", "", "trade date (default today)")
	f.StringVar(&tradeInput.Session, "session", string(journal.London), "Asian, London, New York or Overlap")
	f.StringVar(&tradeInput.Entry, "entry", market.DefaultInstrument, "instrument traded")
	f.StringVar(&tradeInput.LotSize, "lots", "", "lot size (default the suggested size)")
	f.StringVar(&tradeInput.Outcome, "outcome", string(journal.Win), "Win or Loss")
	f.StringVar(&tradeInput.Notes, "notes", "", "free-form notes")
}

func runTradeAdd(cmd *cobra.Command, args []string, a *app) error {
	in := tradeInput
	if strings.TrimSpace(in.Date) == "" {
		in.Date = time.Now().Format("2006-01-02")
	}
	if strings.TrimSpace(in.LotSize) == "" {
		s := a.book.Settings()
		in.LotSize = risk.Calculate(risk.Inputs{
			Equity:         a.book.CurrentEquity(),
			RiskPct:        s.RiskPercent,
			StopLossPips:   s.StopLossPips,
			TakeProfitPips: s.TakeProfitPips,
		}).SuggestedLotSize
	}

	t, err := a.book.Add(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s %s %s lots %s: %s → equity %s\n",
		t.ID, t.Entry, journal.FormatLots(t.LotSize), t.Outcome,
		journal.Money(t.ResultDollars), journal.Money(t.EquityAfter))
	return nil
}

func runTradeEdit(cmd *cobra.Command, args []string, a *app) error {
	field, err := journal.ParseField(args[1])
	if err != nil {
		return err
	}
	t, err := a.book.Update(args[0], field, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s %s → equity %s\n", t.ID, field, journal.Money(t.EquityAfter))
	return nil
}

func runTradeDelete(cmd *cobra.Command, args []string, a *app) error {
	t, err := a.book.Delete(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s (%s %s), %d trades left\n", t.ID, t.Date, t.Entry, a.book.Len())
	return nil
}

func runTradeList(cmd *cobra.Command, args []string, a *app) error {
	trades := a.book.Trades()
	if len(trades) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trades yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tID\tDate\tSession\tEntry\tLots\tOutcome\tResult $\tEquity $\tPhase\t")
	for i, t := range trades {
		phase := "Challenge"
		if t.IsMasterPhase {
			phase = "Master"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1, t.ID, t.Date, t.Session, t.Entry, journal.FormatLots(t.LotSize),
			t.Outcome, journal.Money(t.ResultDollars), journal.Money(t.EquityAfter), phase)
	}
	return tw.Flush()
}

func runTradeShow(cmd *cobra.Command, args []string, a *app) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(a.book.Trades()))
		return nil
	}
	t, _, err := a.book.Find(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
	return nil
}

func runTradeSymbols(cmd *cobra.Command, args []string) error {
	q := ""
	if len(args) > 0 {
		q = args[0]
	}
	for _, sym := range market.Suggest(q) {
		fmt.Fprintln(cmd.OutOrStdout(), sym)
	}
	return nil
}

func runTradeNotes(cmd *cobra.Command, args []string) error {
	q := ""
	if len(args) > 0 {
		q = args[0]
	}
	for _, n := range market.SuggestNote(q) {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
