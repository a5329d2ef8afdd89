package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/sheet"
)

// WorkbookFileName is the default name of a six-sheet workbook export.
const WorkbookFileName = "XAUUSD_TRADING_JOURNAL_WORKBOOK.xlsx"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger to a spreadsheet",
	Long: `Write the ledger to a spreadsheet file.

Subcommands:
  csv       - One quoted line per trade
  xlsx      - A fresh single-sheet journal
  workbook  - The six-sheet journal workbook

Files are written to the export directory unless --out is given.`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export the ledger as CSV",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runExportCSV),
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Export the ledger as a new xlsx journal",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runExportXLSX),
}

var exportWorkbookCmd = &cobra.Command{
	Use:   "workbook",
	Short: "Export the six-sheet journal workbook",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runExportWorkbook),
}

var appendCmd = &cobra.Command{
	Use:   "append <file.xlsx>",
	Short: "Add the ledger's new trades to an existing xlsx journal",
	Long: `Read an existing journal, add every ledger trade whose date, entry and
lot size are not already in it, renumber all rows and write the result.

Example:
  journal append ~/Downloads/XAUUSD_ULTIMATE_TRADING_JOURNAL.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: withBook(false, runAppend),
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import trades from a spreadsheet",
	Long: `Import trades from the first sheet of a workbook. Columns are matched
by name; Date and Entry are required. Imported trades are re-derived
under the current settings.

With --workbook the file must be a six-sheet journal workbook and trades
are read from its Trade_Journal sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: withBook(true, runImport),
}

var (
	exportOut      string
	importWorkbook bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportXLSXCmd)
	exportCmd.AddCommand(exportWorkbookCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "output file path")
	appendCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file path (default <export dir>/"+sheet.FileName+")")
	importCmd.Flags().BoolVar(&importWorkbook, "workbook", false, "strict six-sheet workbook import")
}

func outPath(a *app, name string) string {
	if exportOut != "" {
		return exportOut
	}
	return filepath.Join(a.cfg.Export.Dir, name)
}

// writeFile replaces path atomically with what write produces.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func runExportCSV(cmd *cobra.Command, args []string, a *app) error {
	path := outPath(a, sheet.CSVFileName(time.Now()))
	trades := a.book.Trades()
	if err := writeFile(path, func(w io.Writer) error { return sheet.ExportCSV(w, trades) }); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), path)
	return nil
}

func runExportXLSX(cmd *cobra.Command, args []string, a *app) error {
	trades := a.book.Trades()
	if len(trades) == 0 {
		return fmt.Errorf("export xlsx: %w", sheet.ErrNoTrades)
	}
	path := outPath(a, sheet.FileName)
	if err := writeFile(path, func(w io.Writer) error { return sheet.ExportXLSX(w, trades) }); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), path)
	return nil
}

func runExportWorkbook(cmd *cobra.Command, args []string, a *app) error {
	trades := a.book.Trades()
	path := outPath(a, WorkbookFileName)
	if err := writeFile(path, func(w io.Writer) error { return sheet.ExportWorkbook(w, a.book.Settings(), trades) }); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), path)
	return nil
}

func runAppend(cmd *cobra.Command, args []string, a *app) error {
	trades := a.book.Trades()
	if len(trades) == 0 {
		return fmt.Errorf("append: %w", sheet.ErrNoTrades)
	}

	src, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	defer src.Close()

	path := outPath(a, sheet.FileName)
	var res sheet.AppendResult
	err = writeFile(path, func(w io.Writer) error {
		var err error
		res, err = sheet.Append(src, trades, w)
		return err
	})
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %d new trade(s), %d total, written to %s\n", res.Added, res.Total, path)
	return nil
}

func runImport(cmd *cobra.Command, args []string, a *app) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	var trades []journal.Trade
	skipped := 0
	if importWorkbook {
		trades, err = sheet.ReadWorkbook(f)
	} else {
		var res sheet.ImportResult
		res, err = sheet.Import(f, a.book.Settings(), a.book.Trades())
		trades, skipped = res.Trades, res.Skipped
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	added, truncated, err := a.book.Import(trades)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Imported %d trade(s)\n", added)
	if skipped > 0 {
		fmt.Fprintf(w, "  %d row(s) skipped for missing date or entry\n", skipped)
	}
	if truncated > 0 {
		fmt.Fprintf(w, "  %d trade(s) dropped at the %d-trade limit\n", truncated, journal.MaxTrades)
	}
	return nil
}
