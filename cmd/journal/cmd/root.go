package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/propjournal/config"
	"github.com/rustyeddy/propjournal/internal/logging"
	"github.com/rustyeddy/propjournal/journal"
	"github.com/rustyeddy/propjournal/store"
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "A prop-firm challenge trading journal",
	Long: `Journal tracks trades against a funded-account challenge.

It provides tools for:
  - Logging trades and re-deriving the equity chain on every edit
  - Phase targets for two-step, one-step and zero-step challenges
  - Risk-based lot sizing
  - Dashboard metrics and an equity curve
  - Spreadsheet export, append and import (xlsx, CSV)`,
	SilenceUsage: true,
}

var (
	cfgFile     string
	backendFlag string
	storeFlag   string
	logLevel    string
)

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/propjournal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "storage path: a directory for file, a database for sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// app is the loaded journal a command works on.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	slots store.Slots
	book  *journal.Book

	closers []io.Closer
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Storage.Backend = backendFlag
		if storeFlag == "" && backendFlag == string(store.BackendSQLite) && cfg.Storage.Path == config.Default().Storage.Path {
			cfg.Storage.Path = filepath.Join(config.DefaultDir(), "journal.db")
		}
	}
	if storeFlag != "" {
		cfg.Storage.Path = storeFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, logCloser := logging.New(cfg.Log, cmd.ErrOrStderr())
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	slots, err := store.Open(store.Backend(cfg.Storage.Backend), cfg.Storage.Path)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.slots = slots
	a.closers = append(a.closers, slots)

	st, err := store.Load(cmd.Context(), slots, cfg.Defaults)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("load journal: %w", err)
	}
	for _, w := range st.Warnings {
		log.Warn().Str("backend", cfg.Storage.Backend).Msg(w)
	}

	a.book = journal.NewBook(st.Settings, st.Trades, journal.WithLogger(log))
	log.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("path", cfg.Storage.Path).
		Int("trades", a.book.Len()).
		Msg("journal loaded")
	return a, nil
}

func (a *app) save(ctx context.Context) error {
	if err := store.Save(ctx, a.slots, a.book.Settings(), a.book.Trades()); err != nil {
		a.log.Warn().Err(err).Msg("saving journal failed")
		return fmt.Errorf("save journal: %w", err)
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// withBook loads the journal, runs fn and, when mutates is set, writes the
// settings and ledger back.
func withBook(mutates bool, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := fn(cmd, args, a); err != nil {
			return err
		}
		if mutates {
			return a.save(cmd.Context())
		}
		return nil
	}
}
