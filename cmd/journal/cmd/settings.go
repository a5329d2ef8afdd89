package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propjournal/challenge"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the challenge settings",
	Long: `Show or change the challenge settings.

Subcommands:
  show     - Print every setting
  set      - Change one numeric setting
  preset   - Pick a risk preset (safe, balanced, aggressive)
  account  - Pick a challenge account size
  type     - Pick the challenge type (two-step, one-step, zero-step)

Examples:
  journal settings set riskPercent 0.75
  journal settings preset safe
  journal settings account 25000
  journal settings type one-step`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE:  withBook(false, runSettingsShow),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one numeric setting",
	Args:  cobra.ExactArgs(2),
	RunE:  withBook(true, runSettingsSet),
}

var settingsPresetCmd = &cobra.Command{
	Use:   "preset <safe|balanced|aggressive>",
	Short: "Pick a risk preset",
	Args:  cobra.ExactArgs(1),
	RunE:  withBook(true, runSettingsPreset),
}

var settingsAccountCmd = &cobra.Command{
	Use:   "account <size>",
	Short: "Pick a challenge account size",
	Args:  cobra.ExactArgs(1),
	RunE:  withBook(true, runSettingsAccount),
}

var settingsTypeCmd = &cobra.Command{
	Use:   "type <two-step|one-step|zero-step>",
	Short: "Pick the challenge type and reset its phase targets",
	Args:  cobra.ExactArgs(1),
	RunE:  withBook(true, runSettingsType),
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPresetCmd)
	settingsCmd.AddCommand(settingsAccountCmd)
	settingsCmd.AddCommand(settingsTypeCmd)
}

func printSettings(w io.Writer, s challenge.Settings) {
	fmt.Fprintf(w, "%-22s %s\n", "challengeType", s.Type())
	fmt.Fprintf(w, "%-22s %s\n", "riskPreset", s.RiskPreset)
	for _, k := range challenge.Keys {
		fmt.Fprintf(w, "%-22s %s\n", k, strconv.FormatFloat(s.Value(k), 'f', -1, 64))
	}
}

func runSettingsShow(cmd *cobra.Command, args []string, a *app) error {
	printSettings(cmd.OutOrStdout(), a.book.Settings())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string, a *app) error {
	key, err := challenge.ParseKey(args[0])
	if err != nil {
		return err
	}
	applied, err := a.book.SetSetting(key, args[1])
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", key)
		return nil
	}

	msg := ""
	if key.TriggersRecalc() {
		msg = fmt.Sprintf(" (%d trades recalculated)", a.book.Len())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s%s\n", key, strconv.FormatFloat(a.book.Settings().Value(key), 'f', -1, 64), msg)
	return nil
}

func runSettingsPreset(cmd *cobra.Command, args []string, a *app) error {
	if err := a.book.SetPreset(args[0]); err != nil {
		return err
	}
	s := a.book.Settings()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ risk preset %s (%g%%)\n", s.RiskPreset, s.RiskPercent)
	return nil
}

func runSettingsAccount(cmd *cobra.Command, args []string, a *app) error {
	size, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return fmt.Errorf("account size: %w", err)
	}
	if !offered(size) {
		sizes := make([]string, len(challenge.AccountSizes))
		for i, s := range challenge.AccountSizes {
			sizes[i] = strconv.FormatFloat(s, 'f', -1, 64)
		}
		return fmt.Errorf("account size must be one of %s", strings.Join(sizes, ", "))
	}
	if err := a.book.SetAccountSize(size); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ account size %s\n", strconv.FormatFloat(size, 'f', -1, 64))
	return nil
}

func offered(size float64) bool {
	for _, s := range challenge.AccountSizes {
		if s == size {
			return true
		}
	}
	return false
}

func runSettingsType(cmd *cobra.Command, args []string, a *app) error {
	t, err := challenge.ParseType(args[0])
	if err != nil {
		return err
	}
	a.book.SetChallengeType(t)
	p1, p2 := a.book.Settings().Targets()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ challenge type %s (targets %g%% / %g%%)\n", t, p1, p2)
	return nil
}
