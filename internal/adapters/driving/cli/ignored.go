package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

var ignoredJSON bool

var ignoredCmd = &cobra.Command{
	Use:   "ignored",
	Short: "Manage ignored errors",
	Long: `Errors you ignore are remembered by rule and text, and are hidden
from every later check until the list is cleared.`,
	RunE: runIgnoredList,
}

var ignoredListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ignored errors, most recent first",
	RunE:  runIgnoredList,
}

var ignoredAddCmd = &cobra.Command{
	Use:   "add <rule-id> <text>",
	Short: "Ignore an error by rule and text",
	Long: `Ignore every error reported by rule-id whose text matches text.
Use "unknown-rule" for errors reported without a rule.`,
	Args: cobra.ExactArgs(2),
	RunE: runIgnoredAdd,
}

var ignoredClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every ignored error",
	RunE:  runIgnoredClear,
}

func init() {
	ignoredListCmd.Flags().BoolVar(&ignoredJSON, "json", false, "output as JSON")
	ignoredCmd.AddCommand(ignoredListCmd)
	ignoredCmd.AddCommand(ignoredAddCmd)
	ignoredCmd.AddCommand(ignoredClearCmd)
	rootCmd.AddCommand(ignoredCmd)
}

func ledger(cmd *cobra.Command) (driving.LedgerService, error) {
	svc, err := services(cmd.Context())
	if err != nil {
		return nil, err
	}
	if svc.Ledger == nil {
		return nil, ErrNotConfigured
	}
	return svc.Ledger, nil
}

func runIgnoredList(cmd *cobra.Command, _ []string) error {
	l, err := ledger(cmd)
	if err != nil {
		return err
	}
	entries := l.Entries()

	if ignoredJSON {
		return outputIgnoredJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No ignored errors.")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%-30s %q  (%s)\n", e.RuleID, e.Text, e.Timestamp.Local().Format(time.DateTime))
	}
	cmd.Printf("\n%d ignored\n", len(entries))
	return nil
}

type ignoredEntry struct {
	RuleID    string    `json:"ruleId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func outputIgnoredJSON(cmd *cobra.Command, entries []domain.SuppressionEntry) error {
	out := make([]ignoredEntry, len(entries))
	for i, e := range entries {
		out[i] = ignoredEntry{RuleID: e.RuleID, Text: e.Text, Timestamp: e.Timestamp}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ignored errors: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runIgnoredAdd(cmd *cobra.Command, args []string) error {
	l, err := ledger(cmd)
	if err != nil {
		return err
	}
	if err := l.Add(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("ignoring error: %w", err)
	}
	cmd.Printf("Ignoring %s %q\n", args[0], args[1])
	return nil
}

func runIgnoredClear(cmd *cobra.Command, _ []string) error {
	l, err := ledger(cmd)
	if err != nil {
		return err
	}
	n := l.Count()
	if err := l.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing ignored errors: %w", err)
	}
	cmd.Printf("Cleared %d ignored errors.\n", n)
	return nil
}
