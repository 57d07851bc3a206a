package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/register"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List closed register sessions, newest first",
	Long: `List closed registers with their frozen totals.

Examples:
  cashdesk history
  cashdesk history --page 2 --per-page 10
  cashdesk history --from 2025-03-01 --to 2025-04-01`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyPage    int
	historyPerPage int
	historyFrom    string
	historyTo      string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyPage, "page", 1, "page number (1-based)")
	historyCmd.Flags().IntVar(&historyPerPage, "per-page", 20, "closures per page")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "only closures closed on or after this date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "only closures closed before this date (YYYY-MM-DD)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var filter register.Filter
	loc := cfg.Cutoff().Location

	if historyFrom != "" {
		t, err := time.ParseInLocation("2006-01-02", historyFrom, loc)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
		filter.ClosedFrom = t
	}
	if historyTo != "" {
		t, err := time.ParseInLocation("2006-01-02", historyTo, loc)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
		filter.ClosedTo = t
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	items, total, err := newService(s).History(context.Background(), filter, historyPage, historyPerPage)
	if err != nil {
		return fmt.Errorf("list closures: %w", err)
	}

	if total == 0 {
		fmt.Println("No closed registers.")
		return nil
	}

	for i := range items {
		fmt.Println(register.FormatClosure(&items[i]))
	}
	fmt.Printf("Page %d, %d of %d closures\n", historyPage, len(items), total)
	return nil
}
