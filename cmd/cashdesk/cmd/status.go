package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/register"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current register with live totals",
	Long: `Show the register for the current business period.

If a register is open its totals are aggregated live from the period's
transactions. If none is open, the most recent closed register is shown
together with the reason a new one has not been opened (already closed
today, or the previous day is still inside its grace period).`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	v, err := newService(s).Current(context.Background())
	if err != nil {
		return fmt.Errorf("get current register: %w", err)
	}

	fmt.Println(register.FormatView(v))
	return nil
}
