package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/register"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the open register session",
	Long: `Close the open register, freezing its per-payment-method totals.

The totals cover the register's own lifetime, from the moment it was
opened until now.`,
	Args: cobra.NoArgs,
	RunE: runClose,
}

var closeOperator string

func init() {
	rootCmd.AddCommand(closeCmd)

	closeCmd.Flags().StringVarP(&closeOperator, "operator", "o", "", "operator id recorded on the closure")
}

func runClose(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := newService(s).Close(context.Background(), closeOperator)
	if err != nil {
		if errors.Is(err, register.ErrNoOpenClosure) {
			return fmt.Errorf("cannot close: %w", err)
		}
		return fmt.Errorf("close register: %w", err)
	}

	fmt.Printf("✓ Register closed\n\n%s", register.FormatClosure(c))
	return nil
}
