package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/register"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a new register session",
	Args:  cobra.NoArgs,
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := newService(s).Open(context.Background())
	if err != nil {
		if errors.Is(err, register.ErrAlreadyOpen) {
			return fmt.Errorf("cannot open: %w", err)
		}
		return fmt.Errorf("open register: %w", err)
	}

	fmt.Printf("✓ Register opened\n\n%s", register.FormatClosure(c))
	return nil
}
