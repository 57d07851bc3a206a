package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the automatic open/close scheduler",
	Long: `Poll the register on a fixed interval and fire the automatic close
(after the cutoff) and automatic open (after the open hour) inside
their dispatch windows. Runs until interrupted.

Example:
  cashdesk watch --interval 5m`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Minute, "poll interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching register (cutoff %02d:%02d %s, open %02d:00, every %s)\n",
		cfg.Register.CutoffHour, cfg.Register.CutoffMinute, cfg.Register.Timezone,
		cfg.Register.OpenHour, watchInterval)

	trg := schedule.New(newService(s), watchInterval, log)
	if err := trg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}
