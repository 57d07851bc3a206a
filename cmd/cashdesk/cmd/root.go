package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/config"
	"github.com/rustyeddy/cashdesk/logger"
	"github.com/rustyeddy/cashdesk/register"
	"github.com/rustyeddy/cashdesk/store"
)

var rootCmd = &cobra.Command{
	Use:   "cashdesk",
	Short: "Cash-register closure tracking for the back office",
	Long: `Cashdesk manages the daily cash-register accounting cycle.

It provides tools for:
  - Opening and closing the daily register session
  - Viewing the open register with live per-payment-method totals
  - Recording and listing transactions
  - Browsing the history of closed registers
  - Running the automatic open/close scheduler

The business day rolls over at a configurable cutoff (18:00 local by
default) rather than at midnight.`,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgPath string
	cfg     *config.Config
	log     zerolog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON); defaults apply when omitted")
}

func setup(cmd *cobra.Command, args []string) error {
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	log = logger.New(cfg.Log.Level)
	return nil
}

func openStore() (*store.SQLite, error) {
	s, err := store.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

func newService(s *store.SQLite) *register.Service {
	return register.New(s, s, s, register.Settings{
		Cutoff:   cfg.Cutoff(),
		OpenHour: cfg.Register.OpenHour,
		Window:   cfg.DispatchWindow(),
	}, log)
}
