// Package commands implements the seed CLI: loading fixtures into PostgreSQL
// and hashing passwords for hand-written fixtures.
package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lendflow/internal/config"
	"lendflow/internal/logging"
)

var (
	cfg *config.AppConfig
	log *logrus.Logger
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the LendFlow marketplace",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			log = logging.New(cmd.ErrOrStderr(), cfg.Location(), cfg.LogLevel)
			return nil
		},
	}

	root.AddCommand(loadCmd(), hashPasswordCmd())
	return root
}
