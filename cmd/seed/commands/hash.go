package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lendflow/internal/auth"
)

func hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cost") {
				cost = cfg.Auth.BcryptCost
			}
			hash, err := auth.HashPassword(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (defaults to AUTH_BCRYPT_COST)")
	return cmd
}
