package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lendflow/internal/database"
	"lendflow/internal/database/migration"
	"lendflow/internal/repository/postgres"
	"lendflow/internal/seed"
)

func loadCmd() *cobra.Command {
	var (
		file    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a fixture into PostgreSQL (the bundled demo when --file is empty)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture := seed.Default()
			if file != "" {
				f, err := seed.ParseFile(file)
				if err != nil {
					return err
				}
				fixture = f
			}

			ctx := cmd.Context()
			db, err := database.NewPostgres(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
					return err
				}
			}

			res, err := seed.NewLoader(postgres.NewSet(db), cfg.Auth.BcryptCost, nil).Load(ctx, fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d lenders, %d rules, %d applications\n",
				res.Users, res.Lenders, res.Rules, res.Applications)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture YAML file")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply migrations before loading")
	return cmd
}
