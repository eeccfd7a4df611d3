package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artem13815/portfolio/pkg/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := postgres.Migrate(cmd.Context(), a.pool); err != nil {
			return err
		}
		version, err := postgres.MigrationVersion(cmd.Context(), a.pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema is at version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
