package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openlift/blockload/internal/cli/config"
	"github.com/openlift/blockload/internal/store"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Long: `Create or update the eight training-log tables in the configured
Postgres database. Migrations are embedded in the binary and applied with
goose; --status prints the current schema version without changing anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := config.LoggerFromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if cfg.DB.Name == "" || cfg.DB.User == "" {
				return fmt.Errorf("db.name and db.user are required")
			}

			st, err := store.Open(ctx, cfg.DB, logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if status {
				version, err := st.MigrationVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
				return nil
			}

			if err := st.Migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print the current schema version and exit")

	return cmd
}
