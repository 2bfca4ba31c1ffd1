// Package cli provides the blockload command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openlift/blockload/internal/cli/commands"
	"github.com/openlift/blockload/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blockload",
		Short: "Blockload - training-log spreadsheet loader",
		Long: `Blockload imports powerlifting training-log data from a Google
Sheets spreadsheet into a normalized Postgres schema: training blocks, days,
exercises, sets, bodyweights and session conditions.

Each block loads in a single transaction; a failed block rolls back whole.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					logger.Debug("using config file", "path", configFile)
				}
			}

			cmd.SetContext(config.NewContext(cmd.Context(), cfg, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./blockload.yaml)")
	rootCmd.PersistentFlags().String("credentials", "", "Path to the service-account credentials file")
	rootCmd.PersistentFlags().String("sheet-id", "", "Source spreadsheet id")
	rootCmd.PersistentFlags().String("sheet-id-file", "", "Path to a file holding the spreadsheet id")
	rootCmd.PersistentFlags().Float64("default-bodyweight", config.DefaultBodyweight, "Weight substituted for BW placeholders")
	rootCmd.PersistentFlags().String("db-host", "", "Postgres host")
	rootCmd.PersistentFlags().Int("db-port", 0, "Postgres port")
	rootCmd.PersistentFlags().String("db-name", "", "Postgres database name")
	rootCmd.PersistentFlags().String("db-user", "", "Postgres user")
	rootCmd.PersistentFlags().String("db-password", "", "Postgres password")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewSheetsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
