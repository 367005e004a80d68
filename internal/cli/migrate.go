package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetlink/internal/config"
	"github.com/mmynk/budgetlink/internal/storage/sqlite"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(dbPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create database directory: %w", err)
				}
			}
			if err := sqlite.RunMigrations(dbPath); err != nil {
				return err
			}
			return printVersion(cmd, dbPath)
		},
	}
	cmd.PersistentFlags().String("db", "", "SQLite database path (default: DB_PATH)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}
			return printVersion(cmd, dbPath)
		},
	})
	return cmd
}

func databasePath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DBPath, nil
}

func printVersion(cmd *cobra.Command, dbPath string) error {
	version, dirty, err := sqlite.SchemaVersion(dbPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if dirty {
		fmt.Fprintf(out, "schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(out, "schema version %d\n", version)
	return nil
}
