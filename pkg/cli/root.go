// Package cli implements paasctl, the administrative command line for
// the authorization store: token inspection, grant management, and
// visibility listings straight against the SQLite database.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	internaldb "paasd/internal/db"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// storeFlags carries the persistent flags every store-backed command
// needs.
type storeFlags struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	flags := &storeFlags{}

	rootCmd := &cobra.Command{
		Use:           "paasctl",
		Short:         "Administrative CLI for the workspace authorization store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", envOr("PAASD_DB_PATH", "paasd.sqlite"),
		"path to the SQLite store")

	rootCmd.AddCommand(
		newTokenCmd(),
		newGrantsCmd(flags),
		newResourcesCmd(flags),
		newWorkspaceCmd(flags),
		newPermissionsCmd(),
	)
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// openStore opens the write/read pool pair and runs pending migrations,
// so paasctl works against a fresh database file too.
func openStore(flags *storeFlags) (writeDB, readDB *sql.DB, cleanup func(), err error) {
	writeDB, readDB, err = internaldb.OpenSQLitePair(flags.dbPath, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup = func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	}
	if err := internaldb.RunMigrations(writeDB); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return writeDB, readDB, cleanup, nil
}
