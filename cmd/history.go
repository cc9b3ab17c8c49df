package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/iocache"
	"github.com/huangsam/commitmood/schema"
)

// historyConfigSetup loads the history backend settings without opening the store.
// An empty backend is treated as NoneBackend.
func historyConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations and opens the store.
func historySetup() error {
	if err := historyConfigSetup(); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no commit cache for history commands)
	if err := iocache.InitStores("", "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage run history tracking and exports",
	Long: `Manage the history of analysis runs used for trend tracking and reporting.

When enabled with --history-backend, commitmood records every analysis run:
- Run metadata (repository, timestamp, configuration, duration)
- Label counts and average compound score
- The scores of every analyzed commit

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled by default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  commitmood analyze golang/go --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  commitmood history export --history-backend sqlite --output-file mood`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history data",
	Long: `Delete all stored runs and commit scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  commitmood history export --output-file backup
  commitmood history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historyConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total commits scored across all runs
- Database table sizes

Examples:
  # Check run history status
  commitmood history status --history-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run history to Parquet format.

Exports two datasets next to the given --output-file prefix:
- <prefix>.runs.parquet          - one row per analysis run
- <prefix>.commit_scores.parquet - one row per scored commit

Requires: --output-file parameter

Examples:
  # Export all data
  commitmood history export --output-file mood

  # Use with DuckDB for analysis
  duckdb -c "SELECT repository, avg(compound) FROM 'mood.commit_scores.parquet' JOIN 'mood.runs.parquet' USING (run_id) GROUP BY 1"`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  commitmood history migrate --history-backend sqlite

  # Rollback to the initial state
  commitmood history migrate --history-backend sqlite --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migrations must run on a fresh database, so the store is not opened
		return historyConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations applied successfully.")
	},
}
