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

// cacheConfigSetup loads the cache backend settings without opening the store.
func cacheConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations and opens the store.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := cacheConfigSetup(); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no run history for cache commands)
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands. No repository arguments or API
// settings are needed for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the commit fetch cache (saves API calls)",
	Long: `Manage the cache of fetched commit listings.

Commitmood caches each fetched listing for an hour, keyed by repository,
limit and page size. Repeated runs within that window skip the GitHub API.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  commitmood cache status

  # Clear cache to force fresh fetches
  commitmood cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached commit listings",
	Long: `Delete all cached commit listings from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  commitmood cache clear

  # Clear MySQL cache (set connection string via env variable)
  COMMITMOOD_CACHE_BACKEND=mysql COMMITMOOD_CACHE_DB_CONNECT="..." commitmood cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the commit fetch cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  commitmood cache status`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetCommitStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", errors.New("cache store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
