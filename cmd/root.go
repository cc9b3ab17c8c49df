package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/iocache"
	"github.com/huangsam/commitmood/internal/logging"
	"github.com/huangsam/commitmood/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global store manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "commitmood",
	Short:              "Score the sentiment of GitHub commit messages.",
	Long:               `Commitmood fetches recent commits of GitHub repositories and shows how upbeat or gloomy their messages are.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("COMMITMOOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The token also honors the variable most GitHub tooling uses
	_ = viper.BindEnv("token", "COMMITMOOD_TOKEN", "GITHUB_TOKEN")

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultCommitLimit)
	viper.SetDefault("page-size", contract.DefaultPageSize)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("rate-limit-wait", contract.DefaultRateLimitWait.String())
	viper.SetDefault("page-delay", contract.DefaultPageDelay.String())
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
	viper.SetDefault("chart", contract.DefaultChartFile)
	viper.SetDefault("color", "yes")
}

// setConfigFile points Viper at the explicit config file or the default search paths.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".commitmood") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfigFile reads the config file if present. A missing file is fine.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup parses the repository arguments and runs the common setup.
func sharedSetup(ctx context.Context, args []string, multi bool) error {
	input.RepoArgs = args
	repos, err := contract.ParseRepoArgs(args, multi)
	if err != nil {
		return err
	}
	if err := setupConfig(ctx); err != nil {
		return err
	}
	cfg.Repos = repos
	return nil
}

// mcpSetup runs the common setup without repository arguments. Repositories
// arrive with each tool call instead.
func mcpSetup() error {
	return setupConfig(rootCtx)
}

// setupConfig unmarshals config, runs validation and initializes logging and stores.
func setupConfig(ctx context.Context) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Diagnostic logging
	if err := logging.Configure(cfg.LogFormat, cfg.LogLevel); err != nil {
		return err
	}
	rootCtx = logging.With(ctx, logging.Default())

	// 5. Initialize stores with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
