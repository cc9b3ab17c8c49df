package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/commitmood/schema"
)

// Default values for configuration.
const (
	DefaultCommitLimit   = 200
	MaxCommitLimit       = 10000
	DefaultPageSize      = 100
	MaxPageSize          = 100
	DefaultPrecision     = 3
	DefaultRateLimitWait = 60 * time.Second
	DefaultPageDelay     = 100 * time.Millisecond
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

// Default chart file names.
const (
	DefaultChartFile        = "sentiment_analysis.png"
	DefaultDistributionFile = "sentiment_distribution.png"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// GitHubToken is an API credential. It has its own type so log filters can mask it.
type GitHubToken string

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Repos      []schema.RepoRef
	Limit      int
	PageSize   int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	ChartFile  string
	NoChart    bool
	Validate   bool
	ReportFile string

	Token         GitHubToken
	APIURL        string
	LocalPath     string // Read commits from a local clone instead of the API
	RateLimitWait time.Duration
	PageDelay     time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	PageSize         int    `mapstructure:"page-size"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Token            string `mapstructure:"token"`
	APIURL           string `mapstructure:"api-url"`
	RateLimitWait    string `mapstructure:"rate-limit-wait"`
	PageDelay        string `mapstructure:"page-delay"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`

	// --- Fields from analyzeCmd.Flags() ---
	Chart    string `mapstructure:"chart"`
	NoChart  bool   `mapstructure:"no-chart"`
	Validate bool   `mapstructure:"validate"`
	// Local clone to read commits from
	LocalPath string `mapstructure:"local-path"`

	// --- Fields from compareCmd.Flags() ---
	ReportFile string `mapstructure:"report-file"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Repos != nil {
		clone.Repos = slices.Clone(c.Repos)
	}
	return &clone
}

// DistributionChartPath returns the pie chart path that sits next to the timeline chart.
func (c *Config) DistributionChartPath() string {
	return filepath.Join(filepath.Dir(c.ChartFile), DefaultDistributionFile)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFetchSettings(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processLogging(cfg, input)
}

// ParseRepoArgs resolves positional arguments into repository references.
// A single repository accepts either "owner/repo" or "owner repo". When
// multi is set, every argument must be in "owner/repo" form.
func ParseRepoArgs(args []string, multi bool) ([]schema.RepoRef, error) {
	if len(args) == 0 {
		return nil, errors.New("a repository is required (owner/repo or owner repo)")
	}

	if !multi {
		switch len(args) {
		case 1:
			ref, err := ParseRepoRef(args[0])
			if err != nil {
				return nil, err
			}
			return []schema.RepoRef{ref}, nil
		case 2:
			ref, err := ParseRepoRef(args[0] + "/" + args[1])
			if err != nil {
				return nil, err
			}
			return []schema.RepoRef{ref}, nil
		default:
			return nil, fmt.Errorf("expected owner/repo or owner repo, got %d arguments", len(args))
		}
	}

	refs := make([]schema.RepoRef, 0, len(args))
	for _, arg := range args {
		ref, err := ParseRepoRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ParseRepoRef parses "owner/repo" into a repository reference.
func ParseRepoRef(s string) (schema.RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	owner = strings.TrimSpace(owner)
	name = strings.TrimSuffix(strings.TrimSpace(name), ".git")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return schema.RepoRef{}, fmt.Errorf("invalid repository %q: expected owner/repo", s)
	}
	return schema.RepoRef{Owner: owner, Name: name}, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.NoChart = input.NoChart
	cfg.Validate = input.Validate
	cfg.ReportFile = input.ReportFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	cfg.ChartFile = input.Chart
	if cfg.ChartFile == "" {
		cfg.ChartFile = DefaultChartFile
	}
	if !strings.EqualFold(filepath.Ext(cfg.ChartFile), ".png") {
		return fmt.Errorf("chart file must have a .png extension (received %q)", cfg.ChartFile)
	}

	return nil
}

// processFetchSettings validates the limits and pacing of commit fetching.
func processFetchSettings(cfg *Config, input *ConfigRawInput) error {
	if input.Limit <= 0 || input.Limit > MaxCommitLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxCommitLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	if input.PageSize <= 0 || input.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d (received %d)", MaxPageSize, input.PageSize)
	}
	cfg.PageSize = input.PageSize

	cfg.Token = GitHubToken(strings.TrimSpace(input.Token))
	cfg.APIURL = strings.TrimSpace(input.APIURL)
	if cfg.APIURL != "" && !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return fmt.Errorf("api url must start with http:// or https:// (received %q)", cfg.APIURL)
	}

	wait, err := parseNonNegativeDuration("rate-limit-wait", input.RateLimitWait, DefaultRateLimitWait)
	if err != nil {
		return err
	}
	cfg.RateLimitWait = wait

	if path := strings.TrimSpace(input.LocalPath); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("invalid --local-path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("--local-path must be a directory (received %q)", path)
		}
		cfg.LocalPath = path
	}

	delay, err := parseNonNegativeDuration("page-delay", input.PageDelay, DefaultPageDelay)
	if err != nil {
		return err
	}
	cfg.PageDelay = delay

	return nil
}

// parseNonNegativeDuration parses a Go duration string, falling back to def when empty.
func parseNonNegativeDuration(name, value string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("--%s cannot be negative (received %s)", name, d)
	}
	return d, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share the same SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// processLogging validates the diagnostic logger settings.
func processLogging(cfg *Config, input *ConfigRawInput) error {
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be text or json", input.LogFormat)
	}
	return nil
}
