package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/commitmood/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        200,
		PageSize:     100,
		Output:       "text",
		Precision:    3,
		Color:        "yes",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))

		assert.Equal(t, 200, cfg.Limit)
		assert.Equal(t, 100, cfg.PageSize)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.True(t, cfg.UseColors)
		assert.Equal(t, DefaultChartFile, cfg.ChartFile)
		assert.Equal(t, DefaultRateLimitWait, cfg.RateLimitWait)
		assert.Equal(t, DefaultPageDelay, cfg.PageDelay)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
		assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
		assert.Equal(t, schema.DatabaseBackend(""), cfg.HistoryBackend)
	})

	t.Run("durations parsed", func(t *testing.T) {
		cfg := &Config{}
		input := validInput()
		input.RateLimitWait = "5s"
		input.PageDelay = "0s"
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 5*time.Second, cfg.RateLimitWait)
		assert.Equal(t, time.Duration(0), cfg.PageDelay)
	})

	t.Run("local path kept", func(t *testing.T) {
		cfg := &Config{}
		input := validInput()
		input.LocalPath = t.TempDir()
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, input.LocalPath, cfg.LocalPath)
	})

	t.Run("token trimmed", func(t *testing.T) {
		cfg := &Config{}
		input := validInput()
		input.Token = "  ghp_secret \n"
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, GitHubToken("ghp_secret"), cfg.Token)
	})

	tests := []struct {
		name   string
		mutate func(in *ConfigRawInput)
	}{
		{"zero limit", func(in *ConfigRawInput) { in.Limit = 0 }},
		{"limit too large", func(in *ConfigRawInput) { in.Limit = MaxCommitLimit + 1 }},
		{"page size too large", func(in *ConfigRawInput) { in.PageSize = 101 }},
		{"zero page size", func(in *ConfigRawInput) { in.PageSize = 0 }},
		{"precision too small", func(in *ConfigRawInput) { in.Precision = 0 }},
		{"precision too large", func(in *ConfigRawInput) { in.Precision = 5 }},
		{"unknown output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }},
		{"bad color", func(in *ConfigRawInput) { in.Color = "maybe" }},
		{"chart not png", func(in *ConfigRawInput) { in.Chart = "chart.svg" }},
		{"bad api url", func(in *ConfigRawInput) { in.APIURL = "ftp://example.com" }},
		{"bad duration", func(in *ConfigRawInput) { in.RateLimitWait = "soon" }},
		{"negative delay", func(in *ConfigRawInput) { in.PageDelay = "-1s" }},
		{"bad cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }},
		{"mysql without connection", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }},
		{"bad history backend", func(in *ConfigRawInput) { in.HistoryBackend = "mongo" }},
		{"bad log level", func(in *ConfigRawInput) { in.LogLevel = "trace" }},
		{"bad log format", func(in *ConfigRawInput) { in.LogFormat = "xml" }},
		{"missing local path", func(in *ConfigRawInput) { in.LocalPath = "/does/not/exist" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestValidateBackendConfigsSharedSQLite(t *testing.T) {
	input := validInput()
	input.CacheDBConnect = "/tmp/same.db"
	input.HistoryBackend = "sqlite"
	input.HistoryDBConnect = "/tmp/same.db"

	err := validateBackendConfigs(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	input.HistoryDBConnect = "/tmp/other.db"
	assert.NoError(t, validateBackendConfigs(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/mood", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/mood", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=mood", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseRepoArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		multi   bool
		want    []schema.RepoRef
		wantErr bool
	}{
		{"slash form", []string{"octocat/hello-world"}, false, []schema.RepoRef{{Owner: "octocat", Name: "hello-world"}}, false},
		{"two args", []string{"octocat", "hello-world"}, false, []schema.RepoRef{{Owner: "octocat", Name: "hello-world"}}, false},
		{"git suffix", []string{"octocat/hello-world.git"}, false, []schema.RepoRef{{Owner: "octocat", Name: "hello-world"}}, false},
		{"no args", nil, false, nil, true},
		{"owner only", []string{"octocat"}, false, nil, true},
		{"too many", []string{"a", "b", "c"}, false, nil, true},
		{"nested path", []string{"a/b/c"}, false, nil, true},
		{
			"multi",
			[]string{"a/one", "b/two"},
			true,
			[]schema.RepoRef{{Owner: "a", Name: "one"}, {Owner: "b", Name: "two"}},
			false,
		},
		{"multi rejects bare owner", []string{"a/one", "b"}, true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoArgs(tt.args, tt.multi)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Repos: []schema.RepoRef{{Owner: "a", Name: "b"}}, Limit: 10}
	clone := cfg.Clone()
	clone.Repos[0].Name = "changed"
	clone.Limit = 20

	assert.Equal(t, "b", cfg.Repos[0].Name)
	assert.Equal(t, 10, cfg.Limit)
}

func TestDistributionChartPath(t *testing.T) {
	cfg := &Config{ChartFile: filepath.Join("out", "mood.png")}
	assert.Equal(t, filepath.Join("out", DefaultDistributionFile), cfg.DistributionChartPath())

	cfg.ChartFile = DefaultChartFile
	assert.Equal(t, DefaultDistributionFile, cfg.DistributionChartPath())
}
