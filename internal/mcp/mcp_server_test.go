package mcp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/commitmood/internal/contract"
	mcp_internal "github.com/huangsam/commitmood/internal/mcp"
	"github.com/huangsam/commitmood/schema"
)

func baseConfig(apiURL string) *contract.Config {
	return &contract.Config{
		Limit:     20,
		PageSize:  100,
		Precision: 3,
		Output:    schema.JSONOut,
		APIURL:    apiURL,
	}
}

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := baseConfig("")

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		message string
	}{
		{"analyze missing owner", "analyze_repository", map[string]any{"repo": "hello-world"}, "owner and repo are required"},
		{"analyze nested repo", "analyze_repository", map[string]any{"owner": "octocat", "repo": "a/b"}, "invalid parameters"},
		{"analyze limit too large", "analyze_repository", map[string]any{"owner": "octocat", "repo": "hello-world", "limit": float64(contract.MaxCommitLimit + 1)}, "limit must be between"},
		{"analyze negative limit", "analyze_repository", map[string]any{"owner": "octocat", "repo": "hello-world", "limit": -5.0}, "limit must be between"},
		{"compare missing repos", "compare_repositories", map[string]any{}, "invalid parameters"},
		{"compare bare owner", "compare_repositories", map[string]any{"repos": "octocat/hello-world, octocat"}, "invalid parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.message)
		})
	}
}

// commitServer serves two commits for octocat/hello-world and 404 for anything else.
func commitServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/hello-world/commits" {
			http.NotFound(w, r)
			return
		}
		items := []map[string]any{}
		if r.URL.Query().Get("page") == "1" {
			for i, msg := range []string{"Add wonderful feature", "Update docs"} {
				items = append(items, map[string]any{
					"sha": "abcdef0123456789abcdef0123456789abcdef0" + string(rune('0'+i)),
					"commit": map[string]any{
						"message": msg,
						"author": map[string]any{
							"name": "Mona Lisa",
							"date": time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
						},
					},
				})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
}

func TestMCPServerHandlers_Analyze(t *testing.T) {
	srv := commitServer(t)
	defer srv.Close()

	res := callTool(t, baseConfig(srv.URL), "analyze_repository", map[string]any{
		"owner": "octocat",
		"repo":  "hello-world",
		"limit": 5.0,
	})
	require.False(t, res.IsError, resultText(t, res))

	var output schema.AnalysisOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &output))
	assert.Equal(t, "octocat/hello-world", output.Repo.FullName())
	assert.Len(t, output.Rows, 2)
	assert.Equal(t, 2, output.Aggregate.Total)
}

func TestMCPServerHandlers_Compare(t *testing.T) {
	srv := commitServer(t)
	defer srv.Close()

	res := callTool(t, baseConfig(srv.URL), "compare_repositories", map[string]any{
		"repos": "octocat/hello-world, octocat/missing",
	})
	require.False(t, res.IsError, resultText(t, res))

	var result schema.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "octocat/hello-world", result.Summaries[0].Repo.FullName())
	assert.Equal(t, []schema.RepoRef{{Owner: "octocat", Name: "missing"}}, result.Skipped)
}
