// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/ghsource"
)

// NewMCPServer initializes and configures the commitmood MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Commit Sentiment Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		newSource: func(cfg *contract.Config) (contract.CommitSource, error) {
			return ghsource.NewFromConfig(cfg)
		},
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Score the sentiment of recent commit messages of a GitHub repository."),
		mcp.WithString("owner", mcp.Description("Repository owner (user or organization)."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of commits to analyze.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: compare_repositories ---
	s.AddTool(mcp.NewTool("compare_repositories",
		mcp.WithDescription("Compare commit message sentiment across GitHub repositories."),
		mcp.WithString("repos", mcp.Description("Comma-separated list of owner/repo names."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of commits to analyze per repository.")),
	), h.handleCompareRepositories)

	return s
}

// StartMCPServer starts the commitmood MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
