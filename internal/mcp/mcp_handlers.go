package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/commitmood/core"
	"github.com/huangsam/commitmood/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.CacheManager
	newSource func(cfg *contract.Config) (contract.CommitSource, error)
}

// applyLimit overrides the commit limit when the request carries one.
func applyLimit(cfg *contract.Config, request mcp.CallToolRequest) error {
	l := request.GetInt("limit", 0)
	if l == 0 {
		return nil
	}
	if l < 1 || l > contract.MaxCommitLimit {
		return fmt.Errorf("limit must be between 1 and %d", contract.MaxCommitLimit)
	}
	cfg.Limit = l
	return nil
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	owner := strings.TrimSpace(request.GetString("owner", ""))
	repo := strings.TrimSpace(request.GetString("repo", ""))
	if owner == "" || repo == "" {
		return mcp.NewToolResultError("invalid parameters: owner and repo are required"), nil
	}

	repos, err := contract.ParseRepoArgs([]string{owner, repo}, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Repos = repos
	if err := applyLimit(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	source, err := h.newSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	output, err := core.GetAnalyzeResults(core.WithSuppressHeader(ctx), cfg, source, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	var args []string
	for part := range strings.SplitSeq(request.GetString("repos", ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			args = append(args, part)
		}
	}
	repos, err := contract.ParseRepoArgs(args, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Repos = repos
	if err := applyLimit(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	source, err := h.newSource(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	result, err := core.GetCompareResults(core.WithSuppressHeader(ctx), cfg, source, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
