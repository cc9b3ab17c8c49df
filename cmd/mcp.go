package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/commitmood/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the commitmood MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze and compare repositories via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return mcpSetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
