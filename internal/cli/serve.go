package cli

import (
	"os"

	"github.com/agentx-labs/modreg/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registry as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout. AI assistants launch
this as a subprocess to list modules, query dependencies and refresh the
registry. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, logger, err := newController()
		if err != nil {
			return err
		}
		return mcpserver.New(ctrl, buildVersion, logger).Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
