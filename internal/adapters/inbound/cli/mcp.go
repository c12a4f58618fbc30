package cli

import (
	mcpadapter "github.com/abdidvp/flooring/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the flooring MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the flooring MCP server (stdio)",
		Long:  "Start the flooring MCP server using stdio transport. The ledger is opened once and kept in memory for the life of the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(cmd, opts)
			if err != nil {
				return err
			}
			s := mcpadapter.NewFlooringMCPServer(mcpadapter.Ledger{
				Service:  l.service,
				Taxes:    l.taxes,
				Products: l.products,
				Today:    today,
				Logger:   l.log,
			})
			return server.ServeStdio(s)
		},
	}
}
