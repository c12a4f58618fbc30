package mcp

import (
	"log/slog"

	"github.com/abdidvp/flooring/internal/adapters/outbound/reference"
	"github.com/abdidvp/flooring/internal/application"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/mark3labs/mcp-go/server"
)

// Ledger is what the MCP tools operate on. One Ledger backs the whole
// server session, so orders stay in memory between tool calls.
type Ledger struct {
	Service  *application.OrderService
	Taxes    *reference.TaxTable
	Products *reference.Catalog
	// Today anchors the future-date rule for new orders.
	Today  func() domain.OrderDate
	Logger *slog.Logger
}

// NewFlooringMCPServer creates a new MCP server with all flooring tools and
// resources registered.
func NewFlooringMCPServer(l Ledger) *server.MCPServer {
	if l.Logger == nil {
		l.Logger = slog.Default()
	}
	s := server.NewMCPServer(
		"flooring",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, l)
	registerResources(s, l)

	return s
}
