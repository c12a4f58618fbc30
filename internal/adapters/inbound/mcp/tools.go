package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/flooring/internal/application"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/abdidvp/flooring/internal/logger"
)

// registerTools registers all flooring MCP tools on the given server.
func registerTools(s *server.MCPServer, l Ledger) {
	// 1. flooring_list_orders
	s.AddTool(
		mcplib.NewTool("flooring_list_orders",
			mcplib.WithDescription("Lists the orders placed for a date, in the order they were added"),
			withDate(),
		),
		handleListOrders(l),
	)

	// 2. flooring_get_order
	s.AddTool(
		mcplib.NewTool("flooring_get_order",
			mcplib.WithDescription("Returns one order with its full pricing breakdown"),
			withDate(),
			withOrderNumber(),
		),
		handleGetOrder(l),
	)

	// 3. flooring_add_order
	s.AddTool(
		mcplib.NewTool("flooring_add_order",
			mcplib.WithDescription("Prices and records a new order for a future date"),
			withDate(),
			mcplib.WithString("customer_name",
				mcplib.Required(),
				mcplib.Description("Customer name: letters, digits, spaces and periods"),
			),
			mcplib.WithString("state",
				mcplib.Required(),
				mcplib.Description("State abbreviation present in the tax table, e.g. TX"),
			),
			mcplib.WithString("product_type",
				mcplib.Required(),
				mcplib.Description("Product type present in the catalog, e.g. Tile"),
			),
			mcplib.WithString("area",
				mcplib.Required(),
				mcplib.Description("Area as a decimal string, at least 100"),
			),
		),
		handleAddOrder(l),
	)

	// 4. flooring_edit_order
	s.AddTool(
		mcplib.NewTool("flooring_edit_order",
			mcplib.WithDescription("Changes an order's fields and reprices it; omitted fields keep their value"),
			withDate(),
			withOrderNumber(),
			mcplib.WithString("customer_name", mcplib.Description("New customer name")),
			mcplib.WithString("state", mcplib.Description("New state abbreviation")),
			mcplib.WithString("product_type", mcplib.Description("New product type")),
			mcplib.WithString("area", mcplib.Description("New area as a decimal string, at least 100")),
		),
		handleEditOrder(l),
	)

	// 5. flooring_remove_order
	s.AddTool(
		mcplib.NewTool("flooring_remove_order",
			mcplib.WithDescription("Removes an order and drops its audit record"),
			withDate(),
			withOrderNumber(),
		),
		handleRemoveOrder(l),
	)

	// 6. flooring_export
	s.AddTool(
		mcplib.NewTool("flooring_export",
			mcplib.WithDescription("Rebuilds the export file from every per-date audit file"),
		),
		handleExport(l),
	)
}

func withDate() mcplib.ToolOption {
	return mcplib.WithString("date",
		mcplib.Required(),
		mcplib.Description("Order date as MM/DD/YYYY"),
	)
}

func withOrderNumber() mcplib.ToolOption {
	return mcplib.WithNumber("order_number",
		mcplib.Required(),
		mcplib.Description("Order number"),
	)
}

func handleListOrders(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		date, err := requireDate(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(l.Service.ListOrders(date))
	}
}

func handleGetOrder(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		key, err := requireKey(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := l.Service.GetOrder(key)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(order)
	}
}

func handleAddOrder(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := addRequest(request, l.Today())
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := l.Service.AddOrder(req)
		if err != nil {
			return failure(l.Logger, "add", req.Date, order.OrderNumber, err), nil
		}
		l.Logger.Info("order added", logger.OrderAttrs(req.Date, order.OrderNumber)...)
		return jsonResult(order)
	}
}

func handleEditOrder(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		key, err := requireKey(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		edits, err := orderEdits(request.GetArguments())
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := l.Service.EditAnOrder(application.EditOrderRequest{OrderKey: key, Edits: edits})
		if err != nil {
			return failure(l.Logger, "edit", key.Date, key.OrderNumber, err), nil
		}
		l.Logger.Info("order edited", logger.OrderAttrs(key.Date, key.OrderNumber)...)
		return jsonResult(order)
	}
}

func handleRemoveOrder(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		key, err := requireKey(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := l.Service.RemoveOrder(key)
		if err != nil {
			return failure(l.Logger, "remove", key.Date, key.OrderNumber, err), nil
		}
		l.Logger.Info("order removed", logger.OrderAttrs(key.Date, key.OrderNumber)...)
		return jsonResult(order)
	}
}

func handleExport(l Ledger) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := l.Service.ExportAll(); err != nil {
			l.Logger.Error("export failed", slog.Any("error", err))
			return errorResult(err.Error()), nil
		}
		return textResult("export complete"), nil
	}
}

func requireDate(request mcplib.CallToolRequest) (domain.OrderDate, error) {
	s, err := request.RequireString("date")
	if err != nil {
		return domain.OrderDate{}, err
	}
	return domain.ParseOrderDate(s)
}

func requireKey(request mcplib.CallToolRequest) (application.OrderKey, error) {
	date, err := requireDate(request)
	if err != nil {
		return application.OrderKey{}, err
	}
	n, err := request.RequireInt("order_number")
	if err != nil {
		return application.OrderKey{}, err
	}
	if err := domain.ValidateOrderNumber(n); err != nil {
		return application.OrderKey{}, err
	}
	return application.OrderKey{Date: date, OrderNumber: n}, nil
}

func addRequest(request mcplib.CallToolRequest, today domain.OrderDate) (application.AddOrderRequest, error) {
	date, err := requireDate(request)
	if err != nil {
		return application.AddOrderRequest{}, err
	}
	if err := domain.ValidateFutureDate(date, today); err != nil {
		return application.AddOrderRequest{}, err
	}

	var fields [4]string
	for i, name := range []string{"customer_name", "state", "product_type", "area"} {
		if fields[i], err = request.RequireString(name); err != nil {
			return application.AddOrderRequest{}, err
		}
	}
	if err := domain.ValidateCustomerName(fields[0]); err != nil {
		return application.AddOrderRequest{}, err
	}
	area, err := domain.ParseArea(fields[3])
	if err != nil {
		return application.AddOrderRequest{}, err
	}
	return application.AddOrderRequest{
		Date:         date,
		CustomerName: fields[0],
		State:        fields[1],
		ProductType:  fields[2],
		Area:         area,
	}, nil
}

// orderEdits reads the optional edit arguments; absent or empty strings
// leave the field unchanged.
func orderEdits(args map[string]any) (domain.OrderEdits, error) {
	opt := func(key string) *string {
		if v, ok := args[key].(string); ok && v != "" {
			return &v
		}
		return nil
	}

	edits := domain.OrderEdits{
		State:       opt("state"),
		ProductType: opt("product_type"),
	}
	if name := opt("customer_name"); name != nil {
		if err := domain.ValidateCustomerName(*name); err != nil {
			return edits, err
		}
		edits.CustomerName = name
	}
	if s := opt("area"); s != nil {
		area, err := domain.ParseArea(*s)
		if err != nil {
			return edits, err
		}
		edits.Area = &area
	}
	return edits, nil
}

// failure logs a failed mutation and converts it into a tool error. An
// audit failure means the in-memory change stands without its file record.
func failure(log *slog.Logger, op string, date domain.OrderDate, orderNumber int, err error) *mcplib.CallToolResult {
	attrs := append(logger.OrderAttrs(date, orderNumber), slog.String("op", op), slog.Any("error", err))
	if errors.Is(err, domain.ErrIOFailure) {
		log.Error("audit file out of sync with ledger", attrs...)
		return errorResult(fmt.Sprintf("order %d changed in memory but its audit record failed: %v", orderNumber, err))
	}
	return errorResult(err.Error())
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
