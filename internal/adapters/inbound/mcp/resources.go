package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/flooring/internal/domain"
)

const (
	statesURI   = "flooring://states"
	productsURI = "flooring://products"
)

// registerResources exposes the reference tables the pricing engine reads.
func registerResources(s *server.MCPServer, l Ledger) {
	s.AddResource(
		mcplib.NewResource(
			statesURI,
			"Tax Table",
			mcplib.WithResourceDescription("States orders can be placed in, with their tax rate as a fraction"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStatesResource(l),
	)

	s.AddResource(
		mcplib.NewResource(
			productsURI,
			"Product Catalog",
			mcplib.WithResourceDescription("Product types with material and labor cost per area unit"),
			mcplib.WithMIMEType("application/json"),
		),
		handleProductsResource(l),
	)
}

type stateJSON struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	TaxRate      string `json:"tax_rate"`
}

type productJSON struct {
	ProductType      string `json:"product_type"`
	CostPerArea      string `json:"cost_per_area"`
	LaborCostPerArea string `json:"labor_cost_per_area"`
}

func handleStatesResource(l Ledger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		states := l.Taxes.States()
		out := make([]stateJSON, 0, len(states))
		for _, s := range states {
			out = append(out, stateJSON{Abbreviation: s.Abbreviation, Name: s.Name, TaxRate: s.Rate.String()})
		}
		return jsonResource(statesURI, out)
	}
}

func handleProductsResource(l Ledger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		products := l.Products.Products()
		out := make([]productJSON, 0, len(products))
		for _, p := range products {
			out = append(out, productJSON{
				ProductType:      p.ProductType,
				CostPerArea:      p.CostPerArea.StringFixed(domain.Scale),
				LaborCostPerArea: p.LaborCostPerArea.StringFixed(domain.Scale),
			})
		}
		return jsonResource(productsURI, out)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
