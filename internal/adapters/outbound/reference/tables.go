// Package reference loads the read-only tax and product tables the pricing
// engine consults.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/shopspring/decimal"
)

// StateTax is one row of the tax table.
type StateTax struct {
	Abbreviation string
	Name         string
	Rate         decimal.Decimal
}

// TaxTable implements domain.TaxRates.
type TaxTable struct {
	states map[string]StateTax
}

// NewTaxTable builds a table from rows; later rows replace earlier ones.
func NewTaxTable(rows ...StateTax) *TaxTable {
	t := &TaxTable{states: make(map[string]StateTax, len(rows))}
	for _, r := range rows {
		r.Abbreviation = strings.ToUpper(r.Abbreviation)
		t.states[r.Abbreviation] = r
	}
	return t
}

func (t *TaxTable) TaxRateFor(state string) (decimal.Decimal, bool) {
	s, ok := t.states[strings.ToUpper(state)]
	return s.Rate, ok
}

// States returns every row sorted by abbreviation.
func (t *TaxTable) States() []StateTax {
	out := make([]StateTax, 0, len(t.states))
	for _, s := range t.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

// Catalog implements domain.ProductCatalog. Lookups ignore case and return
// the product's canonical name.
type Catalog struct {
	products map[string]domain.ProductPricing
}

func NewCatalog(rows ...domain.ProductPricing) *Catalog {
	c := &Catalog{products: make(map[string]domain.ProductPricing, len(rows))}
	for _, r := range rows {
		c.products[strings.ToLower(r.ProductType)] = r
	}
	return c
}

func (c *Catalog) ProductPricing(productType string) (domain.ProductPricing, bool) {
	p, ok := c.products[strings.ToLower(strings.TrimSpace(productType))]
	return p, ok
}

// Products returns every entry sorted by name.
func (c *Catalog) Products() []domain.ProductPricing {
	out := make([]domain.ProductPricing, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductType < out[j].ProductType })
	return out
}

// LoadTaxes reads StateAbbreviation,StateName,TaxRate lines.
func LoadTaxes(path string) (*TaxTable, error) {
	var rows []StateTax
	err := readTable(path, []string{"state", "stateabbreviation"}, func(rec []string) error {
		rate, err := decimal.NewFromString(rec[2])
		if err != nil {
			return fmt.Errorf("tax rate %q: %w", rec[2], err)
		}
		rows = append(rows, StateTax{Abbreviation: rec[0], Name: rec[1], Rate: rate})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewTaxTable(rows...), nil
}

// LoadProducts reads ProductType,CostPerSquareFoot,LaborCostPerSquareFoot lines.
func LoadProducts(path string) (*Catalog, error) {
	var rows []domain.ProductPricing
	err := readTable(path, []string{"producttype", "product"}, func(rec []string) error {
		cost, err := decimal.NewFromString(rec[1])
		if err != nil {
			return fmt.Errorf("cost per area %q: %w", rec[1], err)
		}
		labor, err := decimal.NewFromString(rec[2])
		if err != nil {
			return fmt.Errorf("labor cost per area %q: %w", rec[2], err)
		}
		rows = append(rows, domain.ProductPricing{ProductType: rec[0], CostPerArea: cost, LaborCostPerArea: labor})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCatalog(rows...), nil
}

// readTable feeds every three-field record of path to row. A first line is
// skipped as a header only when row rejects it and its key column is one of
// keyHeaders; any other bad row is reported with its line number.
func readTable(path string, keyHeaders []string, row func([]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening reference table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	for first := true; ; first = false {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := row(rec); err != nil {
			if first && isHeader(rec[0], keyHeaders) {
				continue
			}
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

func isHeader(key string, names []string) bool {
	key = strings.ToLower(strings.NewReplacer(" ", "", "_", "").Replace(key))
	for _, n := range names {
		if key == n {
			return true
		}
	}
	return false
}
