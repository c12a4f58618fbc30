package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductPricing is one catalog entry.
type ProductPricing struct {
	ProductType      string
	CostPerArea      decimal.Decimal
	LaborCostPerArea decimal.Decimal
}

// Quote holds every value the pricing engine derives for an order.
type Quote struct {
	State            string
	ProductType      string
	Area             decimal.Decimal
	CostPerArea      decimal.Decimal
	LaborCostPerArea decimal.Decimal
	MaterialCost     decimal.Decimal
	LaborCost        decimal.Decimal
	TaxRate          decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
}

// Pricer computes order costs from the tax and product lookups. It holds no
// mutable state and is safe for concurrent use if the lookups are.
type Pricer struct {
	taxes    TaxRates
	products ProductCatalog
}

func NewPricer(taxes TaxRates, products ProductCatalog) *Pricer {
	return &Pricer{taxes: taxes, products: products}
}

// Price computes costs for area of productType sold in state. Each derived
// value is rounded half-up to two places as soon as it is computed, so later
// steps build on the rounded figures.
func (p *Pricer) Price(area decimal.Decimal, productType, state string) (Quote, error) {
	product, ok := p.products.ProductPricing(productType)
	if !ok {
		return Quote{}, &PricingError{Cause: &NotFoundError{Kind: KindProduct, Key: productType}}
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	rate, ok := p.taxes.TaxRateFor(state)
	if !ok {
		return Quote{}, &PricingError{Cause: &NotFoundError{Kind: KindState, Key: state}}
	}

	q := Quote{
		State:            state,
		ProductType:      product.ProductType,
		Area:             round(area),
		CostPerArea:      round(product.CostPerArea),
		LaborCostPerArea: round(product.LaborCostPerArea),
		TaxRate:          rate,
	}
	q.MaterialCost = round(q.Area.Mul(q.CostPerArea))
	q.LaborCost = round(q.Area.Mul(q.LaborCostPerArea))
	subtotal := round(q.MaterialCost.Add(q.LaborCost))
	q.Tax = round(subtotal.Mul(q.TaxRate))
	q.Total = round(subtotal.Add(q.Tax))
	return q, nil
}

// round rounds half away from zero, which is half-up for the non-negative
// values orders carry.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}
