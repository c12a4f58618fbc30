package domain_test

import (
	"strings"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/shopspring/decimal"
)

type stubTaxes map[string]string

func (s stubTaxes) TaxRateFor(state string) (decimal.Decimal, bool) {
	v, ok := s[state]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(v), true
}

type stubProducts map[string][2]string

func (s stubProducts) ProductPricing(productType string) (domain.ProductPricing, bool) {
	for name, costs := range s {
		if strings.EqualFold(name, productType) {
			return domain.ProductPricing{
				ProductType:      name,
				CostPerArea:      decimal.RequireFromString(costs[0]),
				LaborCostPerArea: decimal.RequireFromString(costs[1]),
			}, true
		}
	}
	return domain.ProductPricing{}, false
}

func newTestPricer() *domain.Pricer {
	return domain.NewPricer(
		stubTaxes{"FL": "0.06", "TX": "0.0445", "CA": "0.0625"},
		stubProducts{"Tile": {"3.00", "2.00"}, "Wood": {"5.15", "4.75"}, "Carpet": {"3.33", "2.17"}},
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
