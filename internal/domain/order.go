package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places every money and area field keeps.
const Scale = 2

// MinArea is the smallest area an order may cover.
var MinArea = decimal.NewFromInt(100)

// Order is one priced flooring line item. Every derived field is a pure
// function of (Area, ProductType, State) and the two reference lookups.
type Order struct {
	OrderNumber      int
	CustomerName     string
	State            string
	TaxRate          decimal.Decimal
	ProductType      string
	Area             decimal.Decimal
	CostPerArea      decimal.Decimal
	LaborCostPerArea decimal.Decimal
	MaterialCost     decimal.Decimal
	LaborCost        decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
}

// NewOrder prices and builds a complete order. No order is returned when
// validation or pricing fails.
func NewOrder(number int, customerName, state, productType string, area decimal.Decimal, pricer *Pricer) (Order, error) {
	o := Order{
		OrderNumber:  number,
		CustomerName: customerName,
		State:        state,
		ProductType:  productType,
		Area:         area,
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	if err := o.Reprice(pricer); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate checks the caller-supplied fields: the area minimum and that no
// text field would break the comma-separated audit line.
func (o Order) Validate() error {
	if err := ValidateArea(o.Area); err != nil {
		return err
	}
	fields := []struct{ name, value string }{
		{"customer name", o.CustomerName},
		{"state", o.State},
		{"product type", o.ProductType},
	}
	for _, f := range fields {
		if err := validateTextField(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Reprice recomputes every derived field from the order's current area,
// product type and state. On failure the order is left unchanged.
func (o *Order) Reprice(pricer *Pricer) error {
	q, err := pricer.Price(o.Area, o.ProductType, o.State)
	if err != nil {
		return err
	}
	o.State = q.State
	o.ProductType = q.ProductType
	o.Area = q.Area
	o.TaxRate = q.TaxRate
	o.CostPerArea = q.CostPerArea
	o.LaborCostPerArea = q.LaborCostPerArea
	o.MaterialCost = q.MaterialCost
	o.LaborCost = q.LaborCost
	o.Tax = q.Tax
	o.Total = q.Total
	return nil
}

// OrderEdits carries the optional replacements for an edit. Nil fields are
// left unchanged.
type OrderEdits struct {
	CustomerName *string
	State        *string
	ProductType  *string
	Area         *decimal.Decimal
}

func (e OrderEdits) IsEmpty() bool {
	return e.CustomerName == nil && e.State == nil && e.ProductType == nil && e.Area == nil
}

// Apply returns a copy of o with the supplied fields replaced. Derived
// fields are not refreshed; callers reprice afterwards.
func (e OrderEdits) Apply(o Order) Order {
	if e.CustomerName != nil {
		o.CustomerName = *e.CustomerName
	}
	if e.State != nil {
		o.State = *e.State
	}
	if e.ProductType != nil {
		o.ProductType = *e.ProductType
	}
	if e.Area != nil {
		o.Area = *e.Area
	}
	return o
}

type orderJSON struct {
	OrderNumber      int    `json:"order_number"`
	CustomerName     string `json:"customer_name"`
	State            string `json:"state"`
	TaxRate          string `json:"tax_rate"`
	ProductType      string `json:"product_type"`
	Area             string `json:"area"`
	CostPerArea      string `json:"cost_per_area"`
	LaborCostPerArea string `json:"labor_cost_per_area"`
	MaterialCost     string `json:"material_cost"`
	LaborCost        string `json:"labor_cost"`
	Tax              string `json:"tax"`
	Total            string `json:"total"`
}

// MarshalJSON renders money and area at fixed scale so "300" prints as "300.00".
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderJSON{
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		State:            o.State,
		TaxRate:          o.TaxRate.String(),
		ProductType:      o.ProductType,
		Area:             o.Area.StringFixed(Scale),
		CostPerArea:      o.CostPerArea.StringFixed(Scale),
		LaborCostPerArea: o.LaborCostPerArea.StringFixed(Scale),
		MaterialCost:     o.MaterialCost.StringFixed(Scale),
		LaborCost:        o.LaborCost.StringFixed(Scale),
		Tax:              o.Tax.StringFixed(Scale),
		Total:            o.Total.StringFixed(Scale),
	})
}
