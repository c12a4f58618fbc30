package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/shopspring/decimal"
)

// fieldCount is the number of comma-separated fields in one order line.
const fieldCount = 12

// EncodeOrder serializes an order as
// orderNumber,customerName,state,taxRate,productType,area,costPerArea,
// laborCostPerArea,materialCost,laborCost,tax,total.
func EncodeOrder(o domain.Order) string {
	return strings.Join([]string{
		strconv.Itoa(o.OrderNumber),
		o.CustomerName,
		o.State,
		o.TaxRate.String(),
		o.ProductType,
		o.Area.StringFixed(domain.Scale),
		o.CostPerArea.StringFixed(domain.Scale),
		o.LaborCostPerArea.StringFixed(domain.Scale),
		o.MaterialCost.StringFixed(domain.Scale),
		o.LaborCost.StringFixed(domain.Scale),
		o.Tax.StringFixed(domain.Scale),
		o.Total.StringFixed(domain.Scale),
	}, ",")
}

// DecodeOrder parses one order line written by EncodeOrder.
func DecodeOrder(line string) (domain.Order, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return domain.Order{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Order{}, fmt.Errorf("order number %q: %w", fields[0], err)
	}

	var nums [8]decimal.Decimal
	for i, idx := range []int{3, 5, 6, 7, 8, 9, 10, 11} {
		d, err := decimal.NewFromString(fields[idx])
		if err != nil {
			return domain.Order{}, fmt.Errorf("field %d %q: %w", idx+1, fields[idx], err)
		}
		nums[i] = d
	}

	return domain.Order{
		OrderNumber:      number,
		CustomerName:     fields[1],
		State:            fields[2],
		TaxRate:          nums[0],
		ProductType:      fields[4],
		Area:             nums[1],
		CostPerArea:      nums[2],
		LaborCostPerArea: nums[3],
		MaterialCost:     nums[4],
		LaborCost:        nums[5],
		Tax:              nums[6],
		Total:            nums[7],
	}, nil
}

// leadingNumber returns the order number field of a line without decoding
// the rest of it.
func leadingNumber(line string) (int, error) {
	head, _, _ := strings.Cut(line, ",")
	return strconv.Atoi(head)
}
