package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var customerNamePattern = regexp.MustCompile(`^[A-Za-z0-9 .]+$`)

// ValidateArea rejects areas below MinArea.
func ValidateArea(area decimal.Decimal) error {
	if area.LessThan(MinArea) {
		return &ValidationError{Field: "area", Reason: fmt.Sprintf("%s is below the minimum of %s", area.String(), MinArea.String())}
	}
	return nil
}

// ValidateCustomerName applies the stricter character rule the interactive
// front ends enforce: letters, digits, spaces and periods.
func ValidateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "customer name", Reason: "must not be blank"}
	}
	if !customerNamePattern.MatchString(name) {
		return &ValidationError{Field: "customer name", Reason: "may only contain letters, digits, spaces and periods"}
	}
	return nil
}

// ValidateFutureDate requires new orders to be dated strictly after today.
func ValidateFutureDate(date, today OrderDate) error {
	if !date.After(today) {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%s must be after %s", date, today)}
	}
	return nil
}

func ValidateOrderNumber(n int) error {
	if n <= 0 {
		return &ValidationError{Field: "order number", Reason: fmt.Sprintf("%d is not a positive number", n)}
	}
	return nil
}

// ParseArea parses a user-supplied area and checks the minimum.
func ParseArea(s string) (decimal.Decimal, error) {
	area, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "area", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if err := ValidateArea(area); err != nil {
		return decimal.Decimal{}, err
	}
	return area, nil
}

// validateTextField guards the audit line format: values are joined with
// commas and written one order per line, with no escaping.
func validateTextField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be blank"}
	}
	if strings.ContainsAny(value, ",\r\n") {
		return &ValidationError{Field: field, Reason: "must not contain commas or line breaks"}
	}
	return nil
}
