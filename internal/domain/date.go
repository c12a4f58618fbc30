package domain

import (
	"fmt"
	"time"
)

const (
	inputLayout   = "01/02/2006"
	stampLayout   = "01022006"
	displayLayout = "01-02-2006"
)

// OrderDate is a calendar date without time of day. It is comparable and
// used directly as the key of an order bucket.
type OrderDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewOrderDate builds an OrderDate, normalizing out-of-range values the way
// time.Date does.
func NewOrderDate(year int, month time.Month, day int) OrderDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) OrderDate {
	y, m, d := t.Date()
	return OrderDate{Year: y, Month: m, Day: d}
}

// ParseOrderDate parses the MM/DD/YYYY form users type.
func ParseOrderDate(s string) (OrderDate, error) {
	t, err := time.Parse(inputLayout, s)
	if err != nil {
		return OrderDate{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a MM/DD/YYYY date", s)}
	}
	return DateOf(t), nil
}

// ParseStamp parses the eight-digit MMDDYYYY form embedded in audit file names.
func ParseStamp(s string) (OrderDate, error) {
	t, err := time.Parse(stampLayout, s)
	if err != nil {
		return OrderDate{}, fmt.Errorf("invalid date stamp %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d OrderDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Stamp formats the date as MMDDYYYY.
func (d OrderDate) Stamp() string { return d.Time().Format(stampLayout) }

// Display formats the date as MM-DD-YYYY, the form appended to export lines.
func (d OrderDate) Display() string { return d.Time().Format(displayLayout) }

// String formats the date as MM/DD/YYYY.
func (d OrderDate) String() string { return d.Time().Format(inputLayout) }

func (d OrderDate) IsZero() bool { return d == OrderDate{} }

func (d OrderDate) Before(other OrderDate) bool { return d.Time().Before(other.Time()) }

func (d OrderDate) After(other OrderDate) bool { return d.Time().After(other.Time()) }
