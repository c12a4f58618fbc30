package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Width(56)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	labelStyle    = lipgloss.NewStyle().Foreground(dim).Width(14)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(success)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	numCellStyle  = cellStyle.Align(lipgloss.Right)
	headCellStyle = cellStyle.Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 56))
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders an amount as $1,234.56. The value is taken at its
// stored 2-place scale; only the integer part goes through the printer.
func FormatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(domain.Scale)
	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := printer.Sprint(number.Decimal(decimal.RequireFromString(whole).IntPart()))
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + grouped + "." + frac
}

// FormatArea renders an area with thousands grouping and two places.
func FormatArea(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.StringFixed(domain.Scale), ".")
	return printer.Sprint(number.Decimal(decimal.RequireFromString(whole).IntPart())) + "." + frac
}

// FormatRate renders a tax-rate fraction as a percentage, e.g. 0.0445 as 4.45%.
func FormatRate(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}

// RenderOrders formats one date's orders as a table with a totals footer.
func RenderOrders(date domain.OrderDate, orders []domain.Order) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Orders for "+date.String()))
	b.WriteString("  " + dimStyle.Render(fmt.Sprintf("(%d)", len(orders))))
	b.WriteString("\n\n")

	if len(orders) == 0 {
		b.WriteString("  " + dimStyle.Render("No orders found for this date.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(orders))
	sum := decimal.Zero
	for _, o := range orders {
		rows = append(rows, []string{
			fmt.Sprintf("%d", o.OrderNumber),
			o.CustomerName,
			o.State,
			o.ProductType,
			FormatArea(o.Area),
			FormatMoney(o.MaterialCost),
			FormatMoney(o.LaborCost),
			FormatMoney(o.Tax),
			FormatMoney(o.Total),
		})
		sum = sum.Add(o.Total)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers("#", "Customer", "State", "Product", "Area", "Material", "Labor", "Tax", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headCellStyle
			case col == 0 || col >= 4:
				return numCellStyle
			default:
				return cellStyle
			}
		})

	b.WriteString(t.String())
	b.WriteString("\n\n")
	b.WriteString("  " + dimStyle.Render("Day total ") + totalStyle.Render(FormatMoney(sum)) + "\n")
	return b.String()
}

// RenderOrder formats a single order as a summary card.
func RenderOrder(date domain.OrderDate, o domain.Order) string {
	title := headerStyle.Render(fmt.Sprintf("Order #%d", o.OrderNumber)) + "  " + dimStyle.Render(date.String())

	lines := []string{
		title,
		"",
		field("Customer", o.CustomerName),
		field("State", o.State+"  "+dimStyle.Render(FormatRate(o.TaxRate))),
		field("Product", o.ProductType),
		field("Area", FormatArea(o.Area)),
		field("Cost/area", FormatMoney(o.CostPerArea)),
		field("Labor/area", FormatMoney(o.LaborCostPerArea)),
		"",
		field("Material", FormatMoney(o.MaterialCost)),
		field("Labor", FormatMoney(o.LaborCost)),
		field("Tax", FormatMoney(o.Tax)),
		field("Total", totalStyle.Render(FormatMoney(o.Total))),
	}
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(label) + value
}

// RenderSuccess and RenderFailure format one-line command outcomes.
func RenderSuccess(msg string) string {
	return "  " + passStyle.Render("✓") + " " + msg + "\n"
}

func RenderFailure(msg string) string {
	return "  " + failStyle.Render("✗") + " " + msg + "\n"
}

// RenderWarning marks a completed mutation whose audit write failed.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render("!") + " " + msg + "\n"
}

// MenuItems are the interactive shell choices, numbered from 1.
var MenuItems = []string{
	"Display Orders",
	"Add an Order",
	"Edit an Order",
	"Remove an Order",
	"Export All Data",
	"Quit",
}

// RenderMenu formats the interactive shell's main menu.
func RenderMenu() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("Flooring Program") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for i, item := range MenuItems {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%d.", i+1)), item)
	}
	b.WriteString("  " + separatorLine + "\n")
	return b.String()
}
