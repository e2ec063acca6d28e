package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simplici0/hpp/internal/pricing"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Separator is a table row that renders as a horizontal rule.
var Separator = []string{"---"}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(45).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
// The first column is left-aligned, the rest are right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		for _, row := range t.Rows {
			if !isSeparator(row) {
				numCols = len(row)
				break
			}
		}
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			if isSeparator(row) {
				continue
			}
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		writeRule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if isSeparator(row) {
			writeRule(&b, widths, "├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

// RenderResult renders the HPP breakdown and the price build-up of a pricing result.
func RenderResult(res pricing.Result, quantity float64, currency string, digits int) string {
	money := func(f float64) string { return FormatMoney(f, currency, digits) }

	var b strings.Builder

	b.WriteString(RenderTable(Table{
		Title:   "HPP per unit",
		Headers: []string{"Component", "Cost"},
		Rows: [][]string{
			{"Material", money(res.HPP.Material)},
			{"Machine", money(res.HPP.Machine)},
			{"Finishing", money(res.HPP.Finishing)},
			{"Allocation", money(res.HPP.Allocation)},
			Separator,
			{"Total", money(res.HPP.Total)},
		},
	}))
	b.WriteString("\n")

	unit := money(res.FinalUnitPrice)
	if res.FloorApplied {
		unit += " (floor)"
	}
	b.WriteString(RenderTable(Table{
		Title:   "Price",
		Headers: []string{"Step", "Value"},
		Rows: [][]string{
			{"Base price", money(res.BasePrice)},
			{"Tier adjustment", FormatMultiplier(res.TierAdjustment)},
			{"Surcharge", FormatPercent(res.SurchargePercent)},
			{"Final unit price", unit},
			Separator,
			{"Quantity", FormatQuantity(quantity)},
			{"Total price", money(res.TotalPrice)},
			{"HPP total", money(res.HPPTotal(quantity))},
		},
	}))

	b.WriteString("\n  ")
	b.WriteString(priceStyle.Render("Total " + money(res.TotalPrice)))
	if res.FloorApplied {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render("raised to minimum unit price"))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderProblems renders one line per validation problem.
func RenderProblems(problems []string) string {
	var b strings.Builder
	for _, p := range problems {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render("✗"))
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render(p))
		b.WriteString("\n")
	}
	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
