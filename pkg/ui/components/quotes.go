package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteRow is one line of the quote history.
type QuoteRow struct {
	Time      time.Time
	Pair      string // "WETH → USDC"
	AmountIn  string // "0.0001 WETH"
	Qty       decimal.Decimal
	Price     decimal.Decimal
	OutSymbol string
	InSymbol  string
}

// QuotesComponent renders the most recent quotes, newest first.
type QuotesComponent struct {
	rows    []QuoteRow
	maxRows int
}

// NewQuotesComponent creates a component keeping at most maxRows rows.
func NewQuotesComponent(maxRows int) *QuotesComponent {
	if maxRows <= 0 {
		maxRows = 10
	}
	return &QuotesComponent{
		rows:    make([]QuoteRow, 0, maxRows),
		maxRows: maxRows,
	}
}

// Add prepends row, dropping the oldest beyond capacity.
func (q *QuotesComponent) Add(row QuoteRow) {
	q.rows = append([]QuoteRow{row}, q.rows...)
	if len(q.rows) > q.maxRows {
		q.rows = q.rows[:q.maxRows]
	}
}

// Rows returns the rows, newest first.
func (q *QuotesComponent) Rows() []QuoteRow {
	return q.rows
}

// Clear removes all rows.
func (q *QuotesComponent) Clear() {
	q.rows = q.rows[:0]
}

// View renders the quotes table.
func (q *QuotesComponent) View() string {
	if len(q.rows) == 0 {
		return "Waiting for quotes..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("QUOTES"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %-8s  %-14s  %-18s  %22s  %22s  %8s\n",
		"Time", "Pair", "Amount in", "Qty", "Price", "Change")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", 102)) + "\n")

	for i, row := range q.rows {
		change := dimStyle.Render(fmt.Sprintf("%8s", "-"))
		// Compare with the previous quote of the same pair.
		if prev, ok := q.previous(i); ok && !prev.Qty.IsZero() {
			bps := row.Qty.Sub(prev.Qty).Div(prev.Qty).Mul(decimal.NewFromInt(10_000))
			style := positiveStyle
			if bps.IsNegative() {
				style = negativeStyle
			}
			change = style.Render(fmt.Sprintf("%+7.1fbp", bps.InexactFloat64()))
		}

		fmt.Fprintf(&b, "  %-8s  %-14s  %-18s  %22s  %22s  %s\n",
			row.Time.Format("15:04:05"),
			row.Pair,
			row.AmountIn,
			row.Qty.String()+" "+row.OutSymbol,
			row.Price.String()+" "+row.InSymbol,
			change,
		)
	}

	return b.String()
}

func (q *QuotesComponent) previous(i int) (QuoteRow, bool) {
	for j := i + 1; j < len(q.rows); j++ {
		if q.rows[j].Pair == q.rows[i].Pair && q.rows[j].AmountIn == q.rows[i].AmountIn {
			return q.rows[j], true
		}
	}
	return QuoteRow{}, false
}
