package itinerary

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// budgetTolerance is how far the category sum may drift from the requested
// budget before the table counts as unbalanced. Generous enough to absorb
// model rounding, tight enough to catch real arithmetic drift.
const budgetTolerance = 1.0

var budgetCategories = []string{"stay", "food", "transport", "activities", "misc"}

var amountPattern = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// budgetRow is one parsed category line of the final budget table.
type budgetRow struct {
	label  string
	amount float64
	line   int
}

// budgetTable is the parsed Final Budget Summary of a generated itinerary.
type budgetTable struct {
	rows      []budgetRow
	total     float64
	totalLine int
}

func (t *budgetTable) sum() float64 {
	var s float64
	for _, row := range t.rows {
		s += row.amount
	}
	return s
}

func (t *budgetTable) balanced(budget float64) bool {
	return math.Abs(t.sum()-budget) <= budgetTolerance &&
		math.Abs(t.total-budget) <= budgetTolerance
}

// parseBudgetTable scans the itinerary markdown for table rows carrying the
// known category labels and a TOTAL row. The boolean is false when no usable
// table was found.
func parseBudgetTable(text string) (*budgetTable, bool) {
	table := &budgetTable{totalLine: -1}
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		cells := strings.Split(strings.Trim(trimmed, "|"), "|")
		if len(cells) < 2 {
			continue
		}

		label := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(cells[0]), "*")))
		amountText := amountPattern.FindString(cells[1])
		if amountText == "" {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(amountText, ",", ""), 64)
		if err != nil {
			continue
		}

		if strings.HasPrefix(label, "total") {
			table.total = amount
			table.totalLine = i
			continue
		}
		for _, category := range budgetCategories {
			if strings.HasPrefix(label, category) {
				table.rows = append(table.rows, budgetRow{label: label, amount: amount, line: i})
				break
			}
		}
	}

	if len(table.rows) == 0 || table.totalLine < 0 {
		return nil, false
	}
	return table, true
}

// rescaleBudgetTable rewrites the table amounts in place so the category rows
// sum exactly to budget, scaling each row proportionally and absorbing the
// rounding remainder into the last row. Used as the local repair of last
// resort when re-prompting still produced an unbalanced table.
func rescaleBudgetTable(text string, table *budgetTable, budget float64) string {
	currentSum := table.sum()
	if currentSum <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	factor := budget / currentSum

	var runningTotal float64
	for i, row := range table.rows {
		scaled := math.Round(row.amount * factor)
		if i == len(table.rows)-1 {
			scaled = budget - runningTotal
		}
		runningTotal += scaled
		lines[row.line] = replaceAmount(lines[row.line], scaled)
	}
	lines[table.totalLine] = replaceAmount(lines[table.totalLine], budget)

	return strings.Join(lines, "\n")
}

// replaceAmount swaps the last numeric token of a table line for the given
// value; the last match is the amount cell even when the label contains digits
// (e.g. "Day 3 activities").
func replaceAmount(line string, amount float64) string {
	matches := amountPattern.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return line
	}
	last := matches[len(matches)-1]
	return line[:last[0]] + formatAmount(amount) + line[last[1]:]
}

func formatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return fmt.Sprintf("%.0f", amount)
	}
	return fmt.Sprintf("%.2f", amount)
}
