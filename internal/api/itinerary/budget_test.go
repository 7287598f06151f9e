package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const balancedItinerary = `## Daily Itinerary
### Day 1
...

## Final Budget Summary

| Category | Cost |
|----------|------|
| Stay | ₹4000 |
| Food | ₹2500 |
| Transport | ₹1500 |
| Activities | ₹1500 |
| Misc | ₹500 |
| TOTAL | ₹10000 |
`

const unbalancedItinerary = `## Final Budget Summary

| Category | Cost |
|----------|------|
| **Stay** | ₹5,000 |
| **Food** | ₹3,000 |
| **Transport** | ₹2,000 |
| **Activities** | ₹2,000 |
| **Misc** | ₹1,000 |
| **TOTAL** | ₹10,000 |
`

func TestParseBudgetTable_Balanced(t *testing.T) {
	table, ok := parseBudgetTable(balancedItinerary)
	require.True(t, ok)
	assert.Len(t, table.rows, 5)
	assert.InDelta(t, 10000, table.sum(), 0.01)
	assert.InDelta(t, 10000, table.total, 0.01)
	assert.True(t, table.balanced(10000))
}

func TestParseBudgetTable_UnbalancedWithBoldAndCommas(t *testing.T) {
	table, ok := parseBudgetTable(unbalancedItinerary)
	require.True(t, ok)
	assert.Len(t, table.rows, 5)
	// Rows sum to 13000 against a claimed total of 10000
	assert.InDelta(t, 13000, table.sum(), 0.01)
	assert.False(t, table.balanced(10000))
}

func TestParseBudgetTable_NoTable(t *testing.T) {
	_, ok := parseBudgetTable("## Day 1\nJust prose, no table here.")
	assert.False(t, ok)
}

func TestRescaleBudgetTable(t *testing.T) {
	table, ok := parseBudgetTable(unbalancedItinerary)
	require.True(t, ok)

	repaired := rescaleBudgetTable(unbalancedItinerary, table, 10000)

	repairedTable, ok := parseBudgetTable(repaired)
	require.True(t, ok)
	assert.InDelta(t, 10000, repairedTable.sum(), 0.01)
	assert.InDelta(t, 10000, repairedTable.total, 0.01)
	assert.True(t, repairedTable.balanced(10000))

	// Non-table content is untouched
	assert.True(t, strings.HasPrefix(repaired, "## Final Budget Summary"))
}

func TestReplaceAmount_UsesLastNumericToken(t *testing.T) {
	line := "| Day 3 activities | ₹1,200 |"
	replaced := replaceAmount(line, 900)
	assert.Equal(t, "| Day 3 activities | ₹900 |", replaced)
}
