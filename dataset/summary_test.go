package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSummarize_CountsAndOrder verifies buckets are counted and sorted by
// count then name
func TestSummarize_CountsAndOrder(t *testing.T) {
	records := []Record{
		{Category: "Telecom", Provider: "MTN"},
		{Category: "Banking", Provider: "GCB Bank"},
		{Category: "Telecom", Provider: "Vodafone"},
		{Category: "Mobile Money", Provider: "MTN"},
		{Category: "Telecom", Provider: "MTN"},
	}

	s := Summarize(records)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, []Count{
		{Name: "Telecom", Count: 3},
		{Name: "Banking", Count: 1},
		{Name: "Mobile Money", Count: 1},
	}, s.Categories)
	assert.Equal(t, []Count{
		{Name: "MTN", Count: 3},
		{Name: "GCB Bank", Count: 1},
		{Name: "Vodafone", Count: 1},
	}, s.Providers)
}

// TestSummarize_Empty verifies an empty dataset yields zero totals
func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.Categories)
	assert.Empty(t, s.Providers)
}
