package dataset

import "sort"

// Count is a single bucket in a run summary.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary holds per-category and per-provider record counts.
type Summary struct {
	Total      int     `json:"total"`
	Categories []Count `json:"categories"`
	Providers  []Count `json:"providers"`
}

// Summarize counts records by category and by provider. Buckets are sorted by
// count, largest first, with ties broken by name.
func Summarize(records []Record) Summary {
	categories := make(map[string]int)
	providers := make(map[string]int)
	for _, r := range records {
		categories[r.Category]++
		providers[r.Provider]++
	}

	return Summary{
		Total:      len(records),
		Categories: sortedCounts(categories),
		Providers:  sortedCounts(providers),
	}
}

func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, n := range m {
		counts = append(counts, Count{Name: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}
