package dataset

type dedupeKey struct {
	code     string
	provider string
}

// Dedupe returns a new list keeping only the first record for each distinct
// (code, provider) pair. Relative order of the survivors is preserved.
func Dedupe(records []Record) []Record {
	seen := make(map[dedupeKey]bool, len(records))
	out := make([]Record, 0, len(records))

	for _, r := range records {
		k := dedupeKey{code: r.Code, provider: r.Provider}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}

	return out
}
