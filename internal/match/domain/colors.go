package domain

import "sort"

// colorOrder ranks color letters in WUBRG order with colorless last.
var colorOrder = map[string]int{"W": 0, "U": 1, "B": 2, "R": 3, "G": 4, "C": 5}

// SortColorIdentity returns the letters sorted into WUBRG order. Unknown
// letters sort last and are kept as-is.
func SortColorIdentity(colors []string) []string {
	sorted := append([]string(nil), colors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := colorOrder[sorted[i]]
		rj, jok := colorOrder[sorted[j]]
		if !iok {
			ri = len(colorOrder)
		}
		if !jok {
			rj = len(colorOrder)
		}
		return ri < rj
	})
	return sorted
}

// MergeColorIdentities combines a commander's colors with its partner's,
// deduplicated and WUBRG-sorted. An empty merge collapses to colorless.
func MergeColorIdentities(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var merged []string
	for _, c := range append(append([]string(nil), a...), b...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		merged = append(merged, c)
	}
	if len(merged) == 0 {
		return []string{"C"}
	}
	return SortColorIdentity(merged)
}
