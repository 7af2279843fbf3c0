package engine

import "math"

// DefaultDiversityCap is the default share of the top-N a single category may supply.
const DefaultDiversityCap = 0.25

// CategoryCap is the per-category limit for a list of n items.
func CategoryCap(n int, fraction float64) int {
	c := int(math.Ceil(float64(n) * fraction))
	if c < 1 {
		return 1
	}
	return c
}

// Diversify takes up to n items from a sorted list. The first pass skips items whose
// category already holds its cap; a second pass fills any remaining slots from the
// skipped items in order. The result is re-sorted so it stays in ranking order.
func Diversify(scored []Scored, n int, fraction float64) []Scored {
	if n <= 0 || len(scored) == 0 {
		return []Scored{}
	}
	limit := CategoryCap(n, fraction)
	counts := make(map[string]int)
	out := make([]Scored, 0, min(n, len(scored)))
	var held []Scored

	for _, s := range scored {
		if len(out) == n {
			break
		}
		cat := NormalizeName(s.Tool.Category)
		if counts[cat] >= limit {
			held = append(held, s)
			continue
		}
		counts[cat]++
		out = append(out, s)
	}
	for _, s := range held {
		if len(out) == n {
			break
		}
		out = append(out, s)
	}
	SortScored(out)
	return out
}
