package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeList(raw []byte, column string) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", column, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func sortTools(tools []Tool) {
	sort.SliceStable(tools, func(i, j int) bool {
		a, b := strings.ToLower(tools[i].Name), strings.ToLower(tools[j].Name)
		if a != b {
			return a < b
		}
		return tools[i].ID < tools[j].ID
	})
}

func computeStats(tools []Tool) []CategoryStat {
	type acc struct {
		count int
		sum   float64
	}
	byCategory := map[string]*acc{}
	for _, t := range tools {
		a, ok := byCategory[t.Category]
		if !ok {
			a = &acc{}
			byCategory[t.Category] = a
		}
		a.count++
		a.sum += t.Rating
	}
	stats := make([]CategoryStat, 0, len(byCategory))
	for category, a := range byCategory {
		stats = append(stats, CategoryStat{
			Category:      category,
			ToolCount:     a.count,
			AverageRating: roundRating(a.sum / float64(a.count)),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
