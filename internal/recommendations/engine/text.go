package engine

import (
	"sort"
	"strings"
	"unicode"
)

// NormalizeName lower-cases and collapses whitespace so that "VS  Code" and
// "vs code" compare equal.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// uniqueLower returns the lower-cased, trimmed, de-duplicated values in first-seen
// order. labels maps each key back to its first original spelling.
func uniqueLower(groups ...[]string) (keys []string, labels map[string]string) {
	labels = make(map[string]string)
	for _, group := range groups {
		for _, raw := range group {
			trimmed := strings.Join(strings.Fields(raw), " ")
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			if _, ok := labels[key]; ok {
				continue
			}
			labels[key] = trimmed
			keys = append(keys, key)
		}
	}
	return keys, labels
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if key := NormalizeName(v); key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}

// haystack is the lower-cased searchable text of a tool.
type haystack struct {
	name     string
	category string
	desc     string
	features []string
	tags     []string
}

func newHaystack(t ToolRecord) haystack {
	h := haystack{
		name:     strings.ToLower(t.Name),
		category: strings.ToLower(t.Category),
		desc:     strings.ToLower(t.Description),
		features: make([]string, 0, len(t.Features)),
		tags:     make([]string, 0, len(t.Tags)),
	}
	for _, f := range t.Features {
		h.features = append(h.features, strings.ToLower(f))
	}
	for _, tag := range t.Tags {
		h.tags = append(h.tags, strings.ToLower(tag))
	}
	return h
}

// hasFeature matches against features and tags only.
func (h haystack) hasFeature(term string) bool {
	for _, f := range h.features {
		if strings.Contains(f, term) {
			return true
		}
	}
	for _, tag := range h.tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

// mentions matches against every searchable field.
func (h haystack) mentions(term string) bool {
	if strings.Contains(h.name, term) || strings.Contains(h.category, term) || strings.Contains(h.desc, term) {
		return true
	}
	return h.hasFeature(term)
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "best": true, "for": true, "i": true,
	"in": true, "is": true, "me": true, "my": true, "need": true, "of": true, "on": true,
	"or": true, "some": true, "that": true, "the": true, "to": true, "tool": true,
	"tools": true, "want": true, "we": true, "with": true, "looking": true, "good": true,
	"app": true, "apps": true, "software": true, "our": true, "something": true,
}

// keywords splits free text into lower-cased content words.
func keywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if len(f) < 2 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
