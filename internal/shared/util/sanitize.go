package util

import (
	"errors"
	"strings"
)

const maxNameLen = 96

// ErrInvalidName is returned for names that reduce to nothing or try to escape a prefix.
var ErrInvalidName = errors.New("invalid name")

// SafeName reduces name to a lower-case object key segment made of letters, digits,
// dots, dashes and underscores. Any other run of characters becomes one dash.
func SafeName(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if strings.Contains(s, "..") {
		return "", ErrInvalidName
	}
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if len(out) > maxNameLen {
		out = strings.TrimRight(out[:maxNameLen], "-.")
	}
	if out == "" {
		return "", ErrInvalidName
	}
	return out, nil
}
