package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "weekly", want: "weekly"},
		{in: "weekly.json", want: "weekly.json"},
		{in: " Q3 Catalog / EU ", want: "q3-catalog-eu"},
		{in: `snap\shots`, want: "snap-shots"},
		{in: "../etc", err: true},
		{in: "  ", err: true},
		{in: "///", err: true},
		{in: strings.Repeat("a", 120), want: strings.Repeat("a", maxNameLen)},
	}
	for _, tt := range tests {
		got, err := SafeName(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidName) {
				t.Fatalf("SafeName(%q): expected ErrInvalidName, got %q, %v", tt.in, got, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SafeName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
