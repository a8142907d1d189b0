package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestCenter(t *testing.T) {
	bg := strings.Join([]string{
		"aaaaaaaaaa",
		"\x1b[1mbbbbbbbbbb\x1b[0m",
		"cccccccccc",
		"dddddddddd",
	}, "\n")

	got := Center(bg, "XX\nYY", 10, 4, lipgloss.NewStyle())
	want := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbXXbbbb",
		"ccccYYcccc",
		"dddddddddd",
	}, "\n")
	if got != want {
		t.Errorf("Center:\n%s\nwant:\n%s", got, want)
	}
}

func TestCenterPadsShortBackground(t *testing.T) {
	got := Center("ab", "X", 3, 3, lipgloss.NewStyle())
	want := "ab \n X \n   "
	if got != want {
		t.Errorf("Center = %q, want %q", got, want)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		s        string
		from, to int
		want     string
	}{
		{"abcdef", 0, 3, "abc"},
		{"abcdef", 2, 4, "cd"},
		{"abcdef", 4, 10, "ef"},
		{"a界b", 0, 2, "a "},
		{"a界b", 2, 4, " b"},
		{"abc", 2, 2, ""},
	}
	for _, tt := range tests {
		if got := cut(tt.s, tt.from, tt.to); got != tt.want {
			t.Errorf("cut(%q, %d, %d) = %q, want %q", tt.s, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStripANSI(t *testing.T) {
	if got := StripANSI("\x1b[38;5;212mhi\x1b[0m"); got != "hi" {
		t.Errorf("StripANSI = %q", got)
	}
}
