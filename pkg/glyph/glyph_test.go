package glyph

import (
	"testing"

	"tableflip.dev/a11yreq/pkg/selection"
)

func TestForState(t *testing.T) {
	if ForState(selection.True) != Checked || ForState(selection.False) != Unchecked || ForState(selection.Mixed) != Mixed {
		t.Fatalf("unexpected state glyphs")
	}
}

func TestBold(t *testing.T) {
	if got := Bold("x"); got != "\x1b[1mx\x1b[0m" {
		t.Fatalf("Bold = %q", got)
	}
}

func TestDefaultGlyphsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range DefaultGlyphs() {
		if seen[g.Symbol] {
			t.Fatalf("duplicate symbol %q", g.Symbol)
		}
		seen[g.Symbol] = true
	}
}
