// Package glyph holds the symbols used to draw selection trees in terminals.
package glyph

import (
	"fmt"

	"tableflip.dev/a11yreq/pkg/selection"
)

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	// Marker glyphs annotate a node instead of showing its checked state.
	Marker bool
}

const (
	Checked       = "☑"
	Unchecked     = "☐"
	Mixed         = "◪"
	Informative   = "ⓘ"
	Collapsed     = "▸"
	Expanded      = "▾"
	Placeholder   = "·"
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	faintCode     = 2
	underlineCode = 4
)

// ForState returns the checkbox symbol for a selection state.
func ForState(s selection.State) string {
	switch s {
	case selection.True:
		return Checked
	case selection.Mixed:
		return Mixed
	default:
		return Unchecked
	}
}

func Bold(in string) string {
	return sgr(boldCode, in)
}

func Faint(in string) string {
	return sgr(faintCode, in)
}

func Underline(in string) string {
	return sgr(underlineCode, in)
}

func sgr(code int, in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, code, in, escape, resetCode)
}

// DefaultGlyphs lists every glyph with its meaning, in legend order.
func DefaultGlyphs() []Glyph {
	return []Glyph{
		{Key: "true", Symbol: Checked, Meaning: "selected"},
		{Key: "mixed", Symbol: Mixed, Meaning: "partly selected"},
		{Key: "false", Symbol: Unchecked, Meaning: "not selected"},
		{Key: "informative", Symbol: Informative, Meaning: "informative, follows its parent", Marker: true},
		{Key: "collapsed", Symbol: Collapsed, Meaning: "collapsed branch", Marker: true},
		{Key: "expanded", Symbol: Expanded, Meaning: "expanded branch", Marker: true},
		{Key: "placeholder", Symbol: Placeholder, Meaning: "number without a clause", Marker: true},
	}
}
