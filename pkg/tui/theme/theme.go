package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the clause selector.
type Theme struct {
	Tree   TreeTheme
	Footer FooterTheme
	Panel  PanelTheme
	Modal  ModalTheme
}

// TreeTheme styles rows of the clause tree.
type TreeTheme struct {
	Cursor      lipgloss.Style
	Number      lipgloss.Style
	Name        lipgloss.Style
	Informative lipgloss.Style
	Placeholder lipgloss.Style
	Checked     lipgloss.Style
	Mixed       lipgloss.Style
	Unchecked   lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Count  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// ModalTheme styles centered overlays such as help.
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Backdrop lipgloss.Style
}

// Default returns the theme for dark terminals.
func Default() Theme {
	return ForBackground(true)
}

// Detect picks the theme matching the terminal background. It queries the
// terminal, so call it before a program takes over stdin.
func Detect() Theme {
	return ForBackground(termenv.HasDarkBackground())
}

// ForBackground builds the theme for a dark or light background. The mixed
// checkbox colour sits halfway between checked and unchecked.
func ForBackground(dark bool) Theme {
	accent, checked, unchecked, dim := "#ff87d7", "#00d787", "#8a8a8a", "#808080"
	if !dark {
		accent, checked, unchecked, dim = "#af005f", "#008700", "#6c6c6c", "#949494"
	}
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color(dim))
	return Theme{
		Tree: TreeTheme{
			Cursor:      lipgloss.NewStyle().Reverse(true),
			Number:      lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
			Name:        lipgloss.NewStyle(),
			Informative: faint.Italic(true),
			Placeholder: faint,
			Checked:     lipgloss.NewStyle().Foreground(lipgloss.Color(checked)),
			Mixed:       lipgloss.NewStyle().Foreground(lipgloss.Color(blend(checked, unchecked))),
			Unchecked:   lipgloss.NewStyle().Foreground(lipgloss.Color(unchecked)),
		},
		Footer: FooterTheme{
			Help:   faint,
			Status: faint,
			Count:  lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(accent)).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true),
			Backdrop: faint,
		},
	}
}

// blend mixes two hex colours in Lab space.
func blend(a, b string) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, 0.5).Clamped().Hex()
}
