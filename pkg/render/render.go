// Package render turns a clause selection into a requirements document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/charmbracelet/glamour"

	"tableflip.dev/a11yreq/pkg/clause"
)

// Format is an output document format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatWord     Format = "word"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatWord, FormatMarkdown, FormatText}

// ParseFormat resolves a format name. "doc" and "md" are accepted aliases.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "html":
		return FormatHTML, nil
	case "word", "doc":
		return FormatWord, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("render: unknown format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatWord:
		return "application/msword"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Extension returns the file extension used for downloads.
func (f Format) Extension() string {
	switch f {
	case FormatWord:
		return ".doc"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".html"
	}
}

// Document is a composed requirements document. Clauses are expected in
// natural number order.
type Document struct {
	Title   string
	Lang    clause.Lang
	Clauses []clause.Record
	Intro   []clause.InfoSection
	Annex   []clause.InfoSection
}

//go:embed templates/*.tmpl
var templates embed.FS

var documentTemplate = template.Must(template.ParseFS(templates, "templates/document.html.tmpl"))

// Renderer renders documents. The zero value renders terminal text 80
// columns wide with the "dark" glamour style.
type Renderer struct {
	Width int
	// Style is a glamour standard style for the text format. Empty means
	// notty, plain text without escape sequences. StyleAuto picks a terminal
	// style from the environment.
	Style string
}

// StyleAuto asks the text format to style for the current terminal.
const StyleAuto = "auto"

// Render writes doc to w in the given format using the default Renderer.
func Render(w io.Writer, f Format, doc Document) error {
	return Renderer{}.Render(w, f, doc)
}

// Render writes doc to w in the given format.
func (r Renderer) Render(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatHTML, "":
		return writeHTML(w, doc, false)
	case FormatWord:
		return writeHTML(w, doc, true)
	case FormatMarkdown:
		out, err := Markdown(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatText:
		out, err := r.text(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("render: unknown format %q", f)
	}
}

// Markdown converts the HTML rendition of doc to GitHub flavored markdown.
func Markdown(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := writeHTML(&buf, doc, false); err != nil {
		return "", err
	}
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.Remove("title", "style")
	out, err := converter.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}

func (r Renderer) text(doc Document) (string, error) {
	markdown, err := Markdown(doc)
	if err != nil {
		return "", err
	}
	width := r.Width
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithStandardStyle("notty")
	switch r.Style {
	case "":
	case StyleAuto:
		styleOpt = glamour.WithAutoStyle()
	default:
		styleOpt = glamour.WithStandardStyle(r.Style)
	}
	renderer, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("render: text: %w", err)
	}
	return renderer.Render(markdown)
}

type labels struct {
	Requirements string
	Compliance   string
	Informative  string
}

var labelsByLang = map[clause.Lang]labels{
	clause.LangEN: {Requirements: "Requirements", Compliance: "Compliance", Informative: "informative"},
	clause.LangFR: {Requirements: "Exigences", Compliance: "Conformité", Informative: "informatif"},
}

// DefaultTitle returns the document title used when none is given.
func DefaultTitle(lang clause.Lang) string {
	if lang == clause.LangFR {
		return "Exigences d'accessibilité"
	}
	return "Accessibility requirements"
}

type clauseView struct {
	Number      string
	Open        template.HTML
	Close       template.HTML
	Name        string
	Description template.HTML
	Compliance  template.HTML
	Informative bool
}

type sectionView struct {
	Name        string
	ShowHeading bool
	Body        template.HTML
}

type documentView struct {
	Title    string
	Lang     clause.Lang
	Word     bool
	WordHead template.HTML
	Labels   labels
	Clauses  []clauseView
	Intro    []sectionView
	Annex    []sectionView
}

// wordHead switches Word to print layout when it opens the document.
const wordHead = `<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View><w:Zoom>100</w:Zoom></w:WordDocument></xml><![endif]-->`

// Stored clause and section bodies are authored HTML and are emitted
// unescaped.
func writeHTML(w io.Writer, doc Document, word bool) error {
	lang := doc.Lang
	if lang == "" {
		lang = clause.LangEN
	}
	lbl, ok := labelsByLang[lang]
	if !ok {
		lbl = labelsByLang[clause.LangEN]
	}
	view := documentView{
		Title:  doc.Title,
		Lang:   lang,
		Word:   word,
		Labels: lbl,
	}
	if view.Title == "" {
		view.Title = DefaultTitle(lang)
	}
	if word {
		view.WordHead = template.HTML(wordHead)
	}
	for _, r := range doc.Clauses {
		level := headingLevel(r.Number)
		view.Clauses = append(view.Clauses, clauseView{
			Number:      r.Number,
			Open:        template.HTML(fmt.Sprintf("<h%d>", level)),
			Close:       template.HTML(fmt.Sprintf("</h%d>", level)),
			Name:        r.LocalName(lang),
			Description: template.HTML(r.LocalDescription(lang)),
			Compliance:  template.HTML(r.LocalCompliance(lang)),
			Informative: r.Informative,
		})
	}
	for _, s := range doc.Intro {
		view.Intro = append(view.Intro, sectionView{Name: s.Name, ShowHeading: s.ShowHeading, Body: template.HTML(s.BodyHTML)})
	}
	for _, s := range doc.Annex {
		view.Annex = append(view.Annex, sectionView{Name: s.Name, ShowHeading: s.ShowHeading, Body: template.HTML(s.BodyHTML)})
	}
	return documentTemplate.Execute(w, view)
}

// headingLevel nests clause headings under the h2 "Requirements" heading,
// capped at h6.
func headingLevel(number string) int {
	level := len(clause.Segments(number)) + 2
	if level > 6 {
		return 6
	}
	return level
}
