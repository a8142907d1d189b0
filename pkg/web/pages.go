package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/render"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// pages maps a page name to its template set. Each set is the layout plus the
// page's "content" definition.
var pages = map[string]*template.Template{
	"index":      parsePage("index.html.tmpl"),
	"clauses":    parsePage("clauses.html.tmpl"),
	"create":     parsePage("create.html.tmpl"),
	"edit_index": parsePage("edit_index.html.tmpl"),
	"edit_list":  parsePage("edit_fields.html.tmpl", "edit_list.html.tmpl"),
	"edit_form":  parsePage("edit_fields.html.tmpl", "edit_form.html.tmpl"),
	"error":      parsePage("error.html.tmpl"),
}

func parsePage(files ...string) *template.Template {
	patterns := []string{"templates/layout.html.tmpl"}
	for _, f := range files {
		patterns = append(patterns, "templates/"+f)
	}
	return template.Must(template.New("layout").ParseFS(templateFS, patterns...))
}

// page is the data handed to the layout.
type page struct {
	Title string
	Lang  clause.Lang
	Flash string
	Error string
	Data  any
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := pages[name]
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("web: no page %q", name))
		return
	}
	if p.Lang == "" {
		p.Lang = clause.LangEN
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.log.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorView struct {
	Presets []clause.Preset
	Back    string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error, back string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	view := errorView{Back: back}
	var referenced *app.ReferencedError
	if errors.As(err, &referenced) {
		view.Presets = referenced.Presets
	}
	s.renderPage(w, r, status, "error", page{
		Title: http.StatusText(status),
		Error: err.Error(),
		Data:  view,
	})
}

// langFrom reads the lang parameter, defaulting to English for unknown values.
func langFrom(r *http.Request) clause.Lang {
	lang, err := clause.ParseLang(r.FormValue("lang"))
	if err != nil {
		return clause.LangEN
	}
	return lang
}

// selectionFromQuery reads a selection request from query parameters. Answers
// and select may repeat or be comma separated.
func selectionFromQuery(q url.Values) app.SelectionRequest {
	all, _ := strconv.ParseBool(q.Get("all"))
	return app.SelectionRequest{
		All:     all,
		Preset:  strings.TrimSpace(q.Get("preset")),
		Answers: splitValues(q["answers"]),
		Select:  splitValues(q["select"]),
	}
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type infoView struct {
	Name        string
	ShowHeading bool
	Body        template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	infos, err := s.svc.Infos(r.Context())
	if err != nil {
		s.renderError(w, r, err, "/")
		return
	}
	intro, _ := clause.SplitSections(infos)
	views := make([]infoView, 0, len(intro))
	for _, sec := range intro {
		views = append(views, infoView{
			Name:        sec.Name,
			ShowHeading: sec.ShowHeading,
			// Section bodies are authored through the editing pages.
			Body: template.HTML(sec.BodyHTML),
		})
	}
	s.renderPage(w, r, http.StatusOK, "index", page{
		Title: "Accessibility requirements",
		Lang:  langFrom(r),
		Data:  struct{ Infos []infoView }{views},
	})
}

func (s *Server) handleClauses(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Clauses(r.Context())
	if err != nil {
		s.renderError(w, r, err, "/")
		return
	}
	lang := langFrom(r)
	s.renderPage(w, r, http.StatusOK, "clauses", page{
		Title: "Clauses",
		Lang:  lang,
		Data: struct {
			Clauses []clause.Record
			Lang    clause.Lang
		}{records, lang},
	})
}

type questionView struct {
	ID      string
	Text    string
	Checked bool
}

type createView struct {
	Presets   []clause.Preset
	Preset    string
	All       bool
	Questions []questionView
	Nodes     []app.NodeView
	Selected  int
	Formats   []render.Format
	DocTitle  string
	Lang      clause.Lang
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := langFrom(r)
	req := selectionFromQuery(r.URL.Query())

	c, err := s.svc.Select(ctx, req)
	if err != nil {
		s.renderError(w, r, err, "/view/create")
		return
	}
	presets, err := s.svc.Presets(ctx)
	if err != nil {
		s.renderError(w, r, err, "/")
		return
	}
	answered := make(map[string]bool, len(req.Answers))
	for _, a := range req.Answers {
		answered[a] = true
	}
	var questions []questionView
	for _, q := range s.svc.WizardRules().Questions {
		questions = append(questions, questionView{ID: q.ID, Text: q.LocalText(lang), Checked: answered[q.ID]})
	}
	preset := req.Preset
	if preset != "" {
		if p, err := s.svc.Preset(ctx, preset); err == nil {
			preset = p.ID
		}
	}

	s.renderPage(w, r, http.StatusOK, "create", page{
		Title: "Create requirements",
		Lang:  lang,
		Data: createView{
			Presets:   presets,
			Preset:    preset,
			All:       req.All,
			Questions: questions,
			Nodes:     app.Nodes(c, lang),
			Selected:  len(c.Selected()),
			Formats:   render.Formats,
			DocTitle:  render.DefaultTitle(lang),
			Lang:      lang,
		},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, badRequest{err}, "/view/create")
		return
	}
	format, err := render.ParseFormat(r.PostFormValue("format"))
	if err != nil {
		s.renderError(w, r, badRequest{err}, "/view/create")
		return
	}
	lang := langFrom(r)
	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		title = render.DefaultTitle(lang)
	}

	req := app.SelectionRequest{Select: r.PostForm["clause"]}
	doc, err := s.svc.Compose(r.Context(), req, lang, title)
	if err != nil {
		s.renderError(w, r, err, "/view/create")
		return
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, format, doc); err != nil {
		s.renderError(w, r, err, "/view/create")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != render.FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "requirements"+format.Extension()))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	s.metrics.generated(string(format))
	s.log.Info("document generated",
		zap.String("format", string(format)),
		zap.Int("clauses", len(doc.Clauses)),
	)
}
