package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
)

// field describes one input of an editing form.
type field struct {
	Name    string
	Label   string
	Kind    string // text, number, checkbox, textarea or multi
	Value   string
	Checked bool
	Options []option
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formView struct {
	Action string
	Fields []field
}

type listItem struct {
	ID    string
	Key   string
	Label string
}

// editor adapts one kind of catalogue item to the generic editing pages.
type editor struct {
	label  string
	list   func(ctx context.Context) ([]listItem, error)
	fields func(ctx context.Context, id string) ([]field, error)
	create func(ctx context.Context, form url.Values) (string, error)
	update func(ctx context.Context, id string, form url.Values) error
	delete func(ctx context.Context, id string) error
}

var editKinds = []string{"clauses", "infos", "presets"}

func (s *Server) editor(kind string) (editor, bool) {
	switch kind {
	case "clauses":
		return s.clauseEditor(), true
	case "infos":
		return s.infoEditor(), true
	case "presets":
		return s.presetEditor(), true
	default:
		return editor{}, false
	}
}

func text(name, label, value string) field {
	return field{Name: name, Label: label, Kind: "text", Value: value}
}

func textarea(name, label, value string) field {
	return field{Name: name, Label: label, Kind: "textarea", Value: value}
}

func checkbox(name, label string, checked bool) field {
	return field{Name: name, Label: label, Kind: "checkbox", Checked: checked}
}

func number(name, label string, value int) field {
	return field{Name: name, Label: label, Kind: "number", Value: strconv.Itoa(value)}
}

func formBool(form url.Values, name string) bool {
	v, _ := strconv.ParseBool(form.Get(name))
	return v
}

func formInt(form url.Values, name string) (int, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest{fmt.Errorf("%s must be a whole number", name)}
	}
	return n, nil
}

func (s *Server) clauseEditor() editor {
	parse := func(form url.Values) clause.Record {
		return clause.Record{
			Number:        strings.TrimSpace(form.Get("number")),
			Name:          strings.TrimSpace(form.Get("name")),
			FrName:        strings.TrimSpace(form.Get("frName")),
			Description:   form.Get("description"),
			FrDescription: form.Get("frDescription"),
			Compliance:    form.Get("compliance"),
			FrCompliance:  form.Get("frCompliance"),
			Informative:   formBool(form, "informative"),
		}
	}
	return editor{
		label: "Clauses",
		list: func(ctx context.Context) ([]listItem, error) {
			records, err := s.svc.Clauses(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]listItem, 0, len(records))
			for _, r := range records {
				items = append(items, listItem{ID: r.ID, Key: r.Number, Label: r.Name})
			}
			return items, nil
		},
		fields: func(ctx context.Context, id string) ([]field, error) {
			var r clause.Record
			if id != "" {
				var err error
				if r, err = s.svc.Clause(ctx, id); err != nil {
					return nil, err
				}
			}
			return []field{
				text("number", "Number", r.Number),
				text("name", "Name", r.Name),
				text("frName", "French name", r.FrName),
				textarea("description", "Description", r.Description),
				textarea("frDescription", "French description", r.FrDescription),
				textarea("compliance", "Compliance criteria", r.Compliance),
				textarea("frCompliance", "French compliance criteria", r.FrCompliance),
				checkbox("informative", "Informative", r.Informative),
			}, nil
		},
		create: func(ctx context.Context, form url.Values) (string, error) {
			r, err := s.svc.CreateClause(ctx, parse(form))
			return r.ID, err
		},
		update: func(ctx context.Context, id string, form url.Values) error {
			_, err := s.svc.UpdateClause(ctx, id, parse(form))
			return err
		},
		delete: s.svc.DeleteClause,
	}
}

func (s *Server) infoEditor() editor {
	parse := func(form url.Values) (clause.InfoSection, error) {
		order, err := formInt(form, "order")
		if err != nil {
			return clause.InfoSection{}, err
		}
		return clause.InfoSection{
			Name:        strings.TrimSpace(form.Get("name")),
			Order:       order,
			ShowHeading: formBool(form, "showHeading"),
			BodyHTML:    form.Get("bodyHtml"),
		}, nil
	}
	return editor{
		label: "Info sections",
		list: func(ctx context.Context) ([]listItem, error) {
			infos, err := s.svc.Infos(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]listItem, 0, len(infos))
			for _, sec := range infos {
				items = append(items, listItem{ID: sec.ID, Key: strconv.Itoa(sec.Order), Label: sec.Name})
			}
			return items, nil
		},
		fields: func(ctx context.Context, id string) ([]field, error) {
			var sec clause.InfoSection
			if id != "" {
				var err error
				if sec, err = s.svc.Info(ctx, id); err != nil {
					return nil, err
				}
			}
			return []field{
				text("name", "Name", sec.Name),
				number("order", "Order", sec.Order),
				checkbox("showHeading", "Show heading", sec.ShowHeading),
				textarea("bodyHtml", "Body (HTML)", sec.BodyHTML),
			}, nil
		},
		create: func(ctx context.Context, form url.Values) (string, error) {
			sec, err := parse(form)
			if err != nil {
				return "", err
			}
			sec, err = s.svc.CreateInfo(ctx, sec)
			return sec.ID, err
		},
		update: func(ctx context.Context, id string, form url.Values) error {
			sec, err := parse(form)
			if err != nil {
				return err
			}
			_, err = s.svc.UpdateInfo(ctx, id, sec)
			return err
		},
		delete: s.svc.DeleteInfo,
	}
}

func (s *Server) presetEditor() editor {
	parse := func(form url.Values) (clause.Preset, error) {
		order, err := formInt(form, "order")
		if err != nil {
			return clause.Preset{}, err
		}
		return clause.Preset{
			Name:          strings.TrimSpace(form.Get("name")),
			FrName:        strings.TrimSpace(form.Get("frName")),
			Description:   form.Get("description"),
			FrDescription: form.Get("frDescription"),
			Order:         order,
			Clauses:       form["clauses"],
		}, nil
	}
	return editor{
		label: "Presets",
		list: func(ctx context.Context) ([]listItem, error) {
			presets, err := s.svc.Presets(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]listItem, 0, len(presets))
			for _, p := range presets {
				items = append(items, listItem{ID: p.ID, Key: strconv.Itoa(p.Order), Label: p.Name})
			}
			return items, nil
		},
		fields: func(ctx context.Context, id string) ([]field, error) {
			var p clause.Preset
			if id != "" {
				var err error
				if p, err = s.svc.Preset(ctx, id); err != nil {
					return nil, err
				}
			}
			records, err := s.svc.Clauses(ctx)
			if err != nil {
				return nil, err
			}
			chosen := make(map[string]bool, len(p.Clauses))
			for _, cid := range p.Clauses {
				chosen[cid] = true
			}
			clauses := field{Name: "clauses", Label: "Clauses", Kind: "multi"}
			for _, r := range records {
				clauses.Options = append(clauses.Options, option{
					Value:    r.ID,
					Label:    r.Number + " " + r.Name,
					Selected: chosen[r.ID],
				})
			}
			return []field{
				text("name", "Name", p.Name),
				text("frName", "French name", p.FrName),
				textarea("description", "Description", p.Description),
				textarea("frDescription", "French description", p.FrDescription),
				number("order", "Order", p.Order),
				clauses,
			}, nil
		},
		create: func(ctx context.Context, form url.Values) (string, error) {
			p, err := parse(form)
			if err != nil {
				return "", err
			}
			p, err = s.svc.CreatePreset(ctx, p)
			return p.ID, err
		},
		update: func(ctx context.Context, id string, form url.Values) error {
			p, err := parse(form)
			if err != nil {
				return err
			}
			_, err = s.svc.UpdatePreset(ctx, id, p)
			return err
		},
		delete: s.svc.DeletePreset,
	}
}

type editIndexItem struct {
	Path  string
	Label string
	Count int
}

func (s *Server) handleEditIndex(w http.ResponseWriter, r *http.Request) {
	var items []editIndexItem
	for _, kind := range editKinds {
		ed, _ := s.editor(kind)
		list, err := ed.list(r.Context())
		if err != nil {
			s.renderError(w, r, err, "/")
			return
		}
		items = append(items, editIndexItem{Path: kind, Label: ed.label, Count: len(list)})
	}
	s.renderPage(w, r, http.StatusOK, "edit_index", page{Title: "Edit catalogue", Data: items})
}

// kindEditor resolves the {kind} path value, rendering a not found page when
// it names nothing editable.
func (s *Server) kindEditor(w http.ResponseWriter, r *http.Request) (string, editor, bool) {
	kind := r.PathValue("kind")
	ed, ok := s.editor(kind)
	if !ok {
		s.renderPage(w, r, http.StatusNotFound, "error", page{
			Title: http.StatusText(http.StatusNotFound),
			Error: fmt.Sprintf("nothing to edit called %q", kind),
			Data:  errorView{Back: "/edit"},
		})
		return "", editor{}, false
	}
	return kind, ed, true
}

func (s *Server) handleEditList(w http.ResponseWriter, r *http.Request) {
	kind, ed, ok := s.kindEditor(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	items, err := ed.list(ctx)
	if err != nil {
		s.renderError(w, r, err, "/edit")
		return
	}
	fields, err := ed.fields(ctx, "")
	if err != nil {
		s.renderError(w, r, err, "/edit")
		return
	}
	s.renderPage(w, r, http.StatusOK, "edit_list", page{
		Title: ed.label,
		Data: struct {
			Kind  string
			Items []listItem
			Form  formView
		}{kind, items, formView{Action: "/edit/" + kind, Fields: fields}},
	})
}

func (s *Server) parseEditForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		return badRequest{err}
	}
	return nil
}

func (s *Server) handleEditCreate(w http.ResponseWriter, r *http.Request) {
	kind, ed, ok := s.kindEditor(w, r)
	if !ok {
		return
	}
	if err := s.parseEditForm(w, r); err != nil {
		s.renderError(w, r, err, "/edit/"+kind)
		return
	}
	id, err := ed.create(r.Context(), r.PostForm)
	var exists *app.ExistsError
	switch {
	case errors.As(err, &exists):
		http.Redirect(w, r, "/edit/"+kind+"/"+exists.ID+"?exists=1", http.StatusSeeOther)
		return
	case err != nil:
		s.renderError(w, r, err, "/edit/"+kind)
		return
	}
	s.Invalidate()
	http.Redirect(w, r, "/edit/"+kind+"/"+id+"?saved=1", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	kind, ed, ok := s.kindEditor(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	fields, err := ed.fields(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err, "/edit/"+kind)
		return
	}
	var flash string
	switch {
	case r.URL.Query().Get("saved") != "":
		flash = "Saved."
	case r.URL.Query().Get("exists") != "":
		flash = "An item with that key already exists. It is shown below."
	}
	s.renderPage(w, r, http.StatusOK, "edit_form", page{
		Title: ed.label,
		Flash: flash,
		Data: struct {
			Kind         string
			Form         formView
			DeleteAction string
		}{
			Kind:         kind,
			Form:         formView{Action: "/edit/" + kind + "/" + id, Fields: fields},
			DeleteAction: "/edit/" + kind + "/" + id + "/delete",
		},
	})
}

func (s *Server) handleEditUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ed, ok := s.kindEditor(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	back := "/edit/" + kind + "/" + id
	if err := s.parseEditForm(w, r); err != nil {
		s.renderError(w, r, err, back)
		return
	}
	if err := ed.update(r.Context(), id, r.PostForm); err != nil {
		s.renderError(w, r, err, back)
		return
	}
	s.Invalidate()
	http.Redirect(w, r, back+"?saved=1", http.StatusSeeOther)
}

func (s *Server) handleEditDelete(w http.ResponseWriter, r *http.Request) {
	kind, ed, ok := s.kindEditor(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := ed.delete(r.Context(), id); err != nil {
		s.renderError(w, r, err, "/edit/"+kind+"/"+id)
		return
	}
	s.Invalidate()
	http.Redirect(w, r, "/edit/"+kind, http.StatusSeeOther)
}
