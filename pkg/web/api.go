package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/render"
	"tableflip.dev/a11yreq/pkg/selection"
)

// treeResponse is a selection tree plus the selected leaf numbers.
type treeResponse struct {
	ID       string         `json:"id,omitempty"`
	Tree     []app.NodeView `json:"tree"`
	Selected []string       `json:"selected"`
}

func newTreeResponse(c *selection.Controller, lang clause.Lang) treeResponse {
	selected := c.SelectedLeafIDs()
	if selected == nil {
		selected = []string{}
	}
	return treeResponse{Tree: app.Nodes(c, lang), Selected: selected}
}

type questionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// opRequest is one edit to a session's selection.
type opRequest struct {
	Op      string   `json:"op"`
	ID      string   `json:"id,omitempty"`
	Value   bool     `json:"value,omitempty"`
	Preset  string   `json:"preset,omitempty"`
	Answers []string `json:"answers,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func (s *Server) handleAPIClauses(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Clauses(r.Context())
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		lang := langFrom(r)
		filtered := records[:0]
		for _, rec := range records {
			if rec.Number == q || clause.IsDescendant(q, rec.Number) ||
				strings.Contains(strings.ToLower(rec.LocalName(lang)), q) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if records == nil {
		records = []clause.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleAPIInfos(w http.ResponseWriter, r *http.Request) {
	infos, err := s.svc.Infos(r.Context())
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	if infos == nil {
		infos = []clause.InfoSection{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleAPIPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.svc.Presets(r.Context())
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	if presets == nil {
		presets = []clause.Preset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleAPIQuestions(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	questions := s.svc.WizardRules().Questions
	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionResponse{ID: q.ID, Text: q.LocalText(lang)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPITree(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Select(r.Context(), selectionFromQuery(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newTreeResponse(c, langFrom(r)))
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req app.SelectionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	version := s.version.Load()
	c, err := s.svc.Select(r.Context(), req)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	sess := s.sessions.Create(c, version)
	resp := newTreeResponse(c, langFrom(r))
	resp.ID = sess.ID
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *Session, c *selection.Controller) error {
		resp := newTreeResponse(c, langFrom(r))
		resp.ID = sess.ID
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) handleSessionOp(w http.ResponseWriter, r *http.Request) {
	var op opRequest
	if err := decodeJSON(w, r, &op, false); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(sess *Session, c *selection.Controller) error {
		if err := s.applyOp(r, c, op); err != nil {
			return err
		}
		resp := newTreeResponse(c, langFrom(r))
		resp.ID = sess.ID
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

// applyOp runs one selection edit. Ops naming a node the controller refuses
// to change, like an informative leaf, are rejected. Ids the catalogue no
// longer has are ignored so stale clients keep working.
func (s *Server) applyOp(r *http.Request, c *selection.Controller, op opRequest) error {
	switch op.Op {
	case "toggle", "set", "cycle", "restore":
		if _, ok := c.Node(op.ID); !ok {
			s.log.Debug("ignoring op on unknown node", zap.String("op", op.Op), zap.String("id", op.ID))
			return nil
		}
	}
	changed := true
	switch op.Op {
	case "toggle":
		changed = c.ToggleLeaf(op.ID)
	case "set":
		changed = c.SetBranch(op.ID, op.Value)
	case "cycle":
		changed = c.Cycle(op.ID)
	case "restore":
		changed = c.Restore(op.ID)
	case "all":
		c.SelectAll()
	case "none":
		c.SelectNone()
	case "preset":
		p, err := s.svc.Preset(r.Context(), op.Preset)
		if err != nil {
			return err
		}
		c.ApplyPreset(p.Clauses)
	case "answers":
		return s.svc.Apply(r.Context(), c, app.SelectionRequest{Answers: op.Answers})
	default:
		return badRequest{fmt.Errorf("unknown op %q", op.Op)}
	}
	if !changed {
		return badRequest{fmt.Errorf("%s: cannot change %q", op.Op, op.ID)}
	}
	return nil
}

func (s *Server) handleSessionDocument(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	lang := langFrom(r)
	title := strings.TrimSpace(q.Get("title"))
	if title == "" {
		title = render.DefaultTitle(lang)
	}
	s.withSession(w, r, func(_ *Session, c *selection.Controller) error {
		doc, err := s.svc.Document(r.Context(), c, lang, title)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := render.Render(&buf, format, doc); err != nil {
			return err
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "requirements"+format.Extension()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		s.metrics.generated(string(format))
		s.log.Info("document generated",
			zap.String("format", string(format)),
			zap.Int("clauses", len(doc.Clauses)),
		)
		return nil
	})
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(r.PathValue("id")) {
		s.writeError(w, r, http.StatusNotFound, errors.New("session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
