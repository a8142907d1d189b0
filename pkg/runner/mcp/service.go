package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/render"
	"tableflip.dev/a11yreq/pkg/store"
)

// ErrClauseNotFound is returned when a clause reference cannot be resolved.
var ErrClauseNotFound = errors.New("clause not found")

// Service wraps the app service with MCP friendly DTOs.
type Service struct {
	app *app.Service
}

// NewService constructs a Service backed by the provided persistence.
func NewService(p store.Persistence) *Service {
	return &Service{app: &app.Service{Persistence: p}}
}

// NewAppService constructs a Service around an existing app service.
func NewAppService(svc *app.Service) *Service {
	return &Service{app: svc}
}

// ClauseDTO is the MCP facing view of a clause.
type ClauseDTO struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Compliance  string `json:"compliance,omitempty"`
	Informative bool   `json:"informative,omitempty"`
}

// InfoDTO is the MCP facing view of an info section.
type InfoDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Annex bool   `json:"annex,omitempty"`
	Body  string `json:"body,omitempty"`
}

// PresetDTO is the MCP facing view of a preset.
type PresetDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Clauses     []string `json:"clauses"`
}

// SelectionDTO reports the outcome of a selection request.
type SelectionDTO struct {
	States   map[string]string `json:"states"`
	Selected []string          `json:"selected"`
	Count    int               `json:"count"`
}

// ListClauses returns every clause in natural order, optionally filtered by a
// number prefix or a case-insensitive name substring.
func (s *Service) ListClauses(ctx context.Context, lang clause.Lang, query string) ([]ClauseDTO, error) {
	records, err := s.app.Clauses(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]ClauseDTO, 0, len(records))
	for _, r := range records {
		if query != "" && !matchesClause(r, lang, query) {
			continue
		}
		out = append(out, toClauseDTO(r, lang))
	}
	return out, nil
}

func matchesClause(r clause.Record, lang clause.Lang, query string) bool {
	if r.Number == query || clause.IsDescendant(query, r.Number) {
		return true
	}
	return strings.Contains(strings.ToLower(r.LocalName(lang)), query)
}

// ClauseByRef resolves a clause by id or number.
func (s *Service) ClauseByRef(ctx context.Context, lang clause.Lang, ref string) (ClauseDTO, error) {
	r, err := s.app.Clause(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ClauseDTO{}, fmt.Errorf("%w: %s", ErrClauseNotFound, ref)
		}
		return ClauseDTO{}, err
	}
	return toClauseDTO(r, lang), nil
}

// ListInfos returns info sections in document order.
func (s *Service) ListInfos(ctx context.Context) ([]InfoDTO, error) {
	infos, err := s.app.Infos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InfoDTO, 0, len(infos))
	for _, sec := range infos {
		out = append(out, InfoDTO{
			ID:    sec.ID,
			Name:  sec.Name,
			Order: sec.Order,
			Annex: clause.IsAnnex(sec.Name),
			Body:  clause.PlainText(sec.BodyHTML),
		})
	}
	return out, nil
}

// ListPresets returns presets with clause references expressed as numbers.
func (s *Service) ListPresets(ctx context.Context, lang clause.Lang) ([]PresetDTO, error) {
	presets, err := s.app.Presets(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.app.Clauses(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make(map[string]string, len(records))
	for _, r := range records {
		numbers[r.ID] = r.Number
	}
	out := make([]PresetDTO, 0, len(presets))
	for _, p := range presets {
		refs := make([]string, 0, len(p.Clauses))
		for _, id := range p.Clauses {
			if n, ok := numbers[id]; ok {
				refs = append(refs, n)
			}
		}
		sort.Slice(refs, func(i, j int) bool { return clause.Compare(refs[i], refs[j]) < 0 })
		out = append(out, PresetDTO{
			ID:          p.ID,
			Name:        p.LocalName(lang),
			Description: p.LocalDescription(lang),
			Clauses:     refs,
		})
	}
	return out, nil
}

// Tree returns the clause forest with states from req applied.
func (s *Service) Tree(ctx context.Context, lang clause.Lang, req app.SelectionRequest) ([]app.NodeView, error) {
	c, err := s.app.Select(ctx, req)
	if err != nil {
		return nil, err
	}
	return app.Nodes(c, lang), nil
}

// Evaluate applies req to a fresh selection and reports every node state.
func (s *Service) Evaluate(ctx context.Context, req app.SelectionRequest) (SelectionDTO, error) {
	c, err := s.app.Select(ctx, req)
	if err != nil {
		return SelectionDTO{}, err
	}
	states := c.States()
	out := SelectionDTO{
		States:   make(map[string]string, len(states)),
		Selected: []string{},
	}
	for number, st := range states {
		out.States[number] = st.String()
	}
	for _, r := range c.Selected() {
		out.Selected = append(out.Selected, r.Number)
	}
	sort.Slice(out.Selected, func(i, j int) bool { return clause.Compare(out.Selected[i], out.Selected[j]) < 0 })
	out.Count = len(out.Selected)
	return out, nil
}

// Compose renders the requirements document for req.
func (s *Service) Compose(ctx context.Context, req app.SelectionRequest, format render.Format, lang clause.Lang, title string) (string, error) {
	if title == "" {
		title = render.DefaultTitle(lang)
	}
	doc, err := s.app.Compose(ctx, req, lang, title)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, format, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toClauseDTO(r clause.Record, lang clause.Lang) ClauseDTO {
	return ClauseDTO{
		ID:          r.ID,
		Number:      r.Number,
		Name:        r.LocalName(lang),
		Description: clause.PlainText(r.LocalDescription(lang)),
		Compliance:  clause.PlainText(r.LocalCompliance(lang)),
		Informative: r.Informative,
	}
}
