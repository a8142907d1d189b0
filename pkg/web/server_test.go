package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

type fixture struct {
	svc    *app.Service
	server *Server
	ts     *httptest.Server
	web    clause.Preset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := store.Load(testConfig(t.TempDir()))
	require.NoError(t, err)

	records := []*clause.Record{
		{Number: "5", Name: "Generic requirements"},
		{Number: "5.1", Name: "Closed functionality", FrName: "Fonctionnalité fermée"},
		{Number: "5.2", Name: "Activation of accessibility features"},
		{Number: "9", Name: "Web"},
		{Number: "9.1", Name: "Perceivable"},
		{Number: "9.2", Name: "Note on web content", Informative: true},
	}
	for _, r := range records {
		require.NoError(t, p.StoreClause(r))
	}
	preset := &clause.Preset{Name: "Web", Clauses: []string{records[4].ID}}
	require.NoError(t, p.StorePreset(preset))
	require.NoError(t, p.StoreInfo(&clause.InfoSection{Name: "Introduction", Order: 1, ShowHeading: true, BodyHTML: "<p>Scope of work.</p>"}))
	require.NoError(t, p.StoreInfo(&clause.InfoSection{Name: "Annex A", Order: 9, BodyHTML: "<p>Glossary.</p>"}))

	svc := &app.Service{Persistence: p}
	server := New(svc)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return &fixture{svc: svc, server: server, ts: ts, web: *preset}
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndexShowsIntroSections(t *testing.T) {
	f := newFixture(t)
	resp, body := get(t, f.ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h2>Introduction</h2>")
	assert.Contains(t, body, "<p>Scope of work.</p>")
	assert.NotContains(t, body, "Glossary.")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestClausesPageLocalizes(t *testing.T) {
	f := newFixture(t)
	_, body := get(t, f.ts.URL+"/view/clauses?lang=fr")
	assert.Contains(t, body, `<html lang="fr">`)
	assert.Contains(t, body, "Fonctionnalité fermée")
}

func TestCreatePageRendersTreeState(t *testing.T) {
	f := newFixture(t)
	resp, body := get(t, f.ts.URL+"/view/create?preset=web&select=5.1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, `role="tree"`)
	assert.Contains(t, body, `aria-checked="mixed" aria-expanded="true" id="node-5"`)
	assert.Contains(t, body, `aria-checked="true" aria-expanded="true" id="node-9"`)
	assert.Contains(t, body, `<input type="checkbox" name="clause" value="5.1" checked>`)
	assert.Contains(t, body, `<input type="checkbox" name="clause" value="5.2">`)
	assert.Contains(t, body, `value="9.2" checked disabled`)
	assert.Contains(t, body, "3 clauses selected.")
	assert.Contains(t, body, `<option value="`+f.web.ID+`" selected>Web</option>`)
}

func TestCreatePageUnknownPreset(t *testing.T) {
	f := newFixture(t)
	resp, body := get(t, f.ts.URL+"/view/create?preset=nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `role="alert"`)
}

func TestGenerateDownloadsDocument(t *testing.T) {
	f := newFixture(t)
	form := url.Values{"clause": {"5.1", "9.1"}, "format": {"markdown"}, "title": {"Kiosk RFP"}}
	resp, body := postForm(t, http.DefaultClient, f.ts.URL+"/view/create", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="requirements.md"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, body, "Kiosk RFP")
	assert.Contains(t, body, "Closed functionality")
	assert.Contains(t, body, "Glossary.")
	assert.NotContains(t, body, "Activation of accessibility features")

	_, metrics := get(t, f.ts.URL+"/metrics")
	assert.Contains(t, metrics, `a11yreq_documents_generated_total{format="markdown"} 1`)
}

func TestGenerateHTMLIsInline(t *testing.T) {
	f := newFixture(t)
	resp, body := postForm(t, http.DefaultClient, f.ts.URL+"/view/create", url.Values{"clause": {"9.1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "Perceivable")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	resp, _ := postForm(t, http.DefaultClient, f.ts.URL+"/view/create", url.Values{"format": {"pdf"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postForm(t, http.DefaultClient, f.ts.URL+"/view/create", url.Values{"clause": {"42"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditCreateAndUpdateClause(t *testing.T) {
	f := newFixture(t)
	client := noRedirect()

	resp, _ := postForm(t, client, f.ts.URL+"/edit/clauses", url.Values{"number": {"5.3"}, "name": {"Biometrics"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasSuffix(location, "?saved=1"), location)

	created, err := f.svc.Clause(context.Background(), "5.3")
	require.NoError(t, err)
	assert.Equal(t, "Biometrics", created.Name)

	_, body := get(t, f.ts.URL+location)
	assert.Contains(t, body, "Saved.")
	assert.Contains(t, body, `value="Biometrics"`)

	resp, _ = postForm(t, client, f.ts.URL+"/edit/clauses/"+created.ID, url.Values{
		"number": {"5.3"}, "name": {"Biometrics"}, "informative": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	updated, err := f.svc.Clause(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, updated.Informative)
}

func TestEditCreateDuplicateRedirectsToExisting(t *testing.T) {
	f := newFixture(t)
	existing, err := f.svc.Clause(context.Background(), "5.1")
	require.NoError(t, err)

	resp, _ := postForm(t, noRedirect(), f.ts.URL+"/edit/clauses", url.Values{"number": {"5.1"}, "name": {"Again"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/edit/clauses/"+existing.ID+"?exists=1", resp.Header.Get("Location"))
}

func TestEditDeleteReferencedClauseConflicts(t *testing.T) {
	f := newFixture(t)
	used, err := f.svc.Clause(context.Background(), "9.1")
	require.NoError(t, err)

	resp, body := postForm(t, noRedirect(), f.ts.URL+"/edit/clauses/"+used.ID+"/delete", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, `href="/edit/presets/`+f.web.ID+`"`)

	free, err := f.svc.Clause(context.Background(), "5.2")
	require.NoError(t, err)
	resp, _ = postForm(t, noRedirect(), f.ts.URL+"/edit/clauses/"+free.ID+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/edit/clauses", resp.Header.Get("Location"))
}

func TestEditPresetForm(t *testing.T) {
	f := newFixture(t)
	_, body := get(t, f.ts.URL+"/edit/presets/"+f.web.ID)
	assert.Contains(t, body, `multiple`)
	assert.Contains(t, body, "9.1 Perceivable</option>")

	resp, _ := postForm(t, noRedirect(), f.ts.URL+"/edit/presets", url.Values{"name": {"Kiosk"}, "order": {"x"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditUnknownKind(t *testing.T) {
	f := newFixture(t)
	resp, _ := get(t, f.ts.URL+"/edit/widgets")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := get(t, f.ts.URL+"/edit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<a href="/edit/clauses">Clauses</a> (6)`)
}
