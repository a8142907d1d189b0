// Package selector is the terminal clause picker: a keyboard driven tree of
// checkboxes that follows the WAI-ARIA tree view pattern.
package selector

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/selection"
	"tableflip.dev/a11yreq/pkg/store"
	"tableflip.dev/a11yreq/pkg/tui/components/help"
	"tableflip.dev/a11yreq/pkg/tui/theme"
)

// typeAheadWindow is how long typed characters keep accumulating into one
// search.
const typeAheadWindow = time.Second

// Options configure a Model.
type Options struct {
	Lang clause.Lang
	// Request seeds the initial selection.
	Request app.SelectionRequest
	// Events, when set, reloads the catalogue after every change.
	Events <-chan store.Event
	Theme  *theme.Theme
}

// Model is the Bubble Tea model of the selector.
type Model struct {
	svc   *app.Service
	ctx   context.Context
	lang  clause.Lang
	req   app.SelectionRequest
	theme theme.Theme

	c        *selection.Controller
	presets  []clause.Preset
	preset   int
	expanded map[string]bool
	rows     []*tree.Node
	cursor   int
	offset   int

	typed   string
	typedAt time.Time
	now     func() time.Time

	help     *help.Model
	showHelp bool
	status   string
	width    int
	height   int

	events   <-chan store.Event
	generate bool
}

// New creates a selector over svc.
func New(ctx context.Context, svc *app.Service, opts Options) Model {
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	lang := opts.Lang
	if lang == "" {
		lang = clause.LangEN
	}
	return Model{
		svc:      svc,
		ctx:      ctx,
		lang:     lang,
		req:      opts.Request,
		theme:    th,
		preset:   -1,
		expanded: make(map[string]bool),
		now:      time.Now,
		events:   opts.Events,
		width:    80,
		height:   24,
		status:   "space toggles, g generates, ? for help",
	}
}

// Generate reports whether the user finished with g rather than quitting.
func (m Model) Generate() bool { return m.generate }

// SelectedLeafIDs returns the numbers of the selected leaves.
func (m Model) SelectedLeafIDs() []string {
	if m.c == nil {
		return nil
	}
	return m.c.SelectedLeafIDs()
}

type loadedMsg struct {
	c       *selection.Controller
	presets []clause.Preset
	reload  bool
}

type changedMsg struct{}

type errMsg struct{ err error }

// Init loads the catalogue and starts watching for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(false), m.watch())
}

func (m Model) load(reload bool) tea.Cmd {
	svc, ctx, req := m.svc, m.ctx, m.req
	return func() tea.Msg {
		var (
			c   *selection.Controller
			err error
		)
		if reload {
			c, err = svc.NewSelection(ctx)
		} else {
			c, err = svc.Select(ctx, req)
		}
		if err != nil {
			return errMsg{err}
		}
		presets, err := svc.Presets(ctx)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{c: c, presets: presets, reload: reload}
	}
}

func (m Model) watch() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update handles messages and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.help != nil {
			m.help.SetSize(m.helpSize())
		}
		m.scroll()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case loadedMsg:
		m.applyLoaded(msg)
	case changedMsg:
		m.status = "Catalogue changed, reloaded"
		cmds = append(cmds, m.load(true), m.watch())
	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyLoaded(msg loadedMsg) {
	current := m.currentNumber()
	if msg.reload && m.c != nil {
		msg.c.CarryOver(m.c)
	}
	m.c = msg.c
	m.presets = msg.presets
	if m.preset >= len(m.presets) {
		m.preset = -1
	}
	m.rebuild()
	m.focusNumber(current)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
			return nil
		case "ctrl+c":
			return tea.Quit
		}
		return m.help.Update(msg)
	}

	switch key {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "g":
		m.generate = true
		return tea.Quit
	case "?":
		m.showHelp = true
		if m.help == nil {
			w, h := m.helpSize()
			m.help = help.New(w, h, m.theme.Modal.Frame)
		}
		return nil
	}
	if m.c == nil {
		return nil
	}

	switch key {
	case "up", "k":
		m.move(m.cursor - 1)
	case "down", "j":
		m.move(m.cursor + 1)
	case "home":
		m.move(0)
	case "end":
		m.move(len(m.rows) - 1)
	case "right", "l":
		m.expandOrEnter()
	case "left", "h":
		m.collapseOrLeave()
	case "*":
		m.expandSiblings()
	case "space", "enter":
		m.cycle()
	case "a":
		m.c.SelectAll()
		m.status = "Selected every clause"
	case "n":
		m.c.SelectNone()
		m.status = "Cleared the selection"
	case "p":
		m.nextPreset()
	default:
		if utf8.RuneCountInString(key) == 1 {
			if r, _ := utf8.DecodeRuneInString(key); unicode.IsPrint(r) {
				m.typeAhead(key)
			}
		}
	}
	return nil
}

func (m *Model) rebuild() {
	m.rows = m.rows[:0]
	var walk func(nodes []*tree.Node)
	walk = func(nodes []*tree.Node) {
		for _, n := range nodes {
			m.rows = append(m.rows, n)
			if !n.IsLeaf() && m.expanded[n.Number] {
				walk(n.Children)
			}
		}
	}
	walk(m.c.Forest())
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.scroll()
}

func (m *Model) current() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) currentNumber() string {
	if n := m.current(); n != nil {
		return n.Number
	}
	return ""
}

func (m *Model) focusNumber(number string) {
	for i, n := range m.rows {
		if n.Number == number {
			m.move(i)
			return
		}
	}
}

func (m *Model) move(i int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(i, 0), len(m.rows)-1)
	m.scroll()
}

func (m *Model) expandOrEnter() {
	n := m.current()
	if n == nil || n.IsLeaf() {
		return
	}
	if !m.expanded[n.Number] {
		m.expanded[n.Number] = true
		m.rebuild()
		return
	}
	m.move(m.cursor + 1)
}

func (m *Model) collapseOrLeave() {
	n := m.current()
	if n == nil {
		return
	}
	if !n.IsLeaf() && m.expanded[n.Number] {
		delete(m.expanded, n.Number)
		m.rebuild()
		return
	}
	if n.Parent != nil {
		m.focusNumber(n.Parent.Number)
	}
}

func (m *Model) expandSiblings() {
	n := m.current()
	if n == nil {
		return
	}
	siblings := m.c.Forest()
	if n.Parent != nil {
		siblings = n.Parent.Children
	}
	for _, s := range siblings {
		if !s.IsLeaf() {
			m.expanded[s.Number] = true
		}
	}
	m.rebuild()
	m.focusNumber(n.Number)
}

func (m *Model) cycle() {
	n := m.current()
	if n == nil {
		return
	}
	if n.Informative() {
		m.status = n.Number + " is informative and follows its parent"
		return
	}
	m.c.Cycle(n.Number)
	m.status = fmt.Sprintf("%s %s", n.Number, m.c.State(n.Number))
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		m.status = "No presets defined"
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	p := m.presets[m.preset]
	m.c.ApplyPreset(p.Clauses)
	m.status = "Preset: " + p.LocalName(m.lang)
}

// typeAhead moves to the next visible clause whose number or name starts with
// the characters typed within the last second.
func (m *Model) typeAhead(ch string) {
	now := m.now()
	if now.Sub(m.typedAt) > typeAheadWindow {
		m.typed = ""
	}
	m.typedAt = now
	m.typed += ch
	prefix := strings.ToLower(m.typed)

	start := m.cursor + 1
	if len(m.typed) > 1 {
		start = m.cursor
	}
	for i := range m.rows {
		n := m.rows[(start+i)%len(m.rows)]
		name := strings.ToLower(n.Clause.LocalName(m.lang))
		if strings.HasPrefix(n.Number, prefix) || (!n.Placeholder && strings.HasPrefix(name, prefix)) {
			m.move((start + i) % len(m.rows))
			return
		}
	}
	m.status = fmt.Sprintf("No clause matches %q", m.typed)
}

func (m *Model) listHeight() int {
	// title, blank line, status
	return max(m.height-3, 1)
}

func (m *Model) scroll() {
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset > max(len(m.rows)-visible, 0) {
		m.offset = max(len(m.rows)-visible, 0)
	}
}

func (m *Model) helpSize() (int, int) {
	return min(m.width, 80), max(m.height-2, 8)
}
