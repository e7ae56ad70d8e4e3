package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tensu/internal/prefs"
	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	Backend Backend
	Poller  Poller

	// Prefs seeds the theme, view and filters.
	Prefs     prefs.Prefs
	Namespace string
	// Username is recorded as the creator of new silences.
	Username       string
	MaxFetchEvents int
	LogPath        string
	Tick           time.Duration
	Clock          func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	store    *state.Store
	backend  Backend
	poller   Poller
	username string
	logPath  string
	maxFetch int
	tick     time.Duration
	now      func() time.Time

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool
	modal    Modal

	// Query state
	view      state.View
	namespace string
	filters   prefs.Filters
	limit     int

	// Data state
	snapshot  state.Snapshot
	filtered  []sensu.Item
	filterErr error
	logLines  []string

	// List state
	selected int
	offset   int

	// Status line
	status        string
	statusIsError bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	view, err := state.ParseView(opts.Prefs.View)
	status := ""
	if err != nil {
		status = err.Error()
	}
	namespace := strings.TrimSpace(opts.Namespace)
	if namespace == "" {
		namespace = "default"
	}

	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		backend:       opts.Backend,
		poller:        opts.Poller,
		username:      opts.Username,
		logPath:       opts.LogPath,
		maxFetch:      opts.MaxFetchEvents,
		tick:          tick,
		now:           clock,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		theme:         GetTheme(opts.Prefs.Theme),
		view:          view,
		namespace:     namespace,
		filters:       opts.Prefs.Filters,
		limit:         opts.MaxFetchEvents,
		status:        status,
		statusIsError: err != nil,
	}
	m.applyHelpStyles()
	return m
}

// Prefs returns the UI state to persist for the next run.
func (m Model) Prefs() prefs.Prefs {
	return prefs.Prefs{
		Theme:     m.theme.Name,
		View:      m.view.String(),
		Namespace: m.namespace,
		Filters:   m.filters,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		if d, ok := m.modal.(*detailModal); ok {
			d.resize(m.width, m.height)
		}
		m.clampSelection()
		m.submitIfLimitChanged()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case logLinesMsg:
		m.logLines = msg
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(msg.text)
		if msg.refresh {
			m.submit()
		}
		return m, nil

	case namespacesMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if len(msg.names) == 0 {
			m.setStatus("No namespaces visible")
			return m, nil
		}
		m.setNamespace(nextNamespace(msg.names, m.namespace))
		return m, nil

	case eventMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if d, ok := m.modal.(*detailModal); ok && msg.item != nil && d.matches(msg.item) {
			d.setItem(msg.item)
		}
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if !closed {
			m.modal = modal
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showLogs && m.logPath != "" {
		cmds = append(cmds, readLogsCmd(m.logPath, logPaneRows-1))
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if !closed {
			m.modal = modal
			return m, cmd
		}
		m.modal = nil
		next, closeCmd := m.onModalClosed(modal)
		return next, tea.Batch(cmd, closeCmd)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyHelpStyles()
		m.setStatus("Theme: " + m.theme.Name)
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.clampSelection()
		m.submitIfLimitChanged()
		if m.showLogs && m.logPath != "" {
			return m, readLogsCmd(m.logPath, logPaneRows-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewNotPassing):
		m.setView(state.ViewNotPassing)
		return m, nil
	case key.Matches(msg, m.keys.ViewAll):
		m.setView(state.ViewAll)
		return m, nil
	case key.Matches(msg, m.keys.ViewSilenced):
		m.setView(state.ViewSilenced)
		return m, nil

	case key.Matches(msg, m.keys.NextNamespace):
		m.setStatus("Loading namespaces...")
		return m, m.fetchNamespacesCmd()

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.move(-maxInt(m.listRows()-1, 1))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.move(maxInt(m.listRows()-1, 1))
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.filtered))
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.filtered))
		return m, nil

	case key.Matches(msg, m.keys.FilterFirst):
		return m.openFilterPrompt(promptFilterFirst)
	case key.Matches(msg, m.keys.FilterSecond):
		return m.openFilterPrompt(promptFilterSecond)
	case key.Matches(msg, m.keys.FilterThird):
		return m.openFilterPrompt(promptFilterThird)
	case key.Matches(msg, m.keys.ClearFilters):
		for _, slot := range []promptKind{promptFilterFirst, promptFilterSecond, promptFilterThird} {
			*m.filterField(slot) = ""
		}
		m.refilter()
		m.setStatus("Filters cleared")
		return m, nil
	}

	return m.handleItemKey(msg)
}

// handleItemKey processes keys that act on the selected item.
func (m Model) handleItemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	events := m.view.IsEvents()

	switch {
	case key.Matches(msg, m.keys.Detail):
		m.modal = newDetailModal(item, events, m.now(), m.width, m.height)
		if events {
			return m, m.fetchEventCmd(item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if events {
			return m, copyCmd(item.EntityName() + ":" + item.CheckName())
		}
		return m, copyCmd(item.Name())

	case events && key.Matches(msg, m.keys.Rerun):
		m.setStatus("Re-running " + item.CheckName() + "...")
		return m, m.rerunCmd(item)

	case events && key.Matches(msg, m.keys.Resolve):
		m.setStatus("Resolving " + item.EntityName() + "/" + item.CheckName() + "...")
		return m, m.resolveCmd(item)

	case events && key.Matches(msg, m.keys.Silence):
		entry := "entity:" + item.EntityName() + ":" + item.CheckName()
		m.modal = newPrompt(promptSilenceEntry, "Silence (subscription:check)", entry, "entity:host:check or subscription:*")
		return m, nil

	case events && key.Matches(msg, m.keys.ClearSilences):
		names := item.SilencedBy()
		if len(names) == 0 {
			m.setStatus("Event is not silenced")
			return m, nil
		}
		return m, m.deleteSilencesCmd(names)

	case !events && key.Matches(msg, m.keys.DeleteSilence):
		m.setStatus("Deleting " + item.Name() + "...")
		return m, m.deleteSilencesCmd([]string{item.Name()})
	}
	return m, nil
}

func (m Model) onModalClosed(closed Modal) (tea.Model, tea.Cmd) {
	p, ok := closed.(*promptModal)
	if !ok || !p.submitted {
		return m, nil
	}
	value := strings.TrimSpace(p.Value())

	switch p.kind {
	case promptFilterFirst, promptFilterSecond, promptFilterThird:
		*m.filterField(p.kind) = value
		m.selected, m.offset = 0, 0
		m.refilter()
		if m.filterErr == nil {
			m.setStatus("Filter set")
		}
		return m, nil

	case promptSilenceEntry:
		if value == "" {
			m.setStatus("Silence cancelled")
			return m, nil
		}
		next := newPrompt(promptSilenceReason, "Reason for silencing "+value, "", "optional")
		next.entry = value
		m.modal = next
		return m, nil

	case promptSilenceReason:
		m.setStatus("Silencing " + p.entry + "...")
		return m, m.silenceCmd(p.entry, value)
	}
	return m, nil
}

func (m Model) openFilterPrompt(slot promptKind) (tea.Model, tea.Cmd) {
	m.modal = newPrompt(slot, "Filter "+m.filterLabel(slot)+" (regex)", *m.filterField(slot), "empty clears the filter")
	return m, nil
}

// filterField maps a filter slot to the field it edits in the current view.
func (m *Model) filterField(slot promptKind) *string {
	events := m.view.IsEvents()
	switch slot {
	case promptFilterSecond:
		if events {
			return &m.filters.Check
		}
		return &m.filters.Creator
	case promptFilterThird:
		if events {
			return &m.filters.Output
		}
		return &m.filters.Reason
	default:
		if events {
			return &m.filters.Host
		}
		return &m.filters.Name
	}
}

func (m Model) filterLabel(slot promptKind) string {
	labels := []string{"host", "check", "output"}
	if !m.view.IsEvents() {
		labels = []string{"name", "creator", "reason"}
	}
	switch slot {
	case promptFilterSecond:
		return labels[1]
	case promptFilterThird:
		return labels[2]
	default:
		return labels[0]
	}
}

func (m *Model) setView(v state.View) {
	if v == m.view {
		return
	}
	m.view = v
	m.selected, m.offset = 0, 0
	m.filtered = nil
	m.submit()
}

func (m *Model) setNamespace(ns string) {
	if ns == m.namespace {
		m.setStatus("Namespace: " + ns)
		return
	}
	m.namespace = ns
	m.selected, m.offset = 0, 0
	m.filtered = nil
	m.setStatus("Namespace: " + ns)
	m.submit()
}

func (m *Model) submit() {
	if m.poller == nil {
		return
	}
	m.poller.Submit(state.Request{Namespace: m.namespace, View: m.view, Limit: m.limit})
}

// submitIfLimitChanged raises the page size so one page fills the list.
func (m *Model) submitIfLimitChanged() {
	limit := maxInt(m.maxFetch, m.listRows())
	if limit == m.limit {
		return
	}
	m.limit = limit
	m.submit()
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.refilter()
}

// refilter recomputes the visible list. Items that belong to a previous
// query are hidden until the poller catches up.
func (m *Model) refilter() {
	if m.snapshot.View != m.view || m.snapshot.Namespace != m.namespace {
		m.filtered = nil
		m.filterErr = nil
		m.clampSelection()
		return
	}
	m.filtered, m.filterErr = state.ApplyFilters(m.view, m.snapshot.Items, m.filters)
	m.clampSelection()
}

func (m *Model) move(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.filtered)
	m.selected = clamp(m.selected, 0, n-1)
	rows := m.listRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = clamp(m.offset, 0, maxInt(n-rows, 0))
}

func (m Model) selectedItem() (sensu.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return nil, false
	}
	return m.filtered[m.selected], true
}

// listRows is how many list rows fit on screen.
func (m Model) listRows() int {
	rows := m.height - chromeRows
	if m.showLogs {
		rows -= logPaneRows
	}
	return maxInt(rows, 1)
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	if sensu.IsUnauthorized(err) {
		m.status = "Error! Not authorized: " + err.Error()
	} else {
		m.status = "Error! " + err.Error()
	}
	m.statusIsError = true
}

func (m *Model) applyHelpStyles() {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.Ellipsis = styles.FaintText
}

// Run starts the Bubble Tea program and returns the UI state to persist
// once the user quits or ctx is canceled.
func Run(ctx context.Context, opts Options) (prefs.Prefs, error) {
	opts.Context = ctx
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	return m.Prefs(), err
}

var _ tea.Model = Model{}
