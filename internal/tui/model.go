package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/tui/components"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/Veraticus/spice-ledger/internal/view"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus is the region receiving keyboard input.
type Focus int

const (
	FocusTable Focus = iota
	FocusForm
	FocusFilter
	FocusConfirm
)

func (f Focus) String() string {
	switch f {
	case FocusTable:
		return "table"
	case FocusForm:
		return "form"
	case FocusFilter:
		return "filter"
	case FocusConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Model is the bubbletea binder between the terminal and the controller.
// It never mutates expense state itself: every user intent becomes a
// controller call, and the table shows whatever snapshot comes back.
type Model struct {
	ctx           context.Context
	ctrl          *controller.Controller
	prompter      *Prompter
	logger        *slog.Logger
	confirmReply  chan<- bool
	pendingDelete int64
	theme         themes.Theme
	keymap        KeyMap
	help          help.Model
	filter        textinput.Model
	form          components.AddFormModel
	confirm       components.ConfirmModel
	table         components.ExpenseTableModel
	snapshot      controller.Snapshot
	config        Config
	filterTag     int
	width         int
	height        int
	focus         Focus
	prevFocus     Focus
	quitting      bool
}

// NewModel creates a model bound to ctrl. Confirmation requests raised
// through prompter are shown as a dialog.
func NewModel(ctx context.Context, ctrl *controller.Controller, prompter *Prompter, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by category"
	filter.CharLimit = 64
	filter.Width = 30

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		prompter: prompter,
		logger:   cfg.Logger,
		config:   cfg,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		filter:   filter,
		form:     components.NewAddFormModel(cfg.Theme),
		table:    components.NewExpenseTableModel(cfg.Theme),
		width:    cfg.Width,
		height:   cfg.Height,
		focus:    FocusTable,
	}
	m.handleResize()
	m.apply(ctrl.Snapshot())
	return m
}

// Init starts the first load and begins listening for confirmation requests.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCmd(),
		m.prompter.waitForRequest(m.ctx),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case snapshotMsg:
		m.apply(msg.snapshot)
		return m, nil

	case loadDoneMsg:
		m.apply(m.ctrl.Snapshot())
		return m, nil

	case addDoneMsg:
		if msg.err == nil {
			m.form.Reset()
			m.blurAll()
		}
		m.apply(m.ctrl.Snapshot())
		return m, nil

	case deleteDoneMsg:
		m.pendingDelete = 0
		m.apply(m.ctrl.Snapshot())
		return m, nil

	case confirmRequestMsg:
		m.showConfirm(msg)
		return m, m.prompter.waitForRequest(m.ctx)

	case filterDebounceMsg:
		if msg.tag == m.filterTag {
			m.applyFilter(msg.text)
		}
		return m, nil

	case components.SubmitMsg:
		return m, m.addCmd(msg.Category, msg.Amount)

	case components.FormCancelledMsg:
		m.blurAll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other component ticks.
	return m.delegate(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.answerConfirm(false)
		m.quitting = true
		return m, tea.Quit
	}

	switch m.focus {
	case FocusConfirm:
		m.confirm, _ = m.confirm.Update(msg)
		if m.confirm.IsComplete() {
			m.answerConfirm(m.confirm.Answer())
		}
		return m, nil

	case FocusForm:
		return m.delegate(msg)

	case FocusFilter:
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Add):
		m.ctrl.ClearFormError()
		m.apply(m.ctrl.Snapshot())
		m.table.Blur()
		m.focus = FocusForm
		return m, m.form.Focus()

	case key.Matches(msg, m.keymap.Delete):
		selected, ok := m.table.Selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = selected.ID
		return m, m.deleteCmd(selected.ID)

	case key.Matches(msg, m.keymap.SortCategory):
		m.ctrl.ClickHeader(view.ColumnCategory)
		m.apply(m.ctrl.Snapshot())
		return m, nil

	case key.Matches(msg, m.keymap.SortAmount):
		m.ctrl.ClickHeader(view.ColumnAmount)
		m.apply(m.ctrl.Snapshot())
		return m, nil

	case key.Matches(msg, m.keymap.Filter):
		m.table.Blur()
		m.focus = FocusFilter
		return m, m.filter.Focus()

	case key.Matches(msg, m.keymap.ClearFilter):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.filterTag++
			m.applyFilter("")
		}
		return m, nil

	case key.Matches(msg, m.keymap.Reload):
		return m, m.loadCmd()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.handleResize()
		return m, nil
	}

	return m.delegate(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.blurAll()
		// Apply what was typed without waiting for the debounce.
		m.filterTag++
		m.applyFilter(m.filter.Value())
		return m, nil
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filterTag++
		m.applyFilter("")
		m.blurAll()
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.debounceFilter())
}

// delegate forwards msg to the focused component.
func (m Model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusTable:
		m.table, cmd = m.table.Update(msg)
	case FocusForm:
		m.form, cmd = m.form.Update(msg)
	case FocusFilter:
		m.filter, cmd = m.filter.Update(msg)
	case FocusConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}
	return m, cmd
}

// apply renders s unless a newer snapshot was already shown.
func (m *Model) apply(s controller.Snapshot) {
	if s.Revision < m.snapshot.Revision {
		return
	}
	m.snapshot = s
	m.table.SetExpenses(s.View, s.Directive, s.EmptyMessage())
	m.form.SetError(s.FormError)
}

func (m *Model) applyFilter(text string) {
	m.ctrl.SetFilter(text)
	m.apply(m.ctrl.Snapshot())
}

func (m *Model) debounceFilter() tea.Cmd {
	m.filterTag++
	tag, text := m.filterTag, m.filter.Value()

	if m.config.FilterDebounce <= 0 {
		m.applyFilter(text)
		return nil
	}
	return tea.Tick(m.config.FilterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{tag: tag, text: text}
	})
}

func (m *Model) showConfirm(req confirmRequestMsg) {
	// A second request while a dialog is open declines the first.
	m.answerConfirm(false)

	var detail string
	if e, ok := m.snapshot.Find(m.pendingDelete); ok {
		detail = e.Category + "  " + e.FormattedAmount()
	}
	m.confirm = components.NewConfirmModel(req.prompt, detail, m.theme)
	m.confirm, _ = m.confirm.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.confirmReply = req.reply
	m.prevFocus = m.focus
	m.focus = FocusConfirm
}

// answerConfirm replies to an open dialog, if any, and restores focus.
func (m *Model) answerConfirm(ok bool) {
	if m.confirmReply == nil {
		return
	}
	m.confirmReply <- ok
	m.confirmReply = nil
	m.focus = m.prevFocus
	if m.focus == FocusTable {
		m.table.Focus()
	}
}

func (m *Model) blurAll() {
	m.form.Blur()
	m.filter.Blur()
	m.focus = FocusTable
	m.table.Focus()
}

func (m *Model) handleResize() {
	m.table.SetSize(m.width, m.height-m.chromeHeight())
	m.help.Width = m.width
}

// Commands. Each runs a controller operation off the event loop and reports
// back; the controller has already reconciled its state by then.

func (m Model) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadDoneMsg{err: ctrl.Load(ctx)}
	}
}

func (m Model) addCmd(category, amount string) tea.Cmd {
	ctx, ctrl, logger := m.ctx, m.ctrl, m.logger
	return func() tea.Msg {
		err := ctrl.Add(ctx, category, amount)
		if err != nil {
			logger.Debug("Add failed", "error", err)
		}
		return addDoneMsg{err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	ctx, ctrl, logger := m.ctx, m.ctrl, m.logger
	return func() tea.Msg {
		confirmed, err := ctrl.Delete(ctx, id)
		if err != nil {
			logger.Debug("Delete failed", "id", id, "error", err)
		}
		return deleteDoneMsg{id: id, confirmed: confirmed, err: err}
	}
}

// Focus returns the region that currently has keyboard focus.
func (m Model) Focus() Focus {
	return m.focus
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() controller.Snapshot {
	return m.snapshot
}

// FilterText returns the raw contents of the filter input.
func (m Model) FilterText() string {
	return m.filter.Value()
}

// FormValues returns the raw contents of the add form.
func (m Model) FormValues() (category, amount string) {
	return m.form.Values()
}
