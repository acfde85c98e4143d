// Package tui is the interactive thread browser behind `threadctl browse`.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	"github.com/olafwrieden/azurechat-v3/pkg/utils"
)

// Toast messages
const (
	msgThreadDeleted    = "Thread deleted"
	msgDeleteFailed     = "Failed to delete thread"
	msgThreadBookmarked = "Thread bookmarked"
	msgBookmarkRemoved  = "Bookmark removed"
	msgBookmarkFailed   = "Failed to bookmark thread"
	msgThreadRenamed    = "Thread renamed"
	msgRenameFailed     = "Failed to rename thread"
	msgThreadCreated    = "Thread created"
	msgCreateFailed     = "Failed to create thread"
)

// API is what the browser needs from the thread API client
type API interface {
	ListThreads(ctx context.Context, query queries.ListThreadsQuery) ([]thread.Thread, error)
	CreateThread(ctx context.Context, userID string) (*thread.Thread, error)
	ToggleBookmark(ctx context.Context, id string) (*thread.Thread, error)
	RenameThread(ctx context.Context, id, title string) (*thread.Thread, error)
	DeleteThread(ctx context.Context, id string) (*commands.DeleteResult, error)
	InvalidateQueries(procedure string) int
}

type mode int

const (
	modeList mode = iota
	modeMenu
	modeRename
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	New     key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter", "."), key.WithHelp("enter", "actions")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new thread")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// pendingKey identifies one in-flight mutation
type pendingKey struct {
	threadID string
	action   Action
}

// Messages produced by the API commands
type (
	threadsLoadedMsg struct {
		threads []thread.Thread
		err     error
	}
	bookmarkDoneMsg struct {
		threadID string
		thread   *thread.Thread
		err      error
	}
	renameDoneMsg struct {
		threadID string
		thread   *thread.Thread
		err      error
	}
	deleteDoneMsg struct {
		threadID string
		result   *commands.DeleteResult
		err      error
	}
	createDoneMsg struct {
		thread *thread.Thread
		err    error
	}
)

// Options configures the browser
type Options struct {
	UserID  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Model is the thread browser
type Model struct {
	api     API
	opts    Options
	logger  *zap.Logger
	threads []thread.Thread
	cursor  int
	loading bool
	loadErr error

	mode    mode
	menu    *Menu
	rename  textinput.Model
	pending map[pendingKey]bool

	toasts  *ToastManager
	ticking bool
	spinner spinner.Model

	width  int
	height int
}

// New creates the browser model
func New(api API, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "New title"
	ti.Prompt = "Rename: "
	ti.CharLimit = 512
	ti.Width = 48
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		api:     api,
		opts:    opts,
		logger:  logger,
		loading: true,
		rename:  ti,
		pending: make(map[pendingKey]bool),
		toasts:  NewToastManager(),
		spinner: sp,
	}
}

// Init starts the first load
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadThreads(), m.spinner.Tick)
}

func (m Model) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.opts.Timeout)
}

func (m Model) loadThreads() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		threads, err := m.api.ListThreads(ctx, queries.ListThreadsQuery{})
		return threadsLoadedMsg{threads: threads, err: err}
	}
}

func (m Model) toggleBookmark(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		t, err := m.api.ToggleBookmark(ctx, id)
		return bookmarkDoneMsg{threadID: id, thread: t, err: err}
	}
}

func (m Model) renameThread(id, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		t, err := m.api.RenameThread(ctx, id, title)
		return renameDoneMsg{threadID: id, thread: t, err: err}
	}
}

func (m Model) deleteThread(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		result, err := m.api.DeleteThread(ctx, id)
		return deleteDoneMsg{threadID: id, result: result, err: err}
	}
}

func (m Model) createThread() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		t, err := m.api.CreateThread(ctx, m.opts.UserID)
		return createDoneMsg{thread: t, err: err}
	}
}

// refetch drops the cached listing and loads it again
func (m *Model) refetch() tea.Cmd {
	m.api.InvalidateQueries(rpc.ThreadsGetMany)
	m.loading = true
	return m.loadThreads()
}

// settled reports a successful mutation and reloads the list
func (m *Model) settled(message string) tea.Cmd {
	toast := m.successToast(message)
	return tea.Batch(toast, m.refetch())
}

func (m *Model) successToast(message string) tea.Cmd {
	m.toasts.Success(message)
	return m.startToastTick()
}

func (m *Model) errorToast(message string) tea.Cmd {
	m.toasts.Error(message)
	return m.startToastTick()
}

func (m *Model) startToastTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return toastTick()
}

func (m *Model) setPending(id string, action Action, on bool) {
	k := pendingKey{threadID: id, action: action}
	if on {
		m.pending[k] = true
	} else {
		delete(m.pending, k)
	}
	if m.menu != nil && m.menu.ThreadID == id {
		m.menu.SetPending(func(a Action) bool { return m.pending[pendingKey{threadID: id, action: a}] })
	}
}

// Pending reports whether action is in flight for the thread
func (m Model) Pending(id string, action Action) bool {
	return m.pending[pendingKey{threadID: id, action: action}]
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.menu != nil {
			m.menu.Placement = PlacementFor(m.width)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastTickMsg:
		if m.toasts.Tick() {
			return m, toastTick()
		}
		m.ticking = false
		return m, nil

	case threadsLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			m.logger.Warn("Failed to load threads", zap.Error(msg.err))
			return m, nil
		}
		m.threads = msg.threads
		if m.cursor >= len(m.threads) {
			m.cursor = max(len(m.threads)-1, 0)
		}
		if m.menu != nil && m.indexOf(m.menu.ThreadID) < 0 {
			m.closeMenu()
		}
		return m, nil

	case bookmarkDoneMsg:
		m.setPending(msg.threadID, ActionBookmark, false)
		if msg.err != nil {
			m.logger.Error("Error bookmarking thread", zap.String("thread_id", msg.threadID), zap.Error(msg.err))
			cmd := m.errorToast(msgBookmarkFailed)
			return m, cmd
		}
		m.closeMenuFor(msg.threadID)
		text := msgBookmarkRemoved
		if thread.IsBookmarked(msg.thread) {
			text = msgThreadBookmarked
		}
		cmd := m.settled(text)
		return m, cmd

	case renameDoneMsg:
		m.setPending(msg.threadID, ActionRename, false)
		if msg.err != nil {
			m.logger.Error("Error renaming thread", zap.String("thread_id", msg.threadID), zap.Error(msg.err))
			cmd := m.errorToast(msgRenameFailed)
			return m, cmd
		}
		cmd := m.settled(msgThreadRenamed)
		return m, cmd

	case deleteDoneMsg:
		m.setPending(msg.threadID, ActionDelete, false)
		if msg.err != nil {
			m.logger.Error("Error deleting thread", zap.String("thread_id", msg.threadID), zap.Error(msg.err))
			cmd := m.errorToast(msgDeleteFailed)
			return m, cmd
		}
		m.closeMenuFor(msg.threadID)
		if msg.result == nil || !msg.result.Success {
			toast := m.errorToast(msgDeleteFailed)
			cmd := tea.Batch(toast, m.refetch())
			return m, cmd
		}
		cmd := m.settled(msgThreadDeleted)
		return m, cmd

	case createDoneMsg:
		if msg.err != nil {
			m.logger.Error("Error creating thread", zap.Error(msg.err))
			cmd := m.errorToast(msgCreateFailed)
			return m, cmd
		}
		cmd := m.settled(msgThreadCreated)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeMenu:
			return m.updateMenu(msg)
		case modeRename:
			return m.updateRename(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.threads)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		if len(m.threads) > 0 {
			m.openMenu(m.threads[m.cursor])
		}
	case key.Matches(msg, keys.New):
		return m, m.createThread()
	case key.Matches(msg, keys.Refresh):
		cmd := m.refetch()
		return m, cmd
	case key.Matches(msg, keys.Dismiss):
		m.toasts.Dismiss()
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.closeMenu()
	case key.Matches(msg, keys.Up):
		m.menu.Up()
	case key.Matches(msg, keys.Down):
		m.menu.Down()
	case msg.Type == tea.KeyEnter:
		item, ok := m.menu.Selected()
		if !ok {
			return m, nil
		}
		return m.runAction(m.menu.ThreadID, item.Action)
	}
	return m, nil
}

func (m Model) runAction(id string, action Action) (tea.Model, tea.Cmd) {
	switch action {
	case ActionBookmark:
		m.setPending(id, ActionBookmark, true)
		return m, m.toggleBookmark(id)
	case ActionDelete:
		m.setPending(id, ActionDelete, true)
		return m, m.deleteThread(id)
	case ActionRename:
		m.mode = modeRename
		current := ""
		if i := m.indexOf(id); i >= 0 {
			current = thread.Title(&m.threads[i])
		}
		m.rename.SetValue(current)
		m.rename.CursorEnd()
		cmd := m.rename.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.rename.Blur()
		m.mode = modeMenu
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.rename.Value())
		if title == "" {
			return m, nil
		}
		id := m.menu.ThreadID
		m.rename.Blur()
		m.closeMenu()
		m.setPending(id, ActionRename, true)
		return m, m.renameThread(id, title)
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Model) openMenu(t thread.Thread) {
	m.menu = NewMenu(t, m.width)
	m.menu.SetPending(func(a Action) bool { return m.pending[pendingKey{threadID: t.ID, action: a}] })
	m.mode = modeMenu
}

func (m *Model) closeMenu() {
	m.menu = nil
	m.mode = modeList
}

func (m *Model) closeMenuFor(id string) {
	if m.menu != nil && m.menu.ThreadID == id && m.mode == modeMenu {
		m.closeMenu()
	}
}

func (m Model) indexOf(id string) int {
	for i := range m.threads {
		if m.threads[i].ID == id {
			return i
		}
	}
	return -1
}

// View renders the browser
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Threads"))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.threads) == 0:
		b.WriteString(m.spinner.View() + " Loading threads...\n")
	case m.loadErr != nil && len(m.threads) == 0:
		b.WriteString(menuDestructiveStyle.Render("Failed to load threads: "+m.loadErr.Error()) + "\n")
	case len(m.threads) == 0:
		b.WriteString(mutedStyle.Render("No threads yet. Press n to create one.") + "\n")
	default:
		for i := range m.threads {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	if m.mode == modeRename {
		b.WriteString("\n" + m.rename.View() + "\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))

	if toasts := m.toasts.View(m.width); toasts != "" {
		b.WriteString("\n" + toasts)
	}
	return b.String()
}

func (m Model) renderRow(i int) string {
	t := m.threads[i]

	marker := "  "
	if thread.IsBookmarked(&t) {
		marker = bookmarkStyle.Render("★ ")
	}
	label := thread.Title(&t)
	if label == "" {
		label = t.ID
	}
	line := fmt.Sprintf("%s%s  %s", marker, label, mutedStyle.Render(utils.FormatUnix(t.CreatedAt, "2006-01-02 15:04")))

	var pending []string
	for _, a := range []Action{ActionBookmark, ActionRename, ActionDelete} {
		if m.Pending(t.ID, a) {
			pending = append(pending, a.String())
		}
	}
	if len(pending) > 0 {
		line += " " + mutedStyle.Render(m.spinner.View()+" "+strings.Join(pending, ", "))
	}

	if i != m.cursor {
		return rowStyle.Render(line)
	}
	row := selectedRowStyle.Render(line)

	if m.menu == nil || m.menu.ThreadID != t.ID || m.mode == modeRename {
		return row
	}
	menu := m.menu.View()
	if m.menu.Placement.Side == "bottom" {
		width := m.width
		if width <= 0 {
			width = lipgloss.Width(row)
		}
		return lipgloss.JoinVertical(lipgloss.Left, row, lipgloss.PlaceHorizontal(width, lipgloss.Right, menu))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row, " ", menu)
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch m.mode {
	case modeMenu:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Open, keys.Back}
	case modeRename:
		return "enter save • esc cancel"
	default:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Open, keys.New, keys.Refresh, keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Threads returns the listed threads
func (m Model) Threads() []thread.Thread {
	return m.threads
}

// Menu returns the open menu, if any
func (m Model) Menu() *Menu {
	return m.menu
}

// Toasts returns the visible toasts
func (m Model) Toasts() []Toast {
	return m.toasts.Toasts()
}

// Run starts the browser on the terminal
func Run(api API, opts Options) error {
	_, err := tea.NewProgram(New(api, opts), tea.WithAltScreen()).Run()
	return err
}
