package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastKind tells success toasts from error toasts
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

const (
	successToastDuration = 3 * time.Second
	errorToastDuration   = 6 * time.Second
	maxToasts            = 3
	toastTickInterval    = 250 * time.Millisecond
)

// Toast is a short notification that dismisses itself
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// expired reports whether the toast should be gone at now
func (t Toast) expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// ToastManager holds the visible toasts, newest first
type ToastManager struct {
	toasts []Toast
	nextID int
	now    func() time.Time
}

// NewToastManager creates an empty manager
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, now: time.Now}
}

// Success adds a success toast
func (m *ToastManager) Success(message string) int {
	return m.add(message, ToastSuccess, successToastDuration)
}

// Error adds an error toast
func (m *ToastManager) Error(message string) int {
	return m.add(message, ToastError, errorToastDuration)
}

func (m *ToastManager) add(message string, kind ToastKind, d time.Duration) int {
	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  d,
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return toast.ID
}

// Tick drops expired toasts and reports whether any remain
func (m *ToastManager) Tick() bool {
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// Dismiss removes the newest toast
func (m *ToastManager) Dismiss() {
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Toasts returns a copy of the visible toasts
func (m *ToastManager) Toasts() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// toastTickMsg drives auto-dismissal
type toastTickMsg time.Time

func toastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// View renders the toasts stacked, newest at the bottom
func (m *ToastManager) View(width int) string {
	if len(m.toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(m.toasts))
	for i := len(m.toasts) - 1; i >= 0; i-- {
		t := m.toasts[i]
		style := toastStyle.BorderForeground(colorSuccess)
		icon := "✓"
		if t.Kind == ToastError {
			style = toastStyle.BorderForeground(colorDestructive)
			icon = "✗"
		}
		rendered = append(rendered, style.Render(icon+" "+t.Message))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}
