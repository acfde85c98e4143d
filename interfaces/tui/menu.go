package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olafwrieden/azurechat-v3/domain/thread"
)

// narrowWidth is the terminal width below which the menu opens under the row
const narrowWidth = 80

// Action is something the thread menu can do
type Action int

const (
	ActionBookmark Action = iota
	ActionRename
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionBookmark:
		return "bookmark"
	case ActionRename:
		return "rename"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// MenuItem is one row of the thread menu
type MenuItem struct {
	Label       string
	Action      Action
	Destructive bool
	Disabled    bool
	Separator   bool
}

// Placement says where the menu opens relative to its row
type Placement struct {
	Side  string // "right" or "bottom"
	Align string // "start" or "end"
}

// PlacementFor picks the menu placement for a terminal width
func PlacementFor(width int) Placement {
	if width > 0 && width < narrowWidth {
		return Placement{Side: "bottom", Align: "end"}
	}
	return Placement{Side: "right", Align: "start"}
}

// Menu is the dropdown attached to a single thread
type Menu struct {
	ThreadID  string
	Items     []MenuItem
	Placement Placement
	cursor    int
}

// NewMenu builds the menu for t. The bookmark entry reads by the thread's
// current flag.
func NewMenu(t thread.Thread, width int) *Menu {
	bookmarkLabel := "Bookmark"
	if thread.IsBookmarked(&t) {
		bookmarkLabel = "Remove Bookmark"
	}

	m := &Menu{
		ThreadID: t.ID,
		Items: []MenuItem{
			{Label: bookmarkLabel, Action: ActionBookmark},
			{Label: "Rename", Action: ActionRename},
			{Separator: true},
			{Label: "Delete", Action: ActionDelete, Destructive: true},
		},
		Placement: PlacementFor(width),
	}
	m.cursor = m.firstSelectable()
	return m
}

// SetPending disables the items whose action is in flight
func (m *Menu) SetPending(pending func(Action) bool) {
	for i := range m.Items {
		if m.Items[i].Separator {
			continue
		}
		m.Items[i].Disabled = pending(m.Items[i].Action)
	}
}

// Up moves the cursor to the previous selectable item
func (m *Menu) Up() {
	for i := m.cursor - 1; i >= 0; i-- {
		if m.selectable(i) {
			m.cursor = i
			return
		}
	}
}

// Down moves the cursor to the next selectable item
func (m *Menu) Down() {
	for i := m.cursor + 1; i < len(m.Items); i++ {
		if m.selectable(i) {
			m.cursor = i
			return
		}
	}
}

// Selected returns the item under the cursor unless it is disabled
func (m *Menu) Selected() (MenuItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.Items) {
		return MenuItem{}, false
	}
	item := m.Items[m.cursor]
	if item.Separator || item.Disabled {
		return item, false
	}
	return item, true
}

// Cursor returns the index of the highlighted item
func (m *Menu) Cursor() int {
	return m.cursor
}

func (m *Menu) selectable(i int) bool {
	return !m.Items[i].Separator
}

func (m *Menu) firstSelectable() int {
	for i := range m.Items {
		if m.selectable(i) {
			return i
		}
	}
	return 0
}

// View renders the menu box
func (m *Menu) View() string {
	var lines []string
	width := 0
	for _, item := range m.Items {
		if w := lipgloss.Width(item.Label); w > width {
			width = w
		}
	}
	width += 2

	for i, item := range m.Items {
		if item.Separator {
			lines = append(lines, menuSeparatorStyle.Render(strings.Repeat("─", width)))
			continue
		}

		prefix := "  "
		style := menuItemStyle
		switch {
		case item.Disabled:
			style = menuDisabledStyle
		case item.Destructive:
			style = menuDestructiveStyle
		}
		if i == m.cursor {
			prefix = menuCursorStyle.Render("›") + " "
			if !item.Disabled {
				style = style.Bold(true)
			}
		}
		lines = append(lines, prefix+style.Render(item.Label))
	}

	return menuStyle.Render(strings.Join(lines, "\n"))
}
