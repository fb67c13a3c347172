package tui

import (
	"fmt"
	"io"
	"strings"

	"catalog-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	markSelected = "[x]"
	markNone     = "[ ]"
	markPinned   = "●"
)

// row is a list entry for one catalog item.
type row struct {
	item     model.Item
	selected bool
	pinned   bool
}

func (r row) FilterValue() string { return r.item.Label }
func (r row) Title() string       { return r.item.Label }

type rowDelegate struct {
	normal lipgloss.Style
	cursor lipgloss.Style
	pinned lipgloss.Style
	id     lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal: lipgloss.NewStyle(),
		cursor: lipgloss.NewStyle().
			Foreground(colorCursorFg).
			Background(colorCursorBg).
			Bold(true),
		pinned: lipgloss.NewStyle().Foreground(colorPinned),
		id:     styleMuted(),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	contentW := m.Width()
	r, ok := li.(row)
	if !ok || contentW < 8 {
		return
	}

	sel := markNone
	if r.selected {
		sel = markSelected
	}
	pin := " "
	if r.pinned {
		pin = d.pinned.Render(markPinned)
	}
	line := fmt.Sprintf("%s %s %s %s", sel, pin, r.item.Label, d.id.Render(fmt.Sprintf("#%d", r.item.ID)))

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	style := d.normal
	if index == m.Index() {
		style = d.cursor
	}
	fmt.Fprint(w, style.Render(line))
}
