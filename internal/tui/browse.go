package tui

import (
	"context"
	"fmt"
	"strings"

	"catalog-cli/internal/docs"
	"catalog-cli/internal/listctl"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scrollThreshold is the load-more distance in rows from the last loaded item.
const scrollThreshold = 5

// syncMsg asks the model to re-read the controller.
type syncMsg struct{}

type browseModel struct {
	ctx  context.Context
	ctl  *listctl.Controller
	keys keyMap

	list    list.Model
	search  textinput.Model
	spinner spinner.Model

	searching bool
	showHelp  bool
	width     int
	height    int
}

func newBrowseModel(ctx context.Context, ctl *listctl.Controller) browseModel {
	l := list.New(nil, newRowDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Search goes to the server; the list's own filter stays off.
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search"
	in.PromptStyle = lipgloss.NewStyle().Foreground(colorInputFocus)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return browseModel{
		ctx:     ctx,
		ctl:     ctl,
		keys:    defaultKeyMap(),
		list:    l,
		search:  in,
		spinner: sp,
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.ctl.Bootstrap))
}

// run performs a blocking controller call off the update loop.
func (m browseModel) run(fn func(context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return syncMsg{}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(1, msg.Height-3))
		m.search.Width = max(10, msg.Width-4)
		return m, nil

	case syncMsg:
		m.refresh()
		return m, m.maybeLoadMore()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Leave) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctl.SetSearch(v)
	}
	return m, cmd
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.list.Index()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Reload):
		return m, m.run(func(ctx context.Context) { m.ctl.Load(ctx, true) })

	case key.Matches(msg, m.keys.Toggle):
		r, ok := m.list.SelectedItem().(row)
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) { m.ctl.ToggleSelect(ctx, r.item.ID) })

	case key.Matches(msg, m.keys.MoveUp):
		if idx <= 0 {
			return m, nil
		}
		m.list.Select(idx - 1)
		return m, m.run(func(ctx context.Context) { m.ctl.Reorder(ctx, idx, idx-1) })

	case key.Matches(msg, m.keys.MoveDown):
		if idx < 0 || idx >= len(m.list.Items())-1 {
			return m, nil
		}
		m.list.Select(idx + 1)
		return m, m.run(func(ctx context.Context) { m.ctl.Reorder(ctx, idx, idx+1) })
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

// maybeLoadMore treats the cursor as the scroll position: one row per item.
func (m browseModel) maybeLoadMore() tea.Cmd {
	s := m.ctl.Snapshot()
	if s.Loading || !s.HasMore || len(s.Items) == 0 {
		return nil
	}
	if !m.ctl.NearBottom(float64(m.list.Index()), 1, float64(len(s.Items))) {
		return nil
	}
	return m.run(func(ctx context.Context) { m.ctl.Load(ctx, false) })
}

// refresh rebuilds the list rows from the controller, keeping the cursor in range.
func (m *browseModel) refresh() {
	s := m.ctl.Snapshot()
	selected := idSet(s.SelectedIDs)
	pinned := idSet(s.SortedIDs)
	rows := make([]list.Item, len(s.Items))
	for i, it := range s.Items {
		rows[i] = row{item: it, selected: selected[it.ID], pinned: pinned[it.ID]}
	}
	idx := m.list.Index()
	m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (m browseModel) View() string {
	if m.showHelp {
		md, _ := docs.Get("browse")
		return RenderMarkdown(md, m.width-2) + "\n\n" + styleMuted().Render("press any key")
	}
	s := m.ctl.Snapshot()

	var header string
	if m.searching || s.Search != "" {
		header = m.search.View()
	} else {
		header = styleMuted().Render("/ search")
	}

	status := fmt.Sprintf("%d loaded · %d selected", len(s.Items), len(s.SelectedIDs))
	switch {
	case s.Loading:
		status = m.spinner.View() + " " + status
	case !s.HasMore:
		status += " · end"
	}

	var body string
	if len(s.Items) == 0 && !s.Loading {
		body = styleMuted().Render("no items")
	} else {
		body = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		styleMuted().Render(status+"  "+helpLine(m.keys.help())),
	)
}

func helpLine(bs []key.Binding) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
