package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hindsight-ai/memctl/internal/client"
	listview "github.com/hindsight-ai/memctl/internal/tui/list"
)

// searchDebounce is how long the search box must be quiet before a
// query is sent to the service.
const searchDebounce = 300 * time.Millisecond

// SearchFunc runs a memory-block search for the given query string.
type SearchFunc func(query string) ([]client.MemoryBlock, error)

// debounceMsg fires after the debounce window; seq identifies which
// edit scheduled it so stale ticks are dropped.
type debounceMsg struct {
	seq int
}

// resultsMsg carries a completed search.
type resultsMsg struct {
	seq    int
	blocks []client.MemoryBlock
	err    error
}

var (
	browseTitleStyle  = lipgloss.NewStyle().Bold(true)
	browseCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	browseDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browseErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// BrowseModel is an interactive memory-block browser. Typing filters
// the list through the service search endpoint, debounced so a burst
// of keystrokes issues a single request.
type BrowseModel struct {
	search   textinput.Model
	list     *listview.Model[client.MemoryBlock]
	searchFn SearchFunc

	seq      int
	loading  bool
	err      error
	width    int
	height   int
	selected *client.MemoryBlock
	showBody bool
}

// NewBrowseModel creates a browser seeded with an initial result set.
func NewBrowseModel(blocks []client.MemoryBlock, searchFn SearchFunc) *BrowseModel {
	input := textinput.New()
	input.Placeholder = "search memory blocks"
	input.Prompt = "/ "
	input.Focus()

	return &BrowseModel{
		search:   input,
		list:     listview.New(blocks, 15, renderBlockRow),
		searchFn: searchFn,
	}
}

// Selected returns the block chosen with enter, or nil if the browser
// was quit without a selection.
func (m *BrowseModel) Selected() *client.MemoryBlock {
	return m.selected
}

func (m *BrowseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if block, ok := m.list.SelectedItem(); ok {
				m.selected = &block
			}
			return m, tea.Quit
		case "tab":
			m.showBody = !m.showBody
			return m, nil
		case "up", "down", "pgup", "pgdown", "home", "end":
			m.list.Update(msg)
			return m, nil
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.seq++
			return m, tea.Batch(cmd, m.debounceTick(m.seq))
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := msg.Height - 6
		if m.showBody {
			listHeight -= 6
		}
		m.list.SetHeight(listHeight)
		return m, nil

	case debounceMsg:
		// Only the latest edit's tick triggers a search.
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = true
		return m, m.runSearch(msg.seq, m.search.Value())

	case resultsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.list.SetItems(msg.blocks)
		}
		return m, nil
	}

	return m, nil
}

func (m *BrowseModel) debounceTick(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *BrowseModel) runSearch(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		blocks, err := m.searchFn(query)
		return resultsMsg{seq: seq, blocks: blocks, err: err}
	}
}

func (m *BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("Memory Blocks"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(browseErrStyle.Render("search failed: " + m.err.Error()))
	case m.loading:
		b.WriteString(browseDimStyle.Render("searching…"))
	case m.list.Len() == 0:
		b.WriteString(browseDimStyle.Render("no memory blocks match"))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	if m.showBody {
		if block, ok := m.list.SelectedItem(); ok {
			b.WriteString("\n")
			b.WriteString(browseDimStyle.Render(truncate(block.Content, 400)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf(
		"%d blocks • enter select • tab preview • esc quit", m.list.Len())))
	return b.String()
}

// renderBlockRow formats one list row with id, agent and a content
// snippet.
func renderBlockRow(block client.MemoryBlock, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	snippet := truncate(strings.ReplaceAll(block.Content, "\n", " "), 60)
	row := fmt.Sprintf("%s%-14s %-12s %s",
		cursor, truncate(block.ID, 14), truncate(block.AgentID, 12), snippet)
	if selected {
		return browseCursorStyle.Render(row)
	}
	return row
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
