// Package listview implements a virtual-scrolling list widget. Only the
// visible window of items is rendered, so browsers stay responsive on
// organizations with tens of thousands of memory blocks.
package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item; selected marks the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrollable list over items of type T.
type Model[T any] struct {
	items    []T
	render   RenderFunc[T]
	selected int
	top      int
	height   int
}

// New creates a list with the given viewport height.
func New[T any](items []T, height int, render RenderFunc[T]) *Model[T] {
	if height < 1 {
		height = 1
	}
	return &Model[T]{items: items, render: render, height: height}
}

// SetItems replaces the item set and clamps the cursor.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	if m.selected >= len(items) {
		m.selected = len(items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.clampWindow()
}

// SetHeight resizes the viewport.
func (m *Model[T]) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	m.height = height
	m.clampWindow()
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// SelectedItem returns the item under the cursor and whether one exists.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.selected], true
}

// Update handles navigation keys. Unknown messages are ignored so the
// parent model can multiplex input.
func (m *Model[T]) Update(msg tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return
	}

	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.height)
	case "pgdown":
		m.move(m.height)
	case "home":
		m.selected = 0
		m.clampWindow()
	case "end":
		m.selected = len(m.items) - 1
		m.clampWindow()
	}
}

// move shifts the cursor by delta, clamped to the item range.
func (m *Model[T]) move(delta int) {
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.items) {
		m.selected = len(m.items) - 1
	}
	m.clampWindow()
}

// clampWindow scrolls the viewport so the cursor stays visible.
func (m *Model[T]) clampWindow() {
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected >= m.top+m.height {
		m.top = m.selected - m.height + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// View renders the visible window.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	end := m.top + m.height
	if end > len(m.items) {
		end = len(m.items)
	}

	var b strings.Builder
	for i := m.top; i < end; i++ {
		b.WriteString(m.render(m.items[i], i == m.selected))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
