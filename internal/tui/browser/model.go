// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     browser
// Description: Interactive Bubbletea browser for parsed documents
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package browser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/tui"
)

// DocumentMsg replaces the browsed document, for example after the source
// changed on disk. A non-nil Err is shown in the status bar and the current
// tree is kept.
type DocumentMsg struct {
	Doc *tree.Document
	Err error
}

// row is one visible line of the tree
type row struct {
	item  *tree.ProjectItem
	depth int
	key   string
	// parent is the index of the parent row, -1 for top-level items
	parent int
}

// Model is the Bubbletea model of the document browser
type Model struct {
	// State
	width  int
	height int
	ready  bool
	err    error
	title  string

	doc      *tree.Document
	rows     []row
	expanded map[string]bool
	cursor   int
	offset   int

	// Components
	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	styles   tui.Styles
}

// New creates a browser for doc. Top-level items start expanded.
func New(doc *tree.Document, title string) Model {
	m := Model{
		title:    title,
		expanded: make(map[string]bool),
		help:     help.New(),
		keys:     DefaultKeys,
		styles:   tui.NewStyles(nil),
	}
	m.setDocument(doc)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case DocumentMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.setDocument(msg.Doc)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(m.cursor - 1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.cursor + 1)

	case key.Matches(msg, m.keys.Left):
		if r, ok := m.selectedRow(); ok {
			if m.expanded[r.key] && len(r.item.Children) > 0 {
				m.expanded[r.key] = false
				m.refresh()
			} else if r.parent >= 0 {
				m.moveCursor(r.parent)
			}
		}

	case key.Matches(msg, m.keys.Right):
		if r, ok := m.selectedRow(); ok && len(r.item.Children) > 0 {
			if m.expanded[r.key] {
				m.moveCursor(m.cursor + 1)
			} else {
				m.expanded[r.key] = true
				m.refresh()
			}
		}

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selectedRow(); ok && len(r.item.Children) > 0 {
			m.expanded[r.key] = !m.expanded[r.key]
			m.refresh()
		}

	case key.Matches(msg, m.keys.ExpandAll):
		m.expandAll(m.doc.Items, "")
		m.refresh()

	case key.Matches(msg, m.keys.DetailUp):
		m.viewport.HalfViewUp()

	case key.Matches(msg, m.keys.DetailDown):
		m.viewport.HalfViewDown()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}

	return m, nil
}

// Selected returns the item under the cursor, nil for an empty document
func (m Model) Selected() *tree.ProjectItem {
	if r, ok := m.selectedRow(); ok {
		return r.item
	}
	return nil
}

// Visible returns the number of visible tree rows
func (m Model) Visible() int {
	return len(m.rows)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	treeWidth := m.treeWidth()
	bodyHeight := m.bodyHeight()

	treePane := m.styles.FocusBox.
		Width(treeWidth).
		Height(bodyHeight).
		Render(m.renderTree(treeWidth, bodyHeight))
	detailPane := m.styles.Box.
		Width(m.detailWidth()).
		Height(bodyHeight).
		Render(m.viewport.View())

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, treePane, detailPane))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) setDocument(doc *tree.Document) {
	if doc == nil {
		doc = &tree.Document{}
	}
	first := m.doc == nil
	m.doc = doc

	if first {
		for i := range doc.Items {
			m.expanded[strconv.Itoa(i)] = true
		}
	}
	m.refresh()
}

// refresh rebuilds the visible rows and keeps the cursor in range
func (m *Model) refresh() {
	m.rows = nil
	m.flatten(m.doc.Items, 0, "", -1)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
	m.updateDetails()
}

func (m *Model) flatten(items []*tree.ProjectItem, depth int, prefix string, parent int) {
	for i, item := range items {
		k := prefix + strconv.Itoa(i)
		m.rows = append(m.rows, row{item: item, depth: depth, key: k, parent: parent})
		if m.expanded[k] {
			m.flatten(item.Children, depth+1, k+"/", len(m.rows)-1)
		}
	}
}

func (m *Model) expandAll(items []*tree.ProjectItem, prefix string) {
	for i, item := range items {
		if len(item.Children) == 0 {
			continue
		}
		k := prefix + strconv.Itoa(i)
		m.expanded[k] = true
		m.expandAll(item.Children, k+"/")
	}
}

func (m *Model) moveCursor(to int) {
	if to < 0 || to >= len(m.rows) {
		return
	}
	m.cursor = to
	m.scroll()
	m.updateDetails()
}

// scroll keeps the cursor inside the visible window of the tree pane
func (m *Model) scroll() {
	height := m.bodyHeight()
	if height <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset > 0 && m.offset > len(m.rows)-height {
		m.offset = max(0, len(m.rows)-height)
	}
}

func (m Model) selectedRow() (row, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return row{}, false
}

func (m *Model) updateDetails() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(Details(m.Selected(), m.styles))
	m.viewport.GotoTop()
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	width, height := m.detailWidth(), m.bodyHeight()
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.help.Width = m.width
	m.scroll()
	m.updateDetails()
}

func (m Model) treeWidth() int {
	return max(20, m.width*2/5-4)
}

func (m Model) detailWidth() int {
	return max(20, m.width-m.treeWidth()-8)
}

// bodyHeight is the height of both panes without borders: the title, the
// status bar and the help take the rest
func (m Model) bodyHeight() int {
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 4
	}
	return max(3, m.height-helpHeight-5)
}

func (m Model) renderTree(width, height int) string {
	if len(m.rows) == 0 {
		return m.styles.Detail.Render("(empty document)")
	}

	end := min(len(m.rows), m.offset+height)
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]

		marker := "  "
		if len(r.item.Children) > 0 {
			marker = "▸ "
			if m.expanded[r.key] {
				marker = "▾ "
			}
		}

		text := strings.Repeat("  ", r.depth) + marker + tui.ItemLabel(r.item)
		if lipgloss.Width(text) > width {
			text = truncate(text, width)
		}

		if i == m.cursor {
			lines = append(lines, m.styles.Selected.Render(text))
		} else {
			lines = append(lines, m.styles.ItemStyle(r.item.Type).Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("%d items", m.doc.Len())
	if n := len(m.doc.Diagnostics); n > 0 {
		left += fmt.Sprintf(" · %d warnings", n)
	}
	if m.err != nil {
		left = m.styles.Error.Render("reload failed: " + m.err.Error())
	}

	right := ""
	if len(m.rows) > 0 {
		right = fmt.Sprintf("%d/%d", m.cursor+1, len(m.rows))
	}

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return m.styles.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width < 2 {
		return s
	}
	return string(runes[:width-1]) + "…"
}
