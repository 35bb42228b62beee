package browser

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/tui"
)

func sampleDoc() *tree.Document {
	return &tree.Document{Items: []*tree.ProjectItem{{
		Type: tree.ItemProject,
		Name: "demo",
		Children: []*tree.ProjectItem{
			{
				Type: tree.ItemDirectory,
				Name: "src",
				Children: []*tree.ProjectItem{
					{Type: tree.ItemFile, Name: "main.go", Description: "entry point"},
					{Type: tree.ItemFile, Name: "util.go"},
				},
			},
			{Type: tree.ItemFile, Name: "README.md", Attributes: map[string]string{"owner": "docs"}},
		},
	}}}
}

func start(t *testing.T, doc *tree.Document) Model {
	t.Helper()
	m := New(doc, "demo.fs")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestBrowser_InitialState(t *testing.T) {
	m := start(t, sampleDoc())

	// the project is expanded, src is not
	assert.Equal(t, 3, m.Visible())
	assert.Equal(t, "demo", m.Selected().Name)
	assert.Contains(t, m.View(), "demo.fs")
}

func TestBrowser_Navigation(t *testing.T) {
	m := start(t, sampleDoc())

	m = press(t, m, "down")
	assert.Equal(t, "src", m.Selected().Name)

	m = press(t, m, "l")
	assert.Equal(t, 5, m.Visible())
	assert.Equal(t, "src", m.Selected().Name)

	// right on an expanded node moves to its first child
	m = press(t, m, "right")
	assert.Equal(t, "main.go", m.Selected().Name)

	m = press(t, m, "j", "j")
	assert.Equal(t, "README.md", m.Selected().Name)

	// moving past the end is a no-op
	m = press(t, m, "down")
	assert.Equal(t, "README.md", m.Selected().Name)

	m = press(t, m, "k", "k")
	assert.Equal(t, "main.go", m.Selected().Name)

	// left on a leaf goes to the parent, left again collapses it
	m = press(t, m, "h")
	assert.Equal(t, "src", m.Selected().Name)
	m = press(t, m, "left")
	assert.Equal(t, 3, m.Visible())
}

func TestBrowser_ToggleAndExpandAll(t *testing.T) {
	m := start(t, sampleDoc())

	m = press(t, m, "enter")
	assert.Equal(t, 1, m.Visible())

	m = press(t, m, "e")
	assert.Equal(t, 5, m.Visible())

	m = press(t, m, "enter")
	assert.Equal(t, 1, m.Visible())
	assert.Equal(t, "demo", m.Selected().Name)
}

func TestBrowser_CursorClampedAfterCollapse(t *testing.T) {
	m := start(t, sampleDoc())
	m = press(t, m, "e", "down", "down", "down", "down")
	assert.Equal(t, "README.md", m.Selected().Name)

	updated, _ := m.Update(DocumentMsg{Doc: &tree.Document{Items: []*tree.ProjectItem{{Type: tree.ItemProject, Name: "small"}}}})
	m = updated.(Model)
	assert.Equal(t, 1, m.Visible())
	assert.Equal(t, "small", m.Selected().Name)
}

func TestBrowser_DocumentMsgError(t *testing.T) {
	m := start(t, sampleDoc())

	updated, _ := m.Update(DocumentMsg{Err: errors.New("unclosed tag")})
	m = updated.(Model)

	assert.Equal(t, "demo", m.Selected().Name)
	assert.Contains(t, m.View(), "reload failed: unclosed tag")
}

func TestBrowser_Quit(t *testing.T) {
	m := start(t, sampleDoc())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowser_EmptyDocument(t *testing.T) {
	m := start(t, &tree.Document{})
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "(empty document)")
	m = press(t, m, "down", "enter", "h")
	assert.Equal(t, 0, m.Visible())
}

func TestDetails(t *testing.T) {
	styles := tui.NewStyles(nil)
	item := &tree.ProjectItem{
		Type:        tree.ItemFile,
		Name:        "main.go",
		Path:        "cmd/main.go",
		Line:        7,
		Description: "entry point",
		CodeBlocks:  []tree.CodeBlock{{Language: "go", Code: "package main"}},
		Attributes:  map[string]string{"owner": "core", "lang": "go"},
	}

	out := Details(item, styles)
	for _, want := range []string{"Type:", "File", "main.go", "cmd/main.go", "Line:", "7", "entry point",
		"Code block 1 (go):", "package main", "lang = go", "owner = core"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Purpose")
	assert.Less(t, strings.Index(out, "lang = go"), strings.Index(out, "owner = core"))

	assert.Empty(t, Details(nil, styles))
}
