// File: parser_test.go
// Title: ForSure Parser Unit Tests
// Description: Unit tests for the ForSure parser: tree shape, content tags,
//              attributes, code blocks, diagnostics, error kinds and the
//              round trip through the serializer.
// Author: msto63
// Version: v0.3.0
// Created: 2026-10-05
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-05 v0.1.0: Initial parser tests
// - 2026-10-12 v0.2.0: Code blocks, diagnostics, round trip
// - 2026-10-18 v0.3.0: File bodies, content tag attributes, nested headings

package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
)

func mustParse(t *testing.T, input string) *tree.Document {
	t.Helper()
	p, err := New(Options{Logger: fslog.Discard()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	doc, err := p.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func outline(t *testing.T, doc *tree.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tree.Print(&buf, doc); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	return buf.String()
}

const sampleDocument = "# MyProject\n" +
	"<description>A sample project</description>\n" +
	"\n" +
	"## src\n" +
	"<file name=\"main.go\" path=\"src/main.go\">\n" +
	"<purpose>Entry point</purpose>\n" +
	"```go\n" +
	"package main\n" +
	"```\n" +
	"</file>\n" +
	"- lib.go <path=\"src/lib.go\">\n" +
	"\n" +
	"## docs\n" +
	"* README.md <command=\"touch README.md\">\n"

const sampleOutline = `Project: MyProject
  Directory: src
    File: main.go (path: src/main.go)
    ListItem: lib.go (path: src/lib.go)
  Directory: docs
    ListItem: README.md (command: touch README.md)
`

func TestParse_SampleDocument(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	if got := outline(t, doc); got != sampleOutline {
		t.Errorf("outline mismatch\ngot:\n%s\nwant:\n%s", got, sampleOutline)
	}

	root := doc.Root()
	if root == nil {
		t.Fatal("Root() = nil, want the project")
	}
	if root.Description != "A sample project" {
		t.Errorf("Description = %q", root.Description)
	}

	file := doc.Find("main.go")
	if file == nil {
		t.Fatal("main.go not found")
	}
	if file.Purpose != "Entry point" {
		t.Errorf("Purpose = %q", file.Purpose)
	}
	if file.Content != "package main" {
		t.Errorf("Content = %q", file.Content)
	}
	if len(file.CodeBlocks) != 1 || file.CodeBlocks[0].Language != "go" {
		t.Errorf("CodeBlocks = %+v", file.CodeBlocks)
	}
	if file.Line != 5 {
		t.Errorf("Line = %d, want 5", file.Line)
	}

	if len(doc.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", doc.Diagnostics)
	}
	if doc.Source != "<input>" {
		t.Errorf("Source = %q", doc.Source)
	}
}

func TestParse_HeadingHierarchy(t *testing.T) {
	input := "# P\n## a\n### b\n#### c\n## d\n# Q\n"
	expected := `Project: P
  Directory: a
    Directory: b
      Directory: c
  Directory: d
Project: Q
`
	if got := outline(t, mustParse(t, input)); got != expected {
		t.Errorf("outline mismatch\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestParse_BlankLineBetweenProjects(t *testing.T) {
	doc := mustParse(t, "# H1\n\n# H2")
	if len(doc.Items) != 2 {
		t.Fatalf("got %d top-level items, want 2", len(doc.Items))
	}
	if doc.Items[0].Name != "H1" || doc.Items[1].Name != "H2" {
		t.Errorf("names = %q, %q", doc.Items[0].Name, doc.Items[1].Name)
	}
	if doc.Root() != nil {
		t.Error("Root() should be nil for two projects")
	}
}

func TestParse_ListItemsAreSiblings(t *testing.T) {
	doc := mustParse(t, "# P\n- a\n- b\n  * c\n")
	root := doc.Root()
	if root == nil || len(root.Children) != 3 {
		t.Fatalf("want 3 children, got %+v", root)
	}
	for i, name := range []string{"a", "b", "c"} {
		child := root.Children[i]
		if child.Type != tree.ItemListItem || child.Name != name {
			t.Errorf("child %d = %s %q", i, child.Type, child.Name)
		}
	}
}

func TestParse_Attributes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, doc *tree.Document)
		warning bool
	}{
		{
			name:  "Multiple groups",
			input: `- build <path="b"> <command="make all">`,
			check: func(t *testing.T, doc *tree.Document) {
				item := doc.Items[0]
				if item.Path != "b" || item.Command != "make all" {
					t.Errorf("Path = %q, Command = %q", item.Path, item.Command)
				}
			},
		},
		{
			name:  "Name attribute",
			input: `# <name="My <Project>">`,
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Name != "My <Project>" {
					t.Errorf("Name = %q", doc.Items[0].Name)
				}
			},
		},
		{
			name:  "Name with spaces",
			input: "# My Project\n",
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Name != "My Project" {
					t.Errorf("Name = %q", doc.Items[0].Name)
				}
			},
		},
		{
			name:  "Quoted name",
			input: `# "My Project"`,
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Name != "My Project" {
					t.Errorf("Name = %q", doc.Items[0].Name)
				}
			},
		},
		{
			name:  "Attributes on their own line",
			input: "# P\n<path=\"proj\">\n",
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Path != "proj" {
					t.Errorf("Path = %q", doc.Items[0].Path)
				}
			},
		},
		{
			name:    "Unknown attribute",
			input:   `# P <owner="ops">`,
			warning: true,
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Attributes["owner"] != "ops" {
					t.Errorf("Attributes = %v", doc.Items[0].Attributes)
				}
			},
		},
		{
			name:  "Directory named after its path",
			input: "# P\n<directory path=\"src/utils/\">\n</directory>",
			check: func(t *testing.T, doc *tree.Document) {
				dir := doc.Items[0].Children[0]
				if dir.Type != tree.ItemDirectory || dir.Name != "utils" {
					t.Errorf("got %s %q", dir.Type, dir.Name)
				}
			},
		},
		{
			name:    "Content tag attribute stays on the tag",
			input:   "# P <path=\"proj\">\n<description lang=\"en\" path=\"x\">text</description>",
			warning: true,
			check: func(t *testing.T, doc *tree.Document) {
				item := doc.Items[0]
				if item.Path != "proj" || item.Description != "text" {
					t.Errorf("Path = %q, Description = %q", item.Path, item.Description)
				}
				if item.Attributes["description.lang"] != "en" || item.Attributes["description.path"] != "x" {
					t.Errorf("Attributes = %v", item.Attributes)
				}
			},
		},
		{
			name:    "File without name or path",
			input:   "# P\n<file>\n</file>",
			warning: true,
			check: func(t *testing.T, doc *tree.Document) {
				if doc.Items[0].Children[0].Type != tree.ItemFile {
					t.Errorf("child = %+v", doc.Items[0].Children[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.input)
			if len(doc.Items) == 0 {
				t.Fatal("no items parsed")
			}
			tt.check(t, doc)
			if got := len(doc.Diagnostics) > 0; got != tt.warning {
				t.Errorf("diagnostics = %v, want warning = %v", doc.Diagnostics, tt.warning)
			}
		})
	}
}

func TestParse_ContentTags(t *testing.T) {
	t.Run("Multi-line body is dedented", func(t *testing.T) {
		doc := mustParse(t, "# P\n<description>\n    Line one\n      indented\n</description>\n")
		if got := doc.Items[0].Description; got != "Line one\n  indented" {
			t.Errorf("Description = %q", got)
		}
	})

	t.Run("Repeated tag appends", func(t *testing.T) {
		doc := mustParse(t, "# P\n<note>a</note>\n<note>b</note>\n")
		if got := doc.Items[0].Note; got != "a\nb" {
			t.Errorf("Note = %q", got)
		}
	})

	t.Run("Command tag", func(t *testing.T) {
		doc := mustParse(t, "- x\n<command>\ngo build\ngo test\n</command>\n")
		if got := doc.Items[0].Command; got != "go build\ngo test" {
			t.Errorf("Command = %q", got)
		}
	})

	t.Run("Unknown tag becomes annotation", func(t *testing.T) {
		doc := mustParse(t, "# P\n<license>MIT</license>\n")
		if got := doc.Items[0].Annotations["license"]; got != "MIT" {
			t.Errorf("Annotations = %v", doc.Items[0].Annotations)
		}
		if len(doc.Diagnostics) != 1 {
			t.Errorf("Diagnostics = %v", doc.Diagnostics)
		}
	})

	t.Run("Quotes and markers are kept", func(t *testing.T) {
		doc := mustParse(t, "# P\n<example>x = \"a\" - b</example>\n")
		if got := doc.Items[0].Example; got != `x = "a" - b` {
			t.Errorf("Example = %q", got)
		}
	})

	t.Run("Code block inside a content tag", func(t *testing.T) {
		doc := mustParse(t, "# P\n<example>\n```go\nx := 1\n```\n</example>\n")
		item := doc.Items[0]
		if item.Example != "x := 1" {
			t.Errorf("Example = %q", item.Example)
		}
		if len(item.CodeBlocks) != 1 || item.CodeBlocks[0].Code != "x := 1" {
			t.Errorf("CodeBlocks = %+v", item.CodeBlocks)
		}
		if item.Content != "" {
			t.Errorf("Content = %q, want empty", item.Content)
		}
	})
}

func TestParse_CodeBlocks(t *testing.T) {
	t.Run("Tags inside a block are literal", func(t *testing.T) {
		doc := mustParse(t, "# P\n```\n<file name=\"x\">\n# not a heading\n```\n")
		item := doc.Items[0]
		if len(item.Children) != 0 {
			t.Errorf("code block produced children: %+v", item.Children)
		}
		if item.Content != "<file name=\"x\">\n# not a heading" {
			t.Errorf("Content = %q", item.Content)
		}
	})

	t.Run("Indentation is preserved", func(t *testing.T) {
		doc := mustParse(t, "- f\n```py\ndef f():\n    return 1\n```")
		if got := doc.Items[0].Content; got != "def f():\n    return 1" {
			t.Errorf("Content = %q", got)
		}
	})

	t.Run("Backticks inside a line are text", func(t *testing.T) {
		doc := mustParse(t, "# P ```sh\n<note>see ```go here</note>\n")
		item := doc.Items[0]
		if item.Name != "P ```sh" {
			t.Errorf("Name = %q", item.Name)
		}
		if item.Note != "see ```go here" || len(item.CodeBlocks) != 0 {
			t.Errorf("Note = %q, CodeBlocks = %+v", item.Note, item.CodeBlocks)
		}
	})
}

func TestParse_FileBodies(t *testing.T) {
	file := func(t *testing.T, doc *tree.Document) *tree.ProjectItem {
		t.Helper()
		root := doc.Root()
		if root == nil || len(root.Children) != 1 {
			t.Fatalf("Root() = %+v", root)
		}
		f := root.Children[0]
		if f.Type != tree.ItemFile || len(f.Children) != 0 {
			t.Fatalf("file = %+v", f)
		}
		return f
	}

	tests := []struct {
		name    string
		input   string
		content string
	}{
		{
			name:    "Markdown list",
			input:   "# P\n<file path=\"notes.md\">\n- one\n- two\n</file>",
			content: "- one\n- two",
		},
		{
			name:    "Markdown heading",
			input:   "# P\n<file path=\"README.md\">\n# Title\nbody\n</file>",
			content: "# Title\nbody",
		},
		{
			name:    "C comment",
			input:   "# P\n<file path=\"a.c\">\n/*\n * comment\n */\n</file>",
			content: "/*\n * comment\n */",
		},
		{
			name:    "Indented body",
			input:   "# P\n<file path=\"a.py\">\n  def f():\n      return 1\n</file>",
			content: "def f():\n    return 1",
		},
		{
			name:    "Markup characters",
			input:   "# P\n<file path=\"t.html\">\n<p class=\"x\">a = \"b\"</p>\n</file>",
			content: "<p class=\"x\">a = \"b\"</p>",
		},
		{
			name:    "Mid-line backticks",
			input:   "# P\n<file path=\"a.md\">\nrun ```make``` first\n</file>",
			content: "run ```make``` first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := file(t, mustParse(t, tt.input)).Content; got != tt.content {
				t.Errorf("Content = %q, want %q", got, tt.content)
			}
		})
	}

	t.Run("Content tags and code are cut out", func(t *testing.T) {
		doc := mustParse(t, "# P\n<file path=\"main.go\">\n"+
			"<purpose>Entry point</purpose>\n"+
			"// header\n"+
			"```go\n"+
			"func main() {\n"+
			"\tprintln()\n"+
			"}\n"+
			"```\n"+
			"- trailing\n"+
			"</file>\n"+
			"- next")
		root := doc.Root()
		if len(root.Children) != 2 || root.Children[1].Name != "next" {
			t.Fatalf("children = %+v", root.Children)
		}
		f := root.Children[0]
		if f.Purpose != "Entry point" {
			t.Errorf("Purpose = %q", f.Purpose)
		}
		want := "// header\nfunc main() {\n\tprintln()\n}\n- trailing"
		if f.Content != want {
			t.Errorf("Content = %q, want %q", f.Content, want)
		}
		if len(f.CodeBlocks) != 1 || f.CodeBlocks[0].Language != "go" {
			t.Errorf("CodeBlocks = %+v", f.CodeBlocks)
		}
	})

	t.Run("Code block keeps its indentation", func(t *testing.T) {
		doc := mustParse(t, "# P\n<file path=\"a.py\">\n```py\n    x = 1\n```\n</file>")
		if got := file(t, doc).Content; got != "    x = 1" {
			t.Errorf("Content = %q", got)
		}
	})

	t.Run("Closing tag after text on the same line", func(t *testing.T) {
		doc := mustParse(t, "# P\n<file name=\"x\">fn main(){}</file>")
		if got := file(t, doc).Content; got != "fn main(){}" {
			t.Errorf("Content = %q", got)
		}
	})

	t.Run("Unclosed content tag", func(t *testing.T) {
		_, err := Parse("# P\n<file name=\"x\">\n<note>open\n")
		if !errors.Is(err, &ParseError{Kind: ErrUnexpectedEOF}) {
			t.Errorf("error = %v, want %v", err, ErrUnexpectedEOF)
		}
	})
}

func TestParse_HeadingInsideTagBlock(t *testing.T) {
	doc := mustParse(t, "# P\n<directory name=\"d\">\n# Inner\n</directory>\n# Q")
	if len(doc.Items) != 2 {
		t.Fatalf("Items = %+v", doc.Items)
	}
	dir := doc.Items[0].Children[0]
	if dir.Type != tree.ItemDirectory || len(dir.Children) != 1 {
		t.Fatalf("directory = %+v", dir)
	}
	if inner := dir.Children[0]; inner.Type != tree.ItemDirectory || inner.Name != "Inner" {
		t.Errorf("inner = %s %q", inner.Type, inner.Name)
	}
	if doc.Items[1].Type != tree.ItemProject || doc.Items[1].Name != "Q" {
		t.Errorf("second root = %s %q", doc.Items[1].Type, doc.Items[1].Name)
	}
}

func TestParse_LooseText(t *testing.T) {
	doc := mustParse(t, "Intro text\n\n# P\nSome notes here\nmore\n## d\n")
	if doc.Preamble != "Intro text" {
		t.Errorf("Preamble = %q", doc.Preamble)
	}
	if got := doc.Items[0].Content; got != "Some notes here\nmore" {
		t.Errorf("Content = %q", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	doc := mustParse(t, "")
	if len(doc.Items) != 0 || doc.Len() != 0 {
		t.Errorf("Items = %+v", doc.Items)
	}
}

func TestParse_HeadingWithoutName(t *testing.T) {
	doc := mustParse(t, "#\n")
	if len(doc.Items) != 1 || doc.Items[0].Type != tree.ItemProject {
		t.Fatalf("Items = %+v", doc.Items)
	}
	if len(doc.Diagnostics) != 1 || !strings.Contains(doc.Diagnostics[0].Message, "without a name") {
		t.Errorf("Diagnostics = %v", doc.Diagnostics)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"Heading too deep", "####### x", ErrLex},
		{"Unclosed attribute list", "- a <path=\"x\"\n", ErrLex},
		{"Text after attributes", "# P <path=\"x\"> trailing", ErrUnexpectedToken},
		{"Attribute without value", "# P <path=\"x\" command>", ErrUnexpectedToken},
		{"Mismatched structural tag", "# P\n<file name=\"a\">\n</directory>", ErrMismatchedTag},
		{"Mismatched content tag", "# P\n<description>x</note>", ErrMismatchedTag},
		{"Stray closing tag", "</file>", ErrMismatchedTag},
		{"Unclosed structural tag", "# P\n<file name=\"a\">\n", ErrUnexpectedEOF},
		{"Unclosed content tag", "# P\n<description>never closed", ErrUnexpectedEOF},
		{"Unterminated code block", "# P\n```go\ncode", ErrUnexpectedEOF},
		{"Content tag without item", "<description>x</description>", ErrNoTarget},
		{"Code block without item", "```\ncode\n```", ErrNoTarget},
		{"Nested content tag", "# P\n<description><note>x</note></description>", ErrNestedTag},
		{"Structural tag in content tag", "# P\n<note><file></file></note>", ErrNestedTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := New(Options{Logger: fslog.Discard()})
			doc, err := p.Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse() expected an error, got %d items", doc.Len())
			}
			if doc != nil {
				t.Error("Parse() returned a partial document")
			}
			if !errors.Is(err, &ParseError{Kind: tt.kind}) {
				t.Errorf("error = %v (%T), want kind %s", err, err, tt.kind)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("# P\n<file name=\"a\">\n</directory>")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 3 || perr.Column != 1 {
		t.Errorf("position = %d:%d, want 3:1", perr.Line, perr.Column)
	}
	if !strings.HasPrefix(perr.Error(), "parse error at line 3, column 1:") {
		t.Errorf("Error() = %q", perr.Error())
	}
}

func TestParser_InputLimit(t *testing.T) {
	if _, err := New(Options{MaxInputLength: -1}); err == nil {
		t.Error("New() accepted a negative limit")
	}

	p, err := New(Options{MaxInputLength: 4, Logger: fslog.Discard()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = p.Parse("# Project")
	if !errors.Is(err, &ParseError{Kind: ErrInputTooLarge}) {
		t.Errorf("error = %v, want input_too_large", err)
	}
}

func TestParser_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := fslog.NewWithConfig(fslog.Config{
		Level:  fslog.LevelTrace,
		Format: fslog.FormatLogfmt,
		Output: &buf,
	})

	p, err := New(Options{Logger: logger, Source: "sample.forsure"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	doc, err := p.Parse(`# P <owner="ops">`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"HEADING", "unknown attribute", "sample.forsure", "forsure-parser"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
	if doc.Source != "sample.forsure" {
		t.Errorf("Source = %q", doc.Source)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	formatted := tree.Format(doc)

	again := mustParse(t, formatted)
	if got := outline(t, again); got != sampleOutline {
		t.Errorf("outline after round trip\ngot:\n%s\nwant:\n%s\nformatted:\n%s", got, sampleOutline, formatted)
	}

	file := again.Find("main.go")
	if file == nil || file.Purpose != "Entry point" || file.Content != "package main" {
		t.Errorf("main.go after round trip = %+v", file)
	}
	if again.Root().Description != "A sample project" {
		t.Errorf("Description = %q", again.Root().Description)
	}
}

func TestParse_RoundTripSpecialNames(t *testing.T) {
	doc := &tree.Document{Items: []*tree.ProjectItem{{
		Type: tree.ItemProject,
		Name: `odd "name" <x>`,
		Children: []*tree.ProjectItem{
			{Type: tree.ItemListItem, Name: "a = b"},
			{Type: tree.ItemFile, Name: "f.txt", Path: `dir\f.txt`},
		},
	}}}

	again := mustParse(t, tree.Format(doc))
	if got, want := outline(t, again), outline(t, doc); got != want {
		t.Errorf("outline after round trip\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestParse_ReferenceExamples(t *testing.T) {
	t.Run("Nested headings", func(t *testing.T) {
		doc := mustParse(t, "# Project\n## src\n### main.rs")
		root := doc.Root()
		if root == nil || len(root.Children) != 1 {
			t.Fatalf("Root() = %+v", root)
		}
		src := root.Children[0]
		if src.Type != tree.ItemDirectory || src.Name != "src" || len(src.Children) != 1 {
			t.Fatalf("src = %+v", src)
		}
		if main := src.Children[0]; main.Type != tree.ItemDirectory || main.Name != "main.rs" {
			t.Errorf("main.rs = %s %q", main.Type, main.Name)
		}
	})

	t.Run("List item with path", func(t *testing.T) {
		doc := mustParse(t, `* Item 1 <path="item1.txt">`)
		if len(doc.Items) != 1 {
			t.Fatalf("Items = %+v", doc.Items)
		}
		item := doc.Items[0]
		if item.Type != tree.ItemListItem || item.Name != "Item 1" || item.Path != "item1.txt" || item.Command != "" {
			t.Errorf("item = %+v", item)
		}
	})

	t.Run("File with body", func(t *testing.T) {
		doc := mustParse(t, "# Project\n<file path=\"src/main.rs\">\nfn main(){}\n</file>")
		root := doc.Root()
		if root == nil || len(root.Children) != 1 {
			t.Fatalf("Root() = %+v", root)
		}
		file := root.Children[0]
		if file.Type != tree.ItemFile || file.Path != "src/main.rs" || file.Content != "fn main(){}" {
			t.Errorf("file = %+v", file)
		}
		if file.Name != "main.rs" {
			t.Errorf("Name = %q, want main.rs", file.Name)
		}
	})

	t.Run("Description adds no children", func(t *testing.T) {
		doc := mustParse(t, "# Project\n<description>text</description>")
		root := doc.Root()
		if root == nil || len(root.Children) != 0 || root.Description != "text" {
			t.Errorf("Root() = %+v", root)
		}
	})
}
