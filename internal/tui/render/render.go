// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     render
// Description: Styled tree view of a document for terminal output
// Author:      Mike Stoffels
// Created:     2026-10-13
// License:     MIT
// ============================================================================

package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/stringx"
	"github.com/msto63/forsure/internal/tui"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// Options controls the tree output
type Options struct {
	// Color enables ANSI styling; without it the output is plain text
	Color bool

	// Details adds descriptions and commands after the item names
	Details bool

	// MaxDetailWidth truncates detail text; 0 keeps it whole
	MaxDetailWidth int
}

// Renderer writes styled trees
type Renderer struct {
	opts   Options
	styles tui.Styles
}

// New creates a renderer for output to w
func New(w io.Writer, opts Options) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{opts: opts, styles: tui.NewStyles(r)}
}

// Render returns doc as a tree, one line per item
func (r *Renderer) Render(doc *tree.Document) string {
	var b strings.Builder
	for i, item := range doc.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.line(item))
		b.WriteString("\n")
		r.children(&b, item.Children, "")
	}
	return b.String()
}

// Write renders doc to w
func Write(w io.Writer, doc *tree.Document, opts Options) error {
	_, err := io.WriteString(w, New(w, opts).Render(doc))
	return err
}

func (r *Renderer) children(b *strings.Builder, items []*tree.ProjectItem, prefix string) {
	for i, item := range items {
		last := i == len(items)-1

		branch, indent := branchMid, indentMid
		if last {
			branch, indent = branchLast, indentLast
		}

		b.WriteString(r.styles.Branch.Render(prefix + branch))
		b.WriteString(r.line(item))
		b.WriteString("\n")
		r.children(b, item.Children, prefix+indent)
	}
}

func (r *Renderer) line(item *tree.ProjectItem) string {
	var b strings.Builder
	b.WriteString(r.styles.ItemStyle(item.Type).Render(tui.ItemLabel(item)))

	if item.Path != "" && item.Path != item.Name && strings.TrimSuffix(item.Path, "/") != item.Name {
		b.WriteString(" ")
		b.WriteString(r.styles.Path.Render("(" + item.Path + ")"))
	}

	if r.opts.Details {
		if desc := r.detail(item.Description); desc != "" {
			b.WriteString(r.styles.Detail.Render(" - " + desc))
		}
		if cmd := r.detail(item.Command); cmd != "" {
			b.WriteString(" ")
			b.WriteString(r.styles.Command.Render("$ " + cmd))
		}
	}
	return b.String()
}

// detail returns the first line of text, truncated when configured
func (r *Renderer) detail(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	first := stringx.SplitLines(text)[0]
	if r.opts.MaxDetailWidth > 0 {
		first = stringx.Truncate(first, r.opts.MaxDetailWidth, "…")
	}
	return first
}
