// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     tui
// Description: Shared palette and styles for the terminal views
// Author:      Mike Stoffels
// Created:     2026-10-13
// License:     MIT
// ============================================================================

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/forsure/foundation/forsure/tree"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorAccent    = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorFg        = lipgloss.Color("#F9FAFB")
	ColorDirectory = lipgloss.Color("#06B6D4")
)

// Styles holds the styles of one renderer
type Styles struct {
	Title     lipgloss.Style
	Project   lipgloss.Style
	Directory lipgloss.Style
	File      lipgloss.Style
	ListItem  lipgloss.Style
	Branch    lipgloss.Style
	Path      lipgloss.Style
	Detail    lipgloss.Style
	Command   lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
	Error     lipgloss.Style
	Box       lipgloss.Style
	FocusBox  lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds the styles for renderer r. A nil renderer uses the
// default renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Project: r.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Directory: r.NewStyle().
			Bold(true).
			Foreground(ColorDirectory),
		File: r.NewStyle().
			Foreground(ColorFg),
		ListItem: r.NewStyle().
			Foreground(ColorSecondary),
		Branch: r.NewStyle().
			Foreground(ColorMuted),
		Path: r.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
		Detail: r.NewStyle().
			Foreground(ColorMuted),
		Command: r.NewStyle().
			Foreground(ColorAccent),
		Selected: r.NewStyle().
			Bold(true).
			Foreground(ColorFg).
			Background(ColorPrimary),
		Label: r.NewStyle().
			Bold(true).
			Foreground(ColorSecondary),
		Error: r.NewStyle().
			Foreground(ColorError),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
		FocusBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		StatusBar: r.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(ColorFg).
			Padding(0, 1),
		Help: r.NewStyle().
			Foreground(ColorMuted),
	}
}

// ItemStyle returns the style for an item of type t
func (s Styles) ItemStyle(t tree.ItemType) lipgloss.Style {
	switch t {
	case tree.ItemProject:
		return s.Project
	case tree.ItemDirectory:
		return s.Directory
	case tree.ItemListItem:
		return s.ListItem
	default:
		return s.File
	}
}

// ItemLabel returns the display text of an item: directories end in a
// slash and list items carry a bullet
func ItemLabel(item *tree.ProjectItem) string {
	switch item.Type {
	case tree.ItemDirectory:
		return item.Label() + "/"
	case tree.ItemListItem:
		return "• " + item.Label()
	default:
		return item.Label()
	}
}
