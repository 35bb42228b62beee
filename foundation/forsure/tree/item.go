// File: item.go
// Title: Project Item Model
// Description: Defines ProjectItem, the node type of a parsed ForSure
//              document, and ItemType, the closed set of node variants.
//              Optional fields use the empty string for "absent".
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-04
// Modified: 2026-10-13
//
// Change History:
// - 2026-10-04 v0.1.0: Initial item model
// - 2026-10-13 v0.2.0: Code blocks, annotations and source lines

package tree

import (
	"fmt"
	"strings"
)

// ItemType is the variant of a ProjectItem
type ItemType int

const (
	// ItemUnknown is never produced for a finished node
	ItemUnknown ItemType = iota
	// ItemProject is a level-1 heading, the root of a project
	ItemProject
	// ItemDirectory is a deeper heading or a <directory> tag
	ItemDirectory
	// ItemFile is a <file> tag
	ItemFile
	// ItemListItem is a "-" or "*" list entry
	ItemListItem
)

// String returns the name of the item type
func (t ItemType) String() string {
	switch t {
	case ItemProject:
		return "Project"
	case ItemDirectory:
		return "Directory"
	case ItemFile:
		return "File"
	case ItemListItem:
		return "ListItem"
	default:
		return "Unknown"
	}
}

// ParseItemType parses the name of an item type, case-insensitively
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project":
		return ItemProject, nil
	case "directory", "dir":
		return ItemDirectory, nil
	case "file":
		return ItemFile, nil
	case "listitem", "list_item", "item":
		return ItemListItem, nil
	case "unknown":
		return ItemUnknown, nil
	default:
		return ItemUnknown, fmt.Errorf("unknown item type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML output
func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ItemType) UnmarshalText(text []byte) error {
	parsed, err := ParseItemType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsStructural reports whether items of this type map to file system
// entries or organizational units
func (t ItemType) IsStructural() bool {
	return t != ItemUnknown
}

// CodeBlock is a fenced block attached to an item
type CodeBlock struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Code     string `json:"code" yaml:"code"`
}

// ProjectItem is one node of a parsed document
type ProjectItem struct {
	Type ItemType `json:"type" yaml:"type"`
	Name string   `json:"name" yaml:"name"`

	// Path is stored as written; it is resolved against the nearest
	// ancestor only when the tree is materialized.
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	FullPath string `json:"full_path,omitempty" yaml:"full_path,omitempty"`

	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Purpose        string `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Note           string `json:"note,omitempty" yaml:"note,omitempty"`
	Example        string `json:"example,omitempty" yaml:"example,omitempty"`
	ContentPattern string `json:"content_pattern,omitempty" yaml:"content_pattern,omitempty"`
	Content        string `json:"content,omitempty" yaml:"content,omitempty"`
	Command        string `json:"command,omitempty" yaml:"command,omitempty"`

	CodeBlocks  []CodeBlock       `json:"code_blocks,omitempty" yaml:"code_blocks,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	Line     int            `json:"line,omitempty" yaml:"line,omitempty"`
	Children []*ProjectItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasPath reports whether an explicit path was given
func (p *ProjectItem) HasPath() bool {
	return p.Path != ""
}

// IsTransient reports whether the node carries nothing worth keeping: an
// Unknown node without name, path, content or children.
func (p *ProjectItem) IsTransient() bool {
	return p.Type == ItemUnknown && p.Name == "" && p.Path == "" &&
		p.Content == "" && len(p.Children) == 0
}

// AppendContent adds text to the free-form content, one block per line
func (p *ProjectItem) AppendContent(text string) {
	if text == "" {
		return
	}
	if p.Content == "" {
		p.Content = text
		return
	}
	p.Content += "\n" + text
}

// SetField stores the body of a content-only tag. It reports false for
// tag names that have no field of their own.
func (p *ProjectItem) SetField(tag, value string) bool {
	var field *string
	switch tag {
	case "description":
		field = &p.Description
	case "purpose":
		field = &p.Purpose
	case "note":
		field = &p.Note
	case "example":
		field = &p.Example
	case "content_pattern":
		field = &p.ContentPattern
	case "command":
		field = &p.Command
	default:
		return false
	}

	if *field == "" {
		*field = value
	} else {
		*field += "\n" + value
	}
	return true
}

// Label returns the name, falling back to the path and then the type
func (p *ProjectItem) Label() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Path != "":
		return p.Path
	default:
		return "(" + strings.ToLower(p.Type.String()) + ")"
	}
}

// ContentFields lists the content-only tag names in output order
var ContentFields = []string{"description", "purpose", "note", "example", "content_pattern", "command"}

// IsContentTag reports whether name is a content-only tag
func IsContentTag(name string) bool {
	for _, f := range ContentFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsStructuralTag reports whether name opens a structural node
func IsStructuralTag(name string) bool {
	return name == "file" || name == "directory"
}

// Field returns the value of a content-only field by tag name
func (p *ProjectItem) Field(tag string) string {
	switch tag {
	case "description":
		return p.Description
	case "purpose":
		return p.Purpose
	case "note":
		return p.Note
	case "example":
		return p.Example
	case "content_pattern":
		return p.ContentPattern
	case "command":
		return p.Command
	default:
		return p.Annotations[tag]
	}
}
