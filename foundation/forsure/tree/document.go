// File: document.go
// Title: Parsed Document
// Description: Document is the result of parsing one ForSure source: the
//              forest of top-level items, unassociated leading text and the
//              warnings collected while parsing. Also provides traversal
//              and lookup helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-04
// Modified: 2026-10-09
//
// Change History:
// - 2026-10-04 v0.1.0: Initial document model
// - 2026-10-09 v0.1.1: Walk with SkipChildren, Find, Count

package tree

import (
	"errors"
	"fmt"
)

// Diagnostic is a non-fatal problem found while parsing
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// String formats the diagnostic as "line:column: message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Document is a parsed ForSure source
type Document struct {
	Source      string         `json:"source,omitempty" yaml:"source,omitempty"`
	Preamble    string         `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Items       []*ProjectItem `json:"items" yaml:"items"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Root returns the project when the document consists of exactly one
// top-level Project item, nil otherwise
func (d *Document) Root() *ProjectItem {
	if len(d.Items) != 1 || d.Items[0].Type != ItemProject {
		return nil
	}
	return d.Items[0]
}

// SkipChildren can be returned by a WalkFunc to skip the children of the
// current item
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every item in depth-first document order. parent
// is nil for top-level items.
type WalkFunc func(item, parent *ProjectItem, depth int) error

// Walk visits items and their descendants depth-first. It stops at the
// first error other than SkipChildren and returns it.
func Walk(items []*ProjectItem, fn WalkFunc) error {
	return walk(items, nil, 0, fn)
}

func walk(items []*ProjectItem, parent *ProjectItem, depth int, fn WalkFunc) error {
	for _, item := range items {
		err := fn(item, parent, depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walk(item.Children, item, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every item of the document
func (d *Document) Walk(fn WalkFunc) error {
	return Walk(d.Items, fn)
}

// Find returns the first item, in document order, with the given name
func (d *Document) Find(name string) *ProjectItem {
	var found *ProjectItem
	errFound := errors.New("found")
	_ = d.Walk(func(item, _ *ProjectItem, _ int) error {
		if item.Name == name {
			found = item
			return errFound
		}
		return nil
	})
	return found
}

// Count returns the number of items per type
func (d *Document) Count() map[ItemType]int {
	counts := make(map[ItemType]int)
	_ = d.Walk(func(item, _ *ProjectItem, _ int) error {
		counts[item.Type]++
		return nil
	})
	return counts
}

// Len returns the total number of items
func (d *Document) Len() int {
	n := 0
	for _, c := range d.Count() {
		n += c
	}
	return n
}
