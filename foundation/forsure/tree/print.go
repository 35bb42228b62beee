// File: print.go
// Title: Outline Printer
// Description: Plain-text outline of a document, one item per line,
//              indented by depth. Used by the CLI when colors are off and by
//              tests.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-06
// Modified: 2026-10-06
//
// Change History:
// - 2026-10-06 v0.1.0: Initial outline printer

package tree

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented outline of doc to w:
//
//	Project: MyProject
//	  Directory: src
//	    File: main.rs (path: src/main.rs)
func Print(w io.Writer, doc *Document) error {
	return doc.Walk(func(item, _ *ProjectItem, depth int) error {
		_, err := fmt.Fprintln(w, OutlineLine(item, depth))
		return err
	})
}

// OutlineLine formats a single outline entry
func OutlineLine(item *ProjectItem, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(item.Type.String())
	b.WriteString(": ")
	b.WriteString(item.Label())

	var extras []string
	if item.Path != "" && item.Path != item.Name {
		extras = append(extras, "path: "+item.Path)
	}
	if item.FullPath != "" {
		extras = append(extras, "full path: "+item.FullPath)
	}
	if item.Command != "" {
		extras = append(extras, "command: "+item.Command)
	}
	if len(extras) > 0 {
		b.WriteString(" (" + strings.Join(extras, ", ") + ")")
	}
	return b.String()
}
