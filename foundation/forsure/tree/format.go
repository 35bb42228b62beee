// File: format.go
// Title: ForSure Serializer
// Description: Writes a Document back to ForSure text. Projects become
//              level-1 headings, directories and files become tag blocks,
//              list items stay list items. Names that the lexer would split
//              or misread are written as name attributes instead. Parsing
//              the output yields a tree with the same types, names and
//              nesting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-06
// Modified: 2026-10-10
//
// Change History:
// - 2026-10-06 v0.1.0: Initial serializer
// - 2026-10-10 v0.1.1: Content written as fenced blocks

package tree

import (
	"sort"
	"strings"
)

// Format renders doc as ForSure text
func Format(doc *Document) string {
	var b strings.Builder

	if doc.Preamble != "" {
		b.WriteString(doc.Preamble)
		b.WriteString("\n\n")
	}

	for i, item := range doc.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		formatItem(&b, item)
	}

	return b.String()
}

func formatItem(b *strings.Builder, item *ProjectItem) {
	switch item.Type {
	case ItemProject:
		b.WriteString("#")
		writeInlineName(b, item)
		writeAttrs(b, pathAttrs(item))
		b.WriteString("\n")
		formatBody(b, item)

	case ItemListItem:
		b.WriteString("*")
		writeInlineName(b, item)
		writeAttrs(b, pathAttrs(item))
		b.WriteString("\n")
		formatBody(b, item)

	case ItemDirectory, ItemFile:
		tag := "directory"
		if item.Type == ItemFile {
			tag = "file"
		}
		b.WriteString("<" + tag)
		attrs := pathAttrs(item)
		if item.Name != "" {
			attrs = append([][2]string{{"name", item.Name}}, attrs...)
		}
		for _, kv := range attrs {
			b.WriteString(" " + kv[0] + "=" + quote(kv[1]))
		}
		b.WriteString(">\n")
		formatBody(b, item)
		b.WriteString("</" + tag + ">\n")

	default:
		for _, child := range item.Children {
			formatItem(b, child)
		}
	}
}

func formatBody(b *strings.Builder, item *ProjectItem) {
	for _, field := range ContentFields {
		value := item.Field(field)
		if value == "" || (field == "command" && inlineCommand(item)) {
			continue
		}
		writeTag(b, field, value)
	}

	keys := make([]string, 0, len(item.Annotations))
	for k := range item.Annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeTag(b, k, item.Annotations[k])
	}

	if item.Content != "" {
		b.WriteString("```\n")
		b.WriteString(item.Content)
		b.WriteString("\n```\n")
	}

	for _, child := range item.Children {
		formatItem(b, child)
	}
}

func writeTag(b *strings.Builder, name, value string) {
	b.WriteString("<" + name + ">")
	if strings.Contains(value, "\n") {
		b.WriteString("\n" + value + "\n")
	} else {
		b.WriteString(value)
	}
	b.WriteString("</" + name + ">\n")
}

// writeInlineName writes " name" after a heading or list marker, or a name
// attribute group when the name cannot be written as plain text.
func writeInlineName(b *strings.Builder, item *ProjectItem) {
	if item.Name == "" {
		return
	}
	if plainName(item.Name) {
		b.WriteString(" " + item.Name)
		return
	}
	b.WriteString(" <name=" + quote(item.Name) + ">")
}

func plainName(name string) bool {
	if strings.TrimSpace(name) != name || strings.Contains(name, "```") {
		return false
	}
	return !strings.ContainsAny(name, "<>=\"\n\r")
}

func inlineCommand(item *ProjectItem) bool {
	return !strings.ContainsAny(item.Command, "\n\r")
}

func pathAttrs(item *ProjectItem) [][2]string {
	var attrs [][2]string
	if item.Path != "" {
		attrs = append(attrs, [2]string{"path", item.Path})
	}
	if item.Command != "" && inlineCommand(item) {
		attrs = append(attrs, [2]string{"command", item.Command})
	}
	return attrs
}

func writeAttrs(b *strings.Builder, attrs [][2]string) {
	for _, kv := range attrs {
		b.WriteString(" <" + kv[0] + "=" + quote(kv[1]) + ">")
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
