// File: stringx.go
// Title: String Utilities
// Description: Small Unicode-aware string helpers shared by the parser, the
//              materializer and the command-line output.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-03
// Modified: 2026-10-11
//
// Change History:
// - 2026-10-03 v0.1.0: IsBlank, Truncate, SplitLines, FirstNonBlank
// - 2026-10-11 v0.2.0: Slugify, Indent, TrimBlankLines, Dedent

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank is the inverse of IsBlank.
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate shortens s to maxLen runes, ending in ellipsis when cut.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// SplitLines splits s into lines, accepting \n, \r\n and \r endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// FirstNonBlank returns the first argument that is not blank.
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if IsNotBlank(s) {
			return s
		}
	}
	return ""
}

// Slugify turns a display name into a file system name: surrounding
// whitespace is trimmed, inner whitespace runs become a single underscore and
// letters are lower-cased. "My Project" becomes "my_project".
func Slugify(name string) string {
	fields := strings.Fields(name)
	return strings.ToLower(strings.Join(fields, "_"))
}

// Indent prefixes every non-empty line of s with prefix.
func Indent(s, prefix string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// TrimBlankLines removes leading and trailing lines that contain only
// whitespace, keeping the indentation of the remaining first line.
func TrimBlankLines(s string) string {
	lines := SplitLines(s)
	start, end := 0, len(lines)
	for start < end && IsBlank(lines[start]) {
		start++
	}
	for end > start && IsBlank(lines[end-1]) {
		end--
	}
	for i := start; i < end; i++ {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.Join(lines[start:end], "\n")
}

// Dedent removes the longest common run of leading spaces and tabs from
// every non-blank line.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if IsBlank(line) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return s
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
