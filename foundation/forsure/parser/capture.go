// File: capture.go
// Title: Capture Buffers
// Description: Raw body capture for content tags, fenced code blocks and
//              <file> bodies. Bodies are sliced from the input by token
//              offsets so the text keeps its original spacing, then cleaned
//              up once the closing token arrives.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-06
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-06 v0.1.0: Content tag capture
// - 2026-10-12 v0.1.1: Code block capture, fences inside content tags
// - 2026-10-18 v0.2.0: File body capture

package parser

import (
	"strings"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/stringx"
)

// captureTarget is the raw buffer currently being filled, if any
type captureTarget interface {
	capturing() bool
}

type noCapture struct{}

func (noCapture) capturing() bool { return false }

// tagCapture collects the body of a content-only tag such as <description>
type tagCapture struct {
	name      string
	target    tree.NodeID
	bodyStart int
	open      Token

	// byte ranges of fence lines to drop from the body
	cuts []span
}

func (*tagCapture) capturing() bool { return true }

// codeCapture collects a fenced code block. outer is set when the block
// sits inside a content tag.
type codeCapture struct {
	lang      string
	target    tree.NodeID
	bodyStart int
	open      Token
	outer     *tagCapture
}

func (*codeCapture) capturing() bool { return true }

type span struct {
	start, end int
}

// fileBody collects the body of an open <file> block. Content tags and code
// blocks inside it are cut out as they close; code is kept verbatim while
// the text around it is cleaned like a tag body.
type fileBody struct {
	id     tree.NodeID
	pos    int // start of the text not yet copied, -1 before the body
	text   strings.Builder
	pieces []string
}

// skip copies the body up to start and resumes at end
func (f *fileBody) skip(input string, start, end int) {
	if start > f.pos {
		f.text.WriteString(input[f.pos:start])
	}
	if end > f.pos {
		f.pos = end
	}
}

func (f *fileBody) addCode(input string, start, end int, code string) {
	f.skip(input, start, end)
	f.flushText()
	if code != "" {
		f.pieces = append(f.pieces, code)
	}
}

func (f *fileBody) flushText() {
	if text := cleanBody(f.text.String()); text != "" {
		f.pieces = append(f.pieces, text)
	}
	f.text.Reset()
}

// content returns the body up to end, the offset of the closing tag
func (f *fileBody) content(input string, end int) string {
	f.skip(input, end, end)
	f.flushText()
	return strings.Join(f.pieces, "\n")
}

func (s *parseState) inFile(target tree.NodeID) bool {
	return s.file != nil && s.file.id == target
}

func (s *parseState) flushLoose() {
	if !s.loose.active {
		return
	}
	text := stringx.TrimBlankLines(s.input[s.loose.start:s.loose.end])
	s.loose = looseRun{}
	if text == "" {
		return
	}

	target := s.top()
	if target == tree.NoNode {
		s.preamble = append(s.preamble, text)
		return
	}
	s.arena.Update(target, func(it *tree.ProjectItem) {
		it.AppendContent(text)
	})
}

func (s *parseState) flushTag(c *tagCapture, end Token) {
	body := cleanBody(cutSpans(s.input, c.bodyStart, end.Position, c.cuts))

	known := true
	s.arena.Update(c.target, func(it *tree.ProjectItem) {
		if it.SetField(c.name, body) {
			return
		}
		known = false
		if it.Annotations == nil {
			it.Annotations = make(map[string]string)
		}
		if prev, ok := it.Annotations[c.name]; ok && prev != "" {
			body = prev + "\n" + body
		}
		it.Annotations[c.name] = body
	})
	if !known {
		s.warn(c.open, "unknown tag <%s> stored as annotation", c.name)
	}
	if s.inFile(c.target) {
		start, stop := wholeLines(s.input, c.open.Position, end.End)
		s.file.skip(s.input, start, stop)
	}

	s.capture = noCapture{}
	s.state = stateExpectingStructuralElement
}

func (s *parseState) flushCode(c *codeCapture, end Token) {
	code := codeBody(s.input[c.bodyStart:end.Position])
	inFile := s.inFile(c.target)
	s.arena.Update(c.target, func(it *tree.ProjectItem) {
		if !inFile {
			it.AppendContent(code)
		}
		it.CodeBlocks = append(it.CodeBlocks, tree.CodeBlock{Language: c.lang, Code: code})
	})
	if inFile {
		start, stop := wholeLines(s.input, c.open.Position, end.End)
		s.file.addCode(s.input, start, stop, code)
	}

	s.capture = noCapture{}
	s.state = stateExpectingStructuralElement
}

// flushNestedCode records a block found inside a content tag and returns to
// the tag body. The fence lines are cut from the tag text.
func (s *parseState) flushNestedCode(c *codeCapture, end Token) {
	code := codeBody(s.input[c.bodyStart:end.Position])
	s.arena.Update(c.target, func(it *tree.ProjectItem) {
		it.CodeBlocks = append(it.CodeBlocks, tree.CodeBlock{Language: c.lang, Code: code})
	})

	outer := c.outer
	outer.cuts = append(outer.cuts,
		span{start: c.open.Position, end: c.bodyStart},
		span{start: end.Position, end: end.End},
	)

	s.capture = outer
	s.state = stateInCustomTagBody
}

// codeBody strips the line break after the opening fence and the one
// before the closing fence
func codeBody(raw string) string {
	raw = strings.TrimPrefix(raw, "\r")
	raw = strings.TrimPrefix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\n")
	return strings.TrimSuffix(raw, "\r")
}

// wholeLines widens [start, end) to the full lines it spans, line break
// included, when nothing but whitespace shares those lines
func wholeLines(input string, start, end int) (int, int) {
	lineStart := strings.LastIndexByte(input[:start], '\n') + 1
	lineEnd := len(input)
	if i := strings.IndexByte(input[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	if strings.TrimSpace(input[lineStart:start]) != "" || strings.TrimSpace(input[end:lineEnd]) != "" {
		return start, end
	}
	if lineEnd < len(input) {
		lineEnd++
	}
	return lineStart, lineEnd
}

func cleanBody(raw string) string {
	return stringx.Dedent(stringx.TrimBlankLines(raw))
}

func cutSpans(input string, start, end int, cuts []span) string {
	if len(cuts) == 0 {
		return input[start:end]
	}

	var b strings.Builder
	pos := start
	for _, c := range cuts {
		if c.start < pos || c.end > end {
			continue
		}
		b.WriteString(input[pos:c.start])
		pos = c.end
	}
	b.WriteString(input[pos:end])
	return b.String()
}
