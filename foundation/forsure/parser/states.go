// File: states.go
// Title: Parser State Machine
// Description: The per-document parser state: current state, one-token
//              pushback, node arena, parent stack, item under construction,
//              attribute list progress and capture target. Tokens are fed
//              one at a time to the handler of the current state.
// Author: msto63
// Version: v0.3.0
// Created: 2026-10-05
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-05 v0.1.0: Initial state machine
// - 2026-10-09 v0.1.1: Tag frames for <file>/<directory> blocks
// - 2026-10-12 v0.2.0: Verbatim code blocks, nested code in content tags
// - 2026-10-18 v0.3.0: Raw <file> bodies, attributes on content tags,
//                      level 1 headings inside tag blocks are directories

package parser

import (
	"fmt"
	"path"
	"strings"

	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
)

type parserState int

const (
	stateExpectingStructuralElement parserState = iota
	stateInHeading
	stateInListItem
	stateInAttributes
	stateInCustomTagBody
	stateInCodeBlockBody
)

func (s parserState) String() string {
	switch s {
	case stateExpectingStructuralElement:
		return "ExpectingStructuralElement"
	case stateInHeading:
		return "InHeading"
	case stateInListItem:
		return "InListItem"
	case stateInAttributes:
		return "InAttributes"
	case stateInCustomTagBody:
		return "InCustomTagBody"
	case stateInCodeBlockBody:
		return "InCodeBlockBody"
	default:
		return fmt.Sprintf("parserState(%d)", int(s))
	}
}

type frameKind int

const (
	// frameHeading is a sealed heading; popped by a heading of equal or
	// lower level
	frameHeading frameKind = iota
	// frameTag is an open <file>/<directory> block; popped by its closing tag
	frameTag
	// frameLeaf is a list item or a closed tag block; popped by the next
	// structural sibling
	frameLeaf
)

type frame struct {
	id    tree.NodeID
	kind  frameKind
	level int
	tag   string
	line  int
}

type looseRun struct {
	active     bool
	start, end int
}

type parseState struct {
	input  string
	lexer  *Lexer
	logger *fslog.Logger
	trace  bool

	state   parserState
	pending *Token

	arena *tree.Arena
	stack []frame

	// item under construction while its heading or list line is read
	current     tree.NodeID
	currentTok  Token
	currentKind frameKind
	level       int
	nameStart   int
	nameEnd     int
	nameTokens  int
	quotedName  string
	afterAttrs  bool

	// attribute list in progress
	attrTarget tree.NodeID
	attrReturn parserState
	attrPhase  int
	attrKey    Token
	attrTag    string // content tag the attributes belong to, if any

	capture captureTarget
	loose   looseRun
	file    *fileBody

	preamble    []string
	diagnostics []tree.Diagnostic
}

func newParseState(input string, logger *fslog.Logger) *parseState {
	return &parseState{
		input:      input,
		lexer:      NewLexer(input),
		logger:     logger,
		trace:      logger.IsLevelEnabled(fslog.LevelTrace),
		arena:      tree.NewArena(),
		current:    tree.NoNode,
		attrTarget: tree.NoNode,
		capture:    noCapture{},
	}
}

func (s *parseState) run() (*tree.Document, error) {
	for {
		tok := s.next()
		if s.trace {
			s.logger.Trace("Token", fslog.Fields{"token": tok.String(), "state": s.state.String()})
		}

		if tok.Type == TokenLexError {
			return nil, newLexError(tok)
		}

		done, err := s.step(tok)
		if err != nil {
			return nil, err
		}
		if done {
			return s.finish(tok)
		}
	}
}

func (s *parseState) step(tok Token) (bool, error) {
	switch s.state {
	case stateExpectingStructuralElement:
		return s.expectStructural(tok)
	case stateInHeading, stateInListItem:
		return false, s.inItemLine(tok)
	case stateInAttributes:
		return false, s.inAttributes(tok)
	case stateInCustomTagBody:
		return false, s.inTagBody(tok)
	case stateInCodeBlockBody:
		return false, s.inCodeBlock(tok)
	default:
		return false, newParseError(ErrUnexpectedToken, tok, "parser in unknown state %s", s.state)
	}
}

func (s *parseState) next() Token {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok
	}
	return s.lexer.NextToken()
}

func (s *parseState) peek() Token {
	if s.pending != nil {
		return *s.pending
	}
	return s.lexer.PeekToken()
}

func (s *parseState) pushBack(tok Token) {
	s.pending = &tok
}

func (s *parseState) expectStructural(tok Token) (bool, error) {
	if s.file != nil {
		return s.inFileBody(tok)
	}

	switch tok.Type {
	case TokenEOF:
		s.flushLoose()
		return true, nil

	case TokenNewline:
		return false, nil

	case TokenHeading:
		s.flushLoose()
		s.popForHeading(tok.Level)
		// inside a <directory> block every heading is a directory
		itemType := tree.ItemDirectory
		if tok.Level == 1 && s.top() == tree.NoNode {
			itemType = tree.ItemProject
		}
		s.openItem(tok, itemType, frameHeading)
		s.state = stateInHeading

	case TokenListItemMarker:
		s.flushLoose()
		s.popLeaves()
		s.openItem(tok, tree.ItemListItem, frameLeaf)
		s.state = stateInListItem

	case TokenCustomTagStart:
		s.flushLoose()
		return false, s.openTag(tok)

	case TokenCustomTagEnd:
		s.flushLoose()
		return false, s.closeTag(tok)

	case TokenCodeBlockStart, TokenCodeBlockEnd:
		// a bare fence outside a block opens one without a language
		s.flushLoose()
		return false, s.openCodeBlock(tok, nil)

	case TokenLessThan:
		if s.peek().Type == TokenIdentifier {
			s.flushLoose()
			target := s.top()
			if target == tree.NoNode {
				return false, newParseError(ErrNoTarget, tok, "attributes with no enclosing item")
			}
			s.beginAttributes(target, stateExpectingStructuralElement)
			return false, nil
		}
		s.extendLoose(tok)

	default:
		s.extendLoose(tok)
	}

	return false, nil
}

func (s *parseState) openItem(tok Token, itemType tree.ItemType, kind frameKind) {
	s.current = s.arena.New(tree.ProjectItem{Type: itemType, Line: tok.Line})
	s.currentTok = tok
	s.currentKind = kind
	s.nameStart = -1
	s.nameTokens = 0
	s.quotedName = ""
	s.afterAttrs = false
	s.level = tok.Level
}

func (s *parseState) inItemLine(tok Token) error {
	switch tok.Type {
	case TokenText, TokenQuotedString, TokenEquals, TokenGreaterThan:
		if s.afterAttrs {
			return newParseError(ErrUnexpectedToken, tok, "unexpected %s after attributes", tok.Describe())
		}
		s.extendName(tok)

	case TokenLessThan:
		if s.peek().Type == TokenIdentifier {
			s.beginAttributes(s.current, s.state)
			return nil
		}
		if s.afterAttrs {
			return newParseError(ErrUnexpectedToken, tok, "unexpected %s after attributes", tok.Describe())
		}
		s.extendName(tok)

	case TokenNewline:
		s.sealCurrent()

	default:
		// tags, fences and EOF end the line; the token is handled again
		// once the item is in place
		s.sealCurrent()
		s.pushBack(tok)
	}
	return nil
}

func (s *parseState) extendName(tok Token) {
	if s.nameStart < 0 {
		s.nameStart = tok.Position
	}
	s.nameEnd = tok.End
	s.nameTokens++
	if tok.Type == TokenQuotedString {
		s.quotedName = tok.Value
	}
}

func (s *parseState) sealCurrent() {
	name := ""
	switch {
	case s.nameTokens == 1 && s.quotedName != "":
		// # "My Project" names the item without the quotes
		name = s.quotedName
	case s.nameStart >= 0:
		name = strings.TrimSpace(s.input[s.nameStart:s.nameEnd])
	}

	var item tree.ProjectItem
	s.arena.Update(s.current, func(it *tree.ProjectItem) {
		if it.Name == "" {
			it.Name = name
		}
		item = *it
	})

	if item.Name == "" {
		what := "list item"
		if s.currentKind == frameHeading {
			what = "heading"
		}
		s.warn(s.currentTok, "%s without a name", what)
	}

	s.arena.Attach(s.top(), s.current)
	s.stack = append(s.stack, frame{
		id:    s.current,
		kind:  s.currentKind,
		level: s.level,
		line:  s.currentTok.Line,
	})

	s.current = tree.NoNode
	s.state = stateExpectingStructuralElement
}

func (s *parseState) beginAttributes(target tree.NodeID, returnTo parserState) {
	s.attrTarget = target
	s.attrReturn = returnTo
	s.attrPhase = 0
	s.attrTag = ""
	s.state = stateInAttributes
}

func (s *parseState) inAttributes(tok Token) error {
	switch {
	case s.attrPhase == 0 && tok.Type == TokenIdentifier:
		s.attrKey = tok
		s.attrPhase = 1

	case s.attrPhase == 1 && tok.Type == TokenEquals:
		s.attrPhase = 2

	case s.attrPhase == 2 && tok.Type == TokenQuotedString:
		if s.attrTag != "" {
			s.applyTagAttribute(s.attrTarget, s.attrTag, s.attrKey, tok.Value)
		} else {
			s.applyAttribute(s.attrTarget, s.attrKey, tok.Value)
		}
		s.attrPhase = 0

	case s.attrPhase == 0 && tok.Type == TokenGreaterThan:
		s.state = s.attrReturn
		switch s.attrReturn {
		case stateInHeading, stateInListItem:
			s.afterAttrs = true
		case stateInCustomTagBody:
			if c, ok := s.capture.(*tagCapture); ok {
				c.bodyStart = tok.End
			}
		}
		if s.file != nil && s.file.pos < 0 {
			s.file.pos = tok.End
		}

	case s.attrPhase == 1 && tok.Type == TokenGreaterThan:
		return newParseError(ErrUnexpectedToken, tok, "attribute %q has no value", s.attrKey.Value)

	case tok.Type == TokenEOF:
		return newParseError(ErrUnexpectedEOF, tok, "unexpected end of input in attribute list")

	default:
		return newParseError(ErrUnexpectedToken, tok, "unexpected %s in attribute list", tok.Describe())
	}
	return nil
}

func (s *parseState) applyAttribute(target tree.NodeID, key Token, value string) {
	known := true
	s.arena.Update(target, func(it *tree.ProjectItem) {
		switch key.Value {
		case "path":
			it.Path = value
		case "command":
			it.Command = value
		case "name":
			it.Name = value
		default:
			known = false
			if it.Attributes == nil {
				it.Attributes = make(map[string]string)
			}
			it.Attributes[key.Value] = value
		}
	})

	if !known {
		s.warn(key, "unknown attribute %q", key.Value)
	}
}

// applyTagAttribute keeps an attribute written on a content tag, such as
// <description lang="en">, as "<tag>.<key>" in the item's attributes. It
// never touches the item's own fields.
func (s *parseState) applyTagAttribute(target tree.NodeID, tag string, key Token, value string) {
	s.arena.Update(target, func(it *tree.ProjectItem) {
		if it.Attributes == nil {
			it.Attributes = make(map[string]string)
		}
		it.Attributes[tag+"."+key.Value] = value
	})
	s.warn(key, "attribute %q on <%s> is not used", key.Value, tag)
}

func (s *parseState) openTag(tok Token) error {
	name := tok.Value

	if tree.IsStructuralTag(name) {
		s.popLeaves()
		itemType := tree.ItemDirectory
		if name == "file" {
			itemType = tree.ItemFile
		}
		id := s.arena.New(tree.ProjectItem{Type: itemType, Line: tok.Line})
		s.arena.Attach(s.top(), id)
		s.stack = append(s.stack, frame{id: id, kind: frameTag, tag: name, line: tok.Line})

		attrs := s.peek().Type == TokenIdentifier
		if name == rawBodyTag {
			s.file = &fileBody{id: id, pos: -1}
			if !attrs {
				s.file.pos = tok.End
			}
		}
		if attrs {
			s.beginAttributes(id, stateExpectingStructuralElement)
		}
		return nil
	}

	target := s.top()
	if target == tree.NoNode {
		return newParseError(ErrNoTarget, tok, "tag <%s> has no enclosing item", name)
	}

	s.capture = &tagCapture{name: name, target: target, bodyStart: tok.End, open: tok}
	if s.peek().Type == TokenIdentifier {
		s.beginAttributes(target, stateInCustomTagBody)
		s.attrTag = name
	} else {
		s.state = stateInCustomTagBody
	}
	return nil
}

func (s *parseState) closeTag(tok Token) error {
	idx := -1
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == frameTag {
			idx = i
			break
		}
	}

	if idx < 0 {
		return newParseError(ErrMismatchedTag, tok, "closing tag </%s> without an opening tag", tok.Value)
	}

	open := s.stack[idx]
	if open.tag != tok.Value {
		return newParseError(ErrMismatchedTag, tok, "expected </%s> to close the tag opened at line %d, found </%s>",
			open.tag, open.line, tok.Value)
	}

	body := ""
	if s.file != nil && s.file.id == open.id {
		body = s.file.content(s.input, tok.Position)
		s.file = nil
	}

	var item tree.ProjectItem
	s.arena.Update(open.id, func(it *tree.ProjectItem) {
		it.AppendContent(body)
		if it.Name == "" && it.Path != "" {
			it.Name = path.Base(strings.TrimRight(it.Path, "/"))
		}
		item = *it
	})
	if item.Name == "" {
		s.warn(tok, "<%s> opened at line %d has neither a name nor a path", open.tag, open.line)
	}

	// the closed block stays the context for content that follows it
	s.stack = append(s.stack[:idx], frame{id: open.id, kind: frameLeaf, line: open.line})
	return nil
}

// inFileBody handles the tokens the lexer still emits inside a <file> body.
// The body text itself is sliced from the input when the block closes.
func (s *parseState) inFileBody(tok Token) (bool, error) {
	switch tok.Type {
	case TokenEOF:
		return true, nil
	case TokenCustomTagStart:
		return false, s.openTag(tok)
	case TokenCustomTagEnd:
		return false, s.closeTag(tok)
	case TokenCodeBlockStart, TokenCodeBlockEnd:
		return false, s.openCodeBlock(tok, nil)
	}
	return false, nil
}

func (s *parseState) inTagBody(tok Token) error {
	c := s.capture.(*tagCapture)

	switch tok.Type {
	case TokenCustomTagEnd:
		if tok.Value == c.name {
			s.flushTag(c, tok)
			return nil
		}
		if isKnownTag(tok.Value) {
			return newParseError(ErrMismatchedTag, tok, "expected </%s>, found </%s>", c.name, tok.Value)
		}

	case TokenCustomTagStart:
		if isKnownTag(tok.Value) {
			return newParseError(ErrNestedTag, tok, "tag <%s> cannot appear inside <%s>", tok.Value, c.name)
		}

	case TokenCodeBlockStart, TokenCodeBlockEnd:
		return s.openCodeBlock(tok, c)

	case TokenEOF:
		return newParseError(ErrUnexpectedEOF, tok, "missing </%s> for the tag opened at line %d", c.name, c.open.Line)
	}

	return nil
}

func (s *parseState) openCodeBlock(tok Token, outer *tagCapture) error {
	target := s.top()
	if outer != nil {
		target = outer.target
	}
	if target == tree.NoNode {
		return newParseError(ErrNoTarget, tok, "code block with no enclosing item")
	}

	lang := ""
	if tok.Type == TokenCodeBlockStart {
		lang = tok.Value
	}

	s.lexer.BeginVerbatim()
	s.capture = &codeCapture{lang: lang, target: target, bodyStart: tok.End, open: tok, outer: outer}
	s.state = stateInCodeBlockBody
	return nil
}

func (s *parseState) inCodeBlock(tok Token) error {
	c := s.capture.(*codeCapture)

	switch tok.Type {
	case TokenCodeBlockEnd:
		if c.outer != nil {
			s.flushNestedCode(c, tok)
			return nil
		}
		s.flushCode(c, tok)

	case TokenEOF:
		return newParseError(ErrUnexpectedEOF, tok, "unterminated code block opened at line %d", c.open.Line)
	}

	return nil
}

func (s *parseState) extendLoose(tok Token) {
	if !s.loose.active {
		s.loose.active = true
		s.loose.start = tok.Position
	}
	s.loose.end = tok.End
}

func (s *parseState) top() tree.NodeID {
	if len(s.stack) == 0 {
		return tree.NoNode
	}
	return s.stack[len(s.stack)-1].id
}

// popForHeading pops until the top is a heading of a lower level or an
// open tag block
func (s *parseState) popForHeading(level int) {
	for len(s.stack) > 0 {
		f := s.stack[len(s.stack)-1]
		if f.kind == frameTag || (f.kind == frameHeading && f.level < level) {
			return
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *parseState) popLeaves() {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].kind == frameLeaf {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *parseState) warn(tok Token, format string, args ...interface{}) {
	d := tree.Diagnostic{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
	s.diagnostics = append(s.diagnostics, d)
	s.logger.Warn(d.Message, fslog.Fields{"line": d.Line, "column": d.Column})
}

func (s *parseState) finish(eof Token) (*tree.Document, error) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if f := s.stack[i]; f.kind == frameTag {
			return nil, newParseError(ErrUnexpectedEOF, eof, "missing </%s> for the tag opened at line %d", f.tag, f.line)
		}
	}

	return &tree.Document{
		Items:       s.arena.Build(),
		Preamble:    strings.Join(s.preamble, "\n"),
		Diagnostics: s.diagnostics,
	}, nil
}

func isKnownTag(name string) bool {
	return tree.IsContentTag(name) || tree.IsStructuralTag(name)
}
