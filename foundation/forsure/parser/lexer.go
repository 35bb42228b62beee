// File: lexer.go
// Title: ForSure Lexical Analyzer (Tokenizer)
// Description: Hand-written scanner that turns a ForSure document into a
//              lazy token stream. Tracks line and column for every token,
//              recognizes headings and list markers only at the start of a
//              line, and switches into an attribute mode between a tag name
//              and its closing '>'. A verbatim mode, entered by the parser
//              after an opening code fence, returns raw lines until the
//              closing fence. The body of a <file> tag is scanned in raw
//              mode, where only fences, content tags and closing tags keep
//              their meaning.
// Author: msto63
// Version: v0.3.0
// Created: 2026-10-04
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-04 v0.1.0: Initial lexer implementation
// - 2026-10-08 v0.1.1: Attribute mode and <ident= disambiguation
// - 2026-10-12 v0.2.0: Verbatim mode for code block bodies
// - 2026-10-18 v0.3.0: Raw mode for file bodies; fences only at line start

package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msto63/forsure/foundation/forsure/tree"
)

// rawBodyTag is the tag whose body is scanned in raw mode
const rawBodyTag = "file"

// Lexer performs lexical analysis of ForSure documents
type Lexer struct {
	input    string
	position int // offset of ch
	ch       byte
	line     int
	column   int

	atLineStart  bool
	inAttributes bool
	verbatim     bool
	raw          bool
	rawPending   bool // raw starts at the '>' ending the attribute list
}

type mark struct {
	pos, line, column int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		column:      1,
		atLineStart: true,
	}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// NextToken consumes and returns the next token. After the end of input
// every call returns an EOF token.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	if tok.Type != TokenEOF {
		l.atLineStart = tok.Type == TokenNewline
	}
	return tok
}

// PeekToken returns the next token without consuming it
func (l *Lexer) PeekToken() Token {
	snapshot := *l
	return snapshot.NextToken()
}

// BeginVerbatim switches the lexer into code block mode: every following
// line is returned as one Text token (plus Newline tokens) until a line
// consisting only of a bare fence, which yields CodeBlockEnd.
func (l *Lexer) BeginVerbatim() {
	l.verbatim = true
	l.inAttributes = false
}

// Line returns the current line number
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) scan() Token {
	if l.verbatim {
		return l.scanVerbatim()
	}

	l.skipWhitespace()
	start := l.mark()

	if l.inAttributes {
		return l.scanAttribute(start)
	}

	if l.raw {
		return l.scanRaw(start)
	}

	if l.atEOF() {
		return l.token(start, TokenEOF, "")
	}

	switch {
	case l.ch == '\n':
		l.readChar()
		return l.token(start, TokenNewline, "\n")
	case l.atLineStart && l.ch == '#':
		return l.scanHeading(start)
	case l.atLineStart && (l.ch == '-' || l.ch == '*'):
		marker := string(l.ch)
		l.readChar()
		l.skipOneSpace()
		return l.token(start, TokenListItemMarker, marker)
	case l.atLineStart && l.hasPrefix("```"):
		return l.scanFence(start)
	case l.ch == '<':
		return l.scanAngle(start)
	case l.ch == '>':
		l.readChar()
		return l.token(start, TokenGreaterThan, ">")
	case l.ch == '=':
		l.readChar()
		return l.token(start, TokenEquals, "=")
	case l.ch == '"':
		return l.scanQuoted(start)
	default:
		return l.scanText(start)
	}
}

func (l *Lexer) scanHeading(start mark) Token {
	level := 0
	for l.ch == '#' && !l.atEOF() {
		level++
		l.readChar()
	}

	if level > 6 {
		return l.errorToken(start, fmt.Sprintf("invalid heading level %d, at most 6 '#' are allowed", level))
	}

	l.skipOneSpace()
	tok := l.token(start, TokenHeading, strings.Repeat("#", level))
	tok.Level = level
	return tok
}

// scanFence decides between start and end by looking at the rest of the
// line: a language tag makes it a start, a bare fence an end.
func (l *Lexer) scanFence(start mark) Token {
	for i := 0; i < 3; i++ {
		l.readChar()
	}

	restStart := l.position
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}

	lang := strings.TrimSpace(l.input[restStart:l.position])
	if lang == "" {
		return l.token(start, TokenCodeBlockEnd, "```")
	}
	return l.token(start, TokenCodeBlockStart, lang)
}

func (l *Lexer) scanAngle(start mark) Token {
	next := l.peekChar()

	if next == '/' {
		l.readChar()
		l.readChar()
		if !isIdentStart(l.ch) {
			return l.errorToken(start, "expected a tag name after '</'")
		}
		name := l.readIdentifier()
		l.skipWhitespace()
		if l.ch != '>' {
			return l.errorToken(start, fmt.Sprintf("unclosed tag '</%s': expected '>'", name))
		}
		l.readChar()
		return l.token(start, TokenCustomTagEnd, name)
	}

	if !isIdentStart(next) {
		l.readChar()
		return l.token(start, TokenLessThan, "<")
	}

	saved := *l
	l.readChar()
	name := l.readIdentifier()
	l.skipWhitespace()

	switch {
	case l.ch == '=':
		// <key="value"> is an attribute group, not a tag
		*l = saved
		l.readChar()
		l.inAttributes = true
		return l.token(start, TokenLessThan, "<")
	case l.ch == '>':
		l.readChar()
		if name == rawBodyTag {
			l.raw = true
		}
		return l.token(start, TokenCustomTagStart, name)
	case isIdentStart(l.ch):
		l.inAttributes = true
		if name == rawBodyTag {
			l.rawPending = true
		}
		return l.token(start, TokenCustomTagStart, name)
	default:
		return l.errorToken(start, fmt.Sprintf("unclosed tag '<%s': expected '>'", name))
	}
}

func (l *Lexer) scanAttribute(start mark) Token {
	switch {
	case l.atEOF() || l.ch == '\n':
		l.inAttributes = false
		l.rawPending = false
		return l.errorToken(start, "unclosed tag: expected '>' before end of line")
	case l.ch == '>':
		l.readChar()
		l.inAttributes = false
		if l.rawPending {
			l.raw, l.rawPending = true, false
		}
		return l.token(start, TokenGreaterThan, ">")
	case l.ch == '=':
		l.readChar()
		return l.token(start, TokenEquals, "=")
	case l.ch == '"':
		return l.scanQuoted(start)
	case isIdentStart(l.ch):
		return l.token(start, TokenIdentifier, l.readIdentifier())
	default:
		c := l.ch
		l.readChar()
		return l.errorToken(start, fmt.Sprintf("unexpected character %q in attribute list", c))
	}
}

func (l *Lexer) scanQuoted(start mark) Token {
	l.readChar()

	var b strings.Builder
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			return l.errorToken(start, "unterminated quoted string")
		case l.ch == '"':
			l.readChar()
			return l.token(start, TokenQuotedString, b.String())
		case l.ch == '\\' && (l.peekChar() == '"' || l.peekChar() == '\\'):
			l.readChar()
			b.WriteByte(l.ch)
			l.readChar()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) scanText(start mark) Token {
	for !l.atEOF() && !l.isTextStop() {
		l.readChar()
	}

	if l.position == start.pos {
		c := l.ch
		l.readChar()
		return l.errorToken(start, fmt.Sprintf("unexpected character %q", c))
	}

	return l.token(start, TokenText, l.input[start.pos:l.position])
}

// scanRaw scans a file body. Text runs to the end of the line or the next
// '<'; a '<' that does not start a recognized tag is text as well.
func (l *Lexer) scanRaw(start mark) Token {
	switch {
	case l.atEOF():
		return l.token(start, TokenEOF, "")
	case l.ch == '\n':
		l.readChar()
		return l.token(start, TokenNewline, "\n")
	case l.atLineStart && l.hasPrefix("```"):
		return l.scanFence(start)
	case l.ch == '<' && l.rawTagAhead():
		tok := l.scanAngle(start)
		if tok.Type == TokenCustomTagEnd && tok.Value == rawBodyTag {
			l.raw = false
		}
		return tok
	}

	l.readChar()
	for !l.atEOF() && l.ch != '\n' && l.ch != '<' {
		l.readChar()
	}
	return l.token(start, TokenText, l.input[start.pos:l.position])
}

// rawTagAhead reports whether the '<' at the cursor opens a content tag or
// closes any known tag
func (l *Lexer) rawTagAhead() bool {
	rest := l.input[l.position+1:]
	closing := strings.HasPrefix(rest, "/")
	if closing {
		rest = rest[1:]
	}
	if rest == "" || !isIdentStart(rest[0]) {
		return false
	}

	n := 1
	for n < len(rest) && isIdentChar(rest[n]) {
		n++
	}
	name := rest[:n]
	if closing {
		return tree.IsContentTag(name) || tree.IsStructuralTag(name)
	}
	if n < len(rest) && rest[n] != '>' && !isHorizontalSpace(rest[n]) {
		return false
	}
	return tree.IsContentTag(name)
}

func (l *Lexer) scanVerbatim() Token {
	start := l.mark()

	if l.atEOF() {
		l.verbatim = false
		return l.token(start, TokenEOF, "")
	}

	if l.ch == '\n' {
		l.readChar()
		return l.token(start, TokenNewline, "\n")
	}

	eol := strings.IndexByte(l.input[l.position:], '\n')
	if eol < 0 {
		eol = len(l.input)
	} else {
		eol += l.position
	}

	if l.atLineStart {
		fence := strings.TrimLeft(l.input[l.position:eol], " \t")
		if strings.HasPrefix(fence, "```") && strings.TrimSpace(fence[3:]) == "" {
			for l.position < eol {
				l.readChar()
			}
			l.verbatim = false
			return l.token(start, TokenCodeBlockEnd, "```")
		}
	}

	for l.position < eol {
		l.readChar()
	}
	return l.token(start, TokenText, l.input[start.pos:l.position])
}

// readChar advances to the next byte, keeping line and column (counted
// in runes) up to date
func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}

	prev := l.ch
	l.position++
	if l.position < len(l.input) {
		l.ch = l.input[l.position]
	} else {
		l.ch = 0
	}

	if prev == '\n' {
		l.line++
		l.column = 1
	} else if utf8.RuneStart(l.ch) {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.position+1 >= len(l.input) {
		return 0
	}
	return l.input[l.position+1]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.position:], s)
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentChar(l.ch) && !l.atEOF() {
		l.readChar()
	}
	return l.input[start:l.position]
}

// skipWhitespace skips horizontal whitespace; newlines are tokens
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isHorizontalSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) skipOneSpace() {
	if l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) isTextStop() bool {
	switch l.ch {
	case '\n', '<', '>', '=', '"':
		return true
	default:
		return isHorizontalSpace(l.ch)
	}
}

func (l *Lexer) mark() mark {
	return mark{pos: l.position, line: l.line, column: l.column}
}

func (l *Lexer) token(start mark, tokenType TokenType, value string) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Position: start.pos,
		End:      l.position,
		Line:     start.line,
		Column:   start.column,
	}
}

func (l *Lexer) errorToken(start mark, message string) Token {
	return l.token(start, TokenLexError, message)
}

func isHorizontalSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isIdentStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9') || ch == '-'
}

// Tokenize lexes the whole input, following code fences the same way the
// parser does, and returns all tokens including the final EOF. Lexing stops
// at the first error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	inBlock := false
	var tokens []Token

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)

		switch tok.Type {
		case TokenEOF:
			return tokens, nil
		case TokenLexError:
			return tokens, newLexError(tok)
		case TokenCodeBlockStart, TokenCodeBlockEnd:
			if !inBlock {
				l.BeginVerbatim()
			}
			inBlock = !inBlock
		}
	}
}
