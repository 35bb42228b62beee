// File: token.go
// Title: ForSure Token Definitions
// Description: Defines the closed set of lexical tokens produced by the
//              ForSure lexer together with their source positions.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-04
// Modified: 2026-10-04
//
// Change History:
// - 2026-10-04 v0.1.0: Initial token set

package parser

import (
	"fmt"
	"strings"
)

// TokenType represents the kind of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenLexError

	// Structural markers
	TokenHeading
	TokenListItemMarker
	TokenCustomTagStart
	TokenCustomTagEnd
	TokenCodeBlockStart
	TokenCodeBlockEnd

	// Content
	TokenText
	TokenNewline

	// Attribute syntax
	TokenLessThan
	TokenGreaterThan
	TokenEquals
	TokenQuotedString
	TokenIdentifier
)

// String returns the string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLexError:
		return "LEX_ERROR"
	case TokenHeading:
		return "HEADING"
	case TokenListItemMarker:
		return "LIST_ITEM_MARKER"
	case TokenCustomTagStart:
		return "CUSTOM_TAG_START"
	case TokenCustomTagEnd:
		return "CUSTOM_TAG_END"
	case TokenCodeBlockStart:
		return "CODE_BLOCK_START"
	case TokenCodeBlockEnd:
		return "CODE_BLOCK_END"
	case TokenText:
		return "TEXT"
	case TokenNewline:
		return "NEWLINE"
	case TokenLessThan:
		return "LESS_THAN"
	case TokenGreaterThan:
		return "GREATER_THAN"
	case TokenEquals:
		return "EQUALS"
	case TokenQuotedString:
		return "QUOTED_STRING"
	case TokenIdentifier:
		return "IDENTIFIER"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token. Value holds the payload: the tag name
// for tag tokens, the language for CodeBlockStart, the unescaped string for
// QuotedString, the message for LexError and the raw text otherwise. Level
// is set for Heading tokens. Position and End are byte offsets into the
// input; End is exclusive.
type Token struct {
	Type     TokenType
	Value    string
	Level    int
	Position int
	End      int
	Line     int
	Column   int
}

// String returns a debug representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenHeading:
		return fmt.Sprintf("%s(%d) at %d:%d", t.Type, t.Level, t.Line, t.Column)
	case TokenNewline, TokenEOF:
		return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
	default:
		return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Value, t.Line, t.Column)
	}
}

// Describe returns a short user-facing description such as "'<file>'"
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "end of line"
	case TokenHeading:
		return "'" + strings.Repeat("#", t.Level) + "'"
	case TokenCustomTagStart:
		return "'<" + t.Value + ">'"
	case TokenCustomTagEnd:
		return "'</" + t.Value + ">'"
	case TokenCodeBlockStart, TokenCodeBlockEnd:
		return "code fence"
	case TokenQuotedString:
		return fmt.Sprintf("%q", t.Value)
	default:
		return "'" + t.Value + "'"
	}
}
