// File: errors.go
// Title: Parse Errors
// Description: ParseError reports why a document could not be parsed,
//              with the position and token where parsing stopped.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-05
// Modified: 2026-10-05
//
// Change History:
// - 2026-10-05 v0.1.0: Initial error kinds

package parser

import "fmt"

// ErrorKind classifies parse failures
type ErrorKind int

const (
	// ErrLex is a lexical error reported by the lexer
	ErrLex ErrorKind = iota
	// ErrUnexpectedToken is a token that is not valid in the current state
	ErrUnexpectedToken
	// ErrMismatchedTag is a closing tag that does not match the open tag
	ErrMismatchedTag
	// ErrUnexpectedEOF is the end of input inside an open construct
	ErrUnexpectedEOF
	// ErrNoTarget is a tag or code block with no enclosing item
	ErrNoTarget
	// ErrNestedTag is a content tag opened inside another content tag
	ErrNestedTag
	// ErrInputTooLarge is input beyond the configured limit
	ErrInputTooLarge
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex"
	case ErrUnexpectedToken:
		return "unexpected_token"
	case ErrMismatchedTag:
		return "mismatched_tag"
	case ErrUnexpectedEOF:
		return "unexpected_eof"
	case ErrNoTarget:
		return "no_target"
	case ErrNestedTag:
		return "nested_tag"
	case ErrInputTooLarge:
		return "input_too_large"
	default:
		return "unknown"
	}
}

// ParseError represents a parsing error with position information
type ParseError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	Token   Token
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Is matches another *ParseError of the same kind, so callers can test
// errors.Is(err, &ParseError{Kind: ErrMismatchedTag})
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func newLexError(tok Token) *ParseError {
	return &ParseError{
		Kind:    ErrLex,
		Message: tok.Value,
		Line:    tok.Line,
		Column:  tok.Column,
		Token:   tok,
	}
}

func newParseError(kind ErrorKind, tok Token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Token:   tok,
	}
}
