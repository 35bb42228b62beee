// File: forsure.go
// Title: ForSure Facade
// Description: Convenience entry points over the lexer, parser and
//              serializer. Errors crossing this boundary are wrapped in the
//              structured error type with a document or filesystem code;
//              the underlying *parser.ParseError stays reachable through
//              errors.As.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-08
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-08 v0.1.0: Parse, ParseFile, Tokenize, Format
// - 2026-10-14 v0.1.1: Structured error codes

package forsure

import (
	"errors"
	"os"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/foundation/forsure/parser"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/filex"
)

// Version of the ForSure language package
const Version = "0.2.0"

// Parse parses a document with default options
func Parse(input string) (*tree.Document, error) {
	return ParseWithOptions(input, parser.Options{})
}

// ParseWithOptions parses a document with the given parser options
func ParseWithOptions(input string, opts parser.Options) (*tree.Document, error) {
	p, err := parser.New(opts)
	if err != nil {
		return nil, fserr.Wrap(err, "invalid parser options").
			WithCode(fserr.CodeInvalidInput).
			WithOperation("forsure.Parse")
	}

	doc, err := p.Parse(input)
	if err != nil {
		return nil, wrapParseError(err, opts.Source)
	}
	return doc, nil
}

// ParseFile reads and parses the document at path
func ParseFile(path string) (*tree.Document, error) {
	return ParseFileWithOptions(path, parser.Options{})
}

// ParseFileWithOptions reads and parses the document at path. The file size
// is checked against opts.MaxInputLength before it is read completely.
func ParseFileWithOptions(path string, opts parser.Options) (*tree.Document, error) {
	limit := int64(opts.MaxInputLength)
	if limit == 0 {
		limit = parser.DefaultMaxInputLength
	}

	data, err := filex.ReadLimited(path, limit)
	if err != nil {
		code := fserr.CodeIOError
		switch {
		case errors.Is(err, os.ErrNotExist):
			code = fserr.CodeNotFound
		case errors.Is(err, filex.ErrTooLarge):
			code = fserr.CodeInputTooLarge
		}
		return nil, fserr.Wrap(err, "failed to read document").
			WithCode(code).
			WithOperation("forsure.ParseFile").
			WithDetail("path", path)
	}

	if opts.Source == "" {
		opts.Source = path
	}
	return ParseWithOptions(string(data), opts)
}

// Tokenize returns the token stream of input, up to and including EOF or
// the first lexical error
func Tokenize(input string) ([]parser.Token, error) {
	tokens, err := parser.Tokenize(input)
	if err != nil {
		return tokens, fserr.Wrap(err, "tokenization failed").
			WithCode(fserr.CodeForSureSyntax).
			WithOperation("forsure.Tokenize")
	}
	return tokens, nil
}

// Format renders doc as ForSure text
func Format(doc *tree.Document) string {
	return tree.Format(doc)
}

// CodeFor maps a parse error to its structured error code: lexical and
// token-level problems are syntax errors, unbalanced or misplaced blocks are
// structure errors.
func CodeFor(err error) fserr.Code {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return fserr.GetCode(err)
	}

	switch perr.Kind {
	case parser.ErrLex, parser.ErrUnexpectedToken:
		return fserr.CodeForSureSyntax
	case parser.ErrInputTooLarge:
		return fserr.CodeInputTooLarge
	default:
		return fserr.CodeForSureStructure
	}
}

func wrapParseError(err error, source string) error {
	wrapped := fserr.Wrap(err, "failed to parse document").
		WithCode(CodeFor(err)).
		WithOperation("forsure.Parse")

	if source != "" {
		wrapped = wrapped.WithDetail("source", source)
	}

	var perr *parser.ParseError
	if errors.As(err, &perr) {
		wrapped = wrapped.
			WithDetail("kind", perr.Kind.String()).
			WithDetail("line", perr.Line).
			WithDetail("column", perr.Column)
	}
	return wrapped
}
