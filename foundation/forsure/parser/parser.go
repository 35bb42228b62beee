// File: parser.go
// Title: ForSure Parser
// Description: Public entry point of the ForSure parser. A Parser holds the
//              options; every Parse call runs a fresh state machine over the
//              token stream and returns the finished document or the first
//              error. Any error aborts the parse; no partial tree is
//              returned.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-05
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-05 v0.1.0: Initial parser implementation
// - 2026-10-12 v0.2.0: Input size limit, source names, trace logging

package parser

import (
	"fmt"

	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
)

// DefaultMaxInputLength is the input limit used when Options leaves it 0
const DefaultMaxInputLength = 10 << 20

// Options configures a Parser
type Options struct {
	// Logger receives warnings and debug output; defaults to the
	// package default logger
	Logger *fslog.Logger

	// MaxInputLength limits the input size in bytes
	MaxInputLength int

	// Source names the input in the returned document
	Source string
}

// Parser parses ForSure documents. A Parser may be reused for several
// documents, one at a time.
type Parser struct {
	logger  *fslog.Logger
	options Options
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.MaxInputLength < 0 {
		return nil, fmt.Errorf("invalid MaxInputLength %d", opts.MaxInputLength)
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.Logger == nil {
		opts.Logger = fslog.GetDefault()
	}
	if opts.Source == "" {
		opts.Source = "<input>"
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "forsure-parser"),
		options: opts,
	}, nil
}

// Parse parses a complete document
func (p *Parser) Parse(input string) (*tree.Document, error) {
	if len(input) > p.options.MaxInputLength {
		return nil, &ParseError{
			Kind:    ErrInputTooLarge,
			Message: fmt.Sprintf("input of %d bytes exceeds the limit of %d bytes", len(input), p.options.MaxInputLength),
			Line:    1,
			Column:  1,
		}
	}

	logger := p.logger.WithField("source", p.options.Source)
	logger.Debug("Starting ForSure parsing", fslog.Fields{
		"input_length": len(input),
	})
	timer := logger.StartTimer("parse")

	doc, err := newParseState(input, logger).run()
	if err != nil {
		timer.Stop()
		logger.Debug("ForSure parsing failed", fslog.Err(err))
		return nil, err
	}

	doc.Source = p.options.Source
	timer.WithField("items", doc.Len()).WithField("warnings", len(doc.Diagnostics)).Stop()
	return doc, nil
}

// Parse parses input with default options
func Parse(input string) (*tree.Document, error) {
	p, err := New(Options{})
	if err != nil {
		return nil, err
	}
	return p.Parse(input)
}
