// Package parser implements the ForSure lexer and parser.
//
// The Lexer produces tokens lazily with line and column information.
// Headings and list markers are recognized only at the start of a line;
// after a tag name or a "<key=" opener the lexer switches into an attribute
// mode until the closing '>'. Code block bodies are read verbatim once the
// parser calls BeginVerbatim. Fences count only at the start of a line.
// The body of a <file> block is scanned raw: only fences, content tags and
// closing tags are recognized there, everything else is text.
//
// The Parser is a state machine over that token stream. It keeps a stack of
// open ancestors (headings by level, open <file>/<directory> blocks and the
// last list item or closed block) and routes every new node to the top of
// that stack. Content tags and code blocks never create nodes; their raw
// bodies are sliced from the input and stored on the enclosing item. A
// <file> block keeps its whole body, minus content tags and fence lines,
// as its content. Attributes written on a content tag are stored as
// "<tag>.<key>" and never change the item itself.
//
// Any lexical or structural error aborts the parse with a *ParseError.
// Non-fatal problems such as unknown attributes are collected as
// tree.Diagnostic values on the returned document.
package parser
