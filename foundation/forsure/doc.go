// Package forsure is the entry point to the ForSure markup language.
//
// A ForSure document describes a project tree with markdown-like headings
// and list items, <file> and <directory> blocks, content tags such as
// <description> and fenced code blocks:
//
//	# MyProject
//	<description>A sample project</description>
//
//	## src
//	<file name="main.go" path="src/main.go">
//	```go
//	package main
//	```
//	</file>
//	- README.md <path="README.md">
//
// Parse and ParseFile return a tree.Document; Format writes one back.
// The lexer and parser live in the parser subpackage, the data model in
// tree.
//
// Basic usage:
//
//	doc, err := forsure.ParseFile("project.forsure")
//	if err != nil {
//		return err
//	}
//	for _, d := range doc.Diagnostics {
//		fmt.Println("warning:", d)
//	}
package forsure
