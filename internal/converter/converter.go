// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     converter
// Description: Builds a ForSure document from an existing directory tree
// Author:      Mike Stoffels
// Created:     2026-10-11
// License:     MIT
// ============================================================================

package converter

import (
	"os"
	"path/filepath"
	"strings"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/filex"
	"github.com/msto63/forsure/foundation/utils/stringx"
)

// Options controls the conversion
type Options struct {
	// Ignore holds glob patterns matched against entry names
	Ignore []string

	// IncludeContent stores the text of small files as item content
	IncludeContent bool

	// MaxFileSize limits the files whose content is included
	MaxFileSize int64

	Logger *fslog.Logger
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Ignore:      []string{".git", "node_modules", "target", ".DS_Store"},
		MaxFileSize: 64 << 10,
	}
}

type converter struct {
	opts   Options
	logger *fslog.Logger
	root   string
}

// Convert walks root and returns a document with one Project item named
// after the directory. Entries are sorted by name; symlinks are skipped.
func Convert(root string, opts Options) (*tree.Document, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fserr.Wrap(err, "failed to resolve directory").
			WithCode(fserr.CodeIOError).
			WithOperation("converter.Convert")
	}
	if !filex.IsDir(abs) {
		return nil, fserr.Newf("not a directory: %s", root).
			WithCode(fserr.CodeNotFound).
			WithOperation("converter.Convert")
	}

	for _, pattern := range opts.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fserr.Wrap(err, "invalid ignore pattern").
				WithCode(fserr.CodeInvalidInput).
				WithOperation("converter.Convert").
				WithDetail("pattern", pattern)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = fslog.GetDefault()
	}

	c := &converter{
		opts:   opts,
		logger: logger.WithField("component", "converter"),
		root:   abs,
	}

	project := &tree.ProjectItem{
		Type: tree.ItemProject,
		Name: filepath.Base(abs),
	}

	children, err := c.walk(abs)
	if err != nil {
		return nil, err
	}
	project.Children = children

	doc := &tree.Document{Source: abs, Items: []*tree.ProjectItem{project}}
	c.logger.Debug("Directory converted", fslog.Fields{
		"root":  abs,
		"items": doc.Len(),
	})
	return doc, nil
}

func (c *converter) walk(dir string) ([]*tree.ProjectItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fserr.Wrap(err, "failed to read directory").
			WithCode(fserr.CodeIOError).
			WithOperation("converter.walk").
			WithDetail("path", dir)
	}

	var items []*tree.ProjectItem
	for _, entry := range entries {
		name := entry.Name()
		if c.ignored(name) {
			continue
		}

		path := filepath.Join(dir, name)
		switch {
		case entry.Type()&os.ModeSymlink != 0:
			c.logger.Debug("Skipping symlink", fslog.String("path", path))

		case entry.IsDir():
			item := &tree.ProjectItem{Type: tree.ItemDirectory, Name: name}
			// keep the real name when materializing would rename it
			if stringx.Slugify(name) != name {
				item.Path = name
			}
			children, err := c.walk(path)
			if err != nil {
				return nil, err
			}
			item.Children = children
			items = append(items, item)

		case entry.Type().IsRegular():
			item := &tree.ProjectItem{Type: tree.ItemFile, Name: name}
			if c.opts.IncludeContent {
				item.Content = c.content(path)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *converter) ignored(name string) bool {
	for _, pattern := range c.opts.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// content returns the text of path, or "" for binary, oversized or
// unreadable files and for text that cannot sit inside a code fence
func (c *converter) content(path string) string {
	data, err := filex.ReadLimited(path, c.opts.MaxFileSize)
	if err != nil {
		c.logger.Debug("Content not included", fslog.Fields{"path": path, "reason": err.Error()})
		return ""
	}
	if !filex.LooksLikeText(data) {
		return ""
	}

	text := strings.TrimRight(string(data), "\n")
	for _, line := range stringx.SplitLines(text) {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			c.logger.Debug("Content not included", fslog.Fields{"path": path, "reason": "contains a code fence"})
			return ""
		}
	}
	return text
}
