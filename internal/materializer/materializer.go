// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     materializer
// Description: Creates the directories and files described by a document
// Author:      Mike Stoffels
// Created:     2026-10-10
// License:     MIT
// ============================================================================

package materializer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/filex"
	"github.com/msto63/forsure/foundation/utils/stringx"
)

// Options controls how a document is written to disk
type Options struct {
	// DryRun plans every entry but touches nothing
	DryRun bool

	// Overwrite replaces existing files; otherwise they are skipped
	Overwrite bool

	DirMode  os.FileMode
	FileMode os.FileMode
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		DirMode:  0o755,
		FileMode: 0o644,
	}
}

// Materializer turns parsed documents into file system entries
type Materializer struct {
	opts   Options
	logger *fslog.Logger
}

// New creates a materializer. A nil logger uses the default logger.
func New(opts Options, logger *fslog.Logger) *Materializer {
	if opts.DirMode == 0 {
		opts.DirMode = 0o755
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	if logger == nil {
		logger = fslog.GetDefault()
	}

	return &Materializer{
		opts:   opts,
		logger: logger.WithField("component", "materializer"),
	}
}

// operation is one planned file system change
type operation struct {
	kind    EntryKind
	path    string
	content string
	item    string
}

// Materialize writes doc below baseDir. The whole tree is planned first;
// a path escaping baseDir aborts the run before anything is written.
// FullPath is set on every item that maps to an entry.
func (m *Materializer) Materialize(ctx context.Context, doc *tree.Document, baseDir string) (*Report, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fserr.Wrap(err, "failed to resolve output directory").
			WithCode(fserr.CodeMaterializeFailed).
			WithOperation("materializer.Materialize").
			WithDetail("base_dir", baseDir)
	}

	report := &Report{
		RunID:     uuid.New().String(),
		Source:    doc.Source,
		BaseDir:   base,
		DryRun:    m.opts.DryRun,
		StartedAt: time.Now(),
	}

	logger := m.logger.WithField("run_id", report.RunID)
	timer := logger.StartTimer("materialize").WithLevel(fslog.LevelInfo)

	p := &planner{base: base, report: report}
	if err := p.plan(doc.Items, base); err != nil {
		timer.StopWithError(err)
		return report, err
	}

	logger.Debug("Plan complete", fslog.Fields{
		"operations": len(p.ops),
		"commands":   len(report.Commands),
		"dry_run":    m.opts.DryRun,
	})

	for _, op := range p.ops {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			timer.StopWithError(err)
			return report, fserr.Wrap(err, "materialization canceled").
				WithCode(fserr.CodeCanceled).
				WithOperation("materializer.Materialize")
		}

		entry, err := m.apply(op, base)
		if err != nil {
			report.FinishedAt = time.Now()
			timer.StopWithError(err)
			return report, err
		}
		report.Entries = append(report.Entries, entry)

		logger.Debug("Entry processed", fslog.Fields{
			"kind":   string(entry.Kind),
			"path":   entry.Path,
			"action": string(entry.Action),
		})
	}

	report.FinishedAt = time.Now()
	timer.WithField("created", report.Created()).WithField("skipped", report.Skipped()).Stop()
	return report, nil
}

func (m *Materializer) apply(op operation, base string) (Entry, error) {
	rel, _ := filepath.Rel(base, op.path)
	entry := Entry{Kind: op.kind, Path: filepath.ToSlash(rel), Item: op.item}

	failed := func(err error, msg string) error {
		return fserr.Wrap(err, msg).
			WithCode(fserr.CodeMaterializeFailed).
			WithOperation("materializer.apply").
			WithDetail("path", op.path)
	}

	switch op.kind {
	case KindDirectory:
		if filex.IsDir(op.path) {
			entry.Action = ActionExists
			return entry, nil
		}
		if filex.Exists(op.path) {
			return entry, failed(os.ErrExist, "a file is in the way of a directory")
		}
		entry.Action = ActionCreate
		if m.opts.DryRun {
			return entry, nil
		}
		if err := filex.MkdirAll(op.path, m.opts.DirMode); err != nil {
			return entry, failed(err, "failed to create directory")
		}

	case KindFile:
		entry.Action = ActionCreate
		if filex.IsDir(op.path) {
			return entry, failed(os.ErrExist, "a directory is in the way of a file")
		}
		if filex.Exists(op.path) {
			if !m.opts.Overwrite {
				entry.Action = ActionSkip
				return entry, nil
			}
			entry.Action = ActionOverwrite
		}
		if m.opts.DryRun {
			return entry, nil
		}
		if err := filex.MkdirAll(filepath.Dir(op.path), m.opts.DirMode); err != nil {
			return entry, failed(err, "failed to create parent directory")
		}
		if err := filex.WriteString(op.path, op.content, m.opts.FileMode); err != nil {
			return entry, failed(err, "failed to write file")
		}
	}

	return entry, nil
}

// planner walks the tree and records operations in document order
type planner struct {
	base   string
	report *Report
	ops    []operation
}

func (p *planner) plan(items []*tree.ProjectItem, dir string) error {
	for _, item := range items {
		if err := p.planItem(item, dir); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) planItem(item *tree.ProjectItem, dir string) error {
	if item.Command != "" {
		rel, _ := filepath.Rel(p.base, dir)
		p.report.Commands = append(p.report.Commands, Command{
			Dir:     filepath.ToSlash(rel),
			Command: item.Command,
			Item:    item.Label(),
		})
	}

	switch item.Type {
	case tree.ItemProject:
		if !item.HasPath() {
			item.FullPath = dir
			return p.plan(item.Children, dir)
		}
		target, err := p.resolve(dir, item.Path, item)
		if err != nil {
			return err
		}
		return p.directory(item, target)

	case tree.ItemDirectory:
		name := item.Path
		if name == "" {
			name = stringx.Slugify(item.Name)
		}
		if name == "" {
			return p.plan(item.Children, dir)
		}
		target, err := p.resolve(dir, name, item)
		if err != nil {
			return err
		}
		return p.directory(item, target)

	case tree.ItemFile:
		name := stringx.FirstNonBlank(item.Path, item.Name)
		if name == "" {
			return p.plan(item.Children, dir)
		}
		target, err := p.resolve(dir, name, item)
		if err != nil {
			return err
		}
		p.file(item, target)
		return p.plan(item.Children, dir)

	case tree.ItemListItem:
		if !item.HasPath() {
			return p.plan(item.Children, dir)
		}
		target, err := p.resolve(dir, item.Path, item)
		if err != nil {
			return err
		}
		if strings.HasSuffix(item.Path, "/") {
			return p.directory(item, target)
		}
		p.file(item, target)
		return p.plan(item.Children, dir)

	default:
		return p.plan(item.Children, dir)
	}
}

func (p *planner) directory(item *tree.ProjectItem, target string) error {
	item.FullPath = target
	if target != p.base {
		p.ops = append(p.ops, operation{kind: KindDirectory, path: target, item: item.Label()})
	}
	return p.plan(item.Children, target)
}

func (p *planner) file(item *tree.ProjectItem, target string) {
	item.FullPath = target
	p.ops = append(p.ops, operation{
		kind:    KindFile,
		path:    target,
		content: FileContent(item),
		item:    item.Label(),
	})
}

// resolve joins a written path onto dir and rejects results outside the
// base directory
func (p *planner) resolve(dir, written string, item *tree.ProjectItem) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(written))
	if !filex.Within(p.base, target) {
		return "", fserr.Newf("path %q of %s %q escapes the output directory", written,
			strings.ToLower(item.Type.String()), item.Label()).
			WithCode(fserr.CodePathEscape).
			WithOperation("materializer.plan").
			WithDetail("path", written).
			WithDetail("line", item.Line)
	}
	return target, nil
}

// FileContent returns what is written into the file of item: the content
// pattern, else the example, else the free content, with a final newline
func FileContent(item *tree.ProjectItem) string {
	content := item.ContentPattern
	if content == "" {
		content = item.Example
	}
	if content == "" {
		content = item.Content
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
