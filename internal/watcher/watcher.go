// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     watcher
// Description: Re-parses a ForSure document whenever it changes on disk
// Author:      Mike Stoffels
// Created:     2026-10-13
// License:     MIT
// ============================================================================

package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/forsure/parser"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/filex"
	"github.com/msto63/forsure/pkg/core/cache"
)

// DefaultDebounce is the quiet period used when Options leaves it 0
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the result of every parse. Exactly one of doc and err
// is non-nil.
type Handler func(doc *tree.Document, err error)

// Options configures a Watcher
type Options struct {
	// Debounce is the quiet period after the last change before the
	// document is parsed again
	Debounce time.Duration

	Parser parser.Options

	// Cache, when set, reuses documents for content seen before
	Cache *cache.DocumentCache

	Logger *fslog.Logger
}

// Watcher watches a single document
type Watcher struct {
	path    string
	opts    Options
	logger  *fslog.Logger
	lastKey string
}

// New creates a watcher for the document at path
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fserr.Wrap(err, "failed to resolve document path").
			WithCode(fserr.CodeIOError).
			WithOperation("watcher.New")
	}
	if !filex.IsFile(abs) {
		return nil, fserr.Newf("document not found: %s", path).
			WithCode(fserr.CodeNotFound).
			WithOperation("watcher.New")
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Parser.MaxInputLength <= 0 {
		opts.Parser.MaxInputLength = parser.DefaultMaxInputLength
	}
	opts.Parser.Source = path

	logger := opts.Logger
	if logger == nil {
		logger = fslog.GetDefault()
	}
	if opts.Parser.Logger == nil {
		opts.Parser.Logger = logger
	}

	return &Watcher{
		path:   abs,
		opts:   opts,
		logger: logger.WithFields(fslog.Fields{"component": "watcher", "path": path}),
	}, nil
}

// Run parses the document once, then again after every debounced change,
// until ctx is done. The parent directory is watched so that editors which
// save by renaming a new file into place are followed.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fserr.Wrap(err, "failed to create file watcher").
			WithCode(fserr.CodeIOError).
			WithOperation("watcher.Run")
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fserr.Wrap(err, "failed to watch directory").
			WithCode(fserr.CodeIOError).
			WithOperation("watcher.Run").
			WithDetail("path", filepath.Dir(w.path))
	}

	w.logger.Info("Watching document", fslog.Fields{"debounce_ms": w.opts.Debounce.Milliseconds()})
	w.reload(handle)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fserr.New("watcher events channel closed").
					WithCode(fserr.CodeIOError).
					WithOperation("watcher.Run")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				w.forget()
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				w.logger.Debug("Ignoring event", fslog.String("op", event.Op.String()))
				continue
			}

			w.logger.Trace("Change detected", fslog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(handle)

		case err, ok := <-fsw.Errors:
			if !ok {
				return fserr.New("watcher errors channel closed").
					WithCode(fserr.CodeIOError).
					WithOperation("watcher.Run")
			}
			w.logger.WarnWithErr("File watcher error", err)
		}
	}
}

// forget is called when the document is moved away. Whatever appears at
// the path next is parsed and reported, even if its content matches.
func (w *Watcher) forget() {
	w.logger.Debug("Document removed")
	w.lastKey = ""
	if w.opts.Cache != nil {
		w.opts.Cache.Invalidate()
	}
}

// reload reads and parses the document. Content identical to the last
// delivered version is not reported again.
func (w *Watcher) reload(handle Handler) {
	data, err := filex.ReadLimited(w.path, int64(w.opts.Parser.MaxInputLength))
	if err != nil {
		w.lastKey = ""
		handle(nil, readError(err, w.path))
		return
	}

	key := cache.DocumentKey(data)
	if key == w.lastKey {
		w.logger.Debug("Document unchanged")
		return
	}

	parse := func(input string) (*tree.Document, error) {
		return forsure.ParseWithOptions(input, w.opts.Parser)
	}

	var doc *tree.Document
	if w.opts.Cache != nil {
		var hit bool
		doc, hit, err = w.opts.Cache.Parse(data, parse)
		if hit {
			w.logger.Debug("Document served from cache")
		}
	} else {
		doc, err = parse(string(data))
	}

	if err != nil {
		w.lastKey = ""
		handle(nil, err)
		return
	}

	w.lastKey = key
	w.logger.Debug("Document parsed", fslog.Int("items", doc.Len()))
	handle(doc, nil)
}

func readError(err error, path string) error {
	code := fserr.CodeIOError
	switch {
	case errors.Is(err, filex.ErrTooLarge):
		code = fserr.CodeInputTooLarge
	case errors.Is(err, os.ErrNotExist):
		code = fserr.CodeNotFound
	}
	return fserr.Wrap(err, "failed to read document").
		WithCode(code).
		WithOperation("watcher.reload").
		WithDetail("path", path)
}
