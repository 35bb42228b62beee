package cmd

import (
	"context"
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/tui/browser"
	"github.com/msto63/forsure/internal/watcher"
	"github.com/msto63/forsure/pkg/core/cache"
)

var browseWatch bool

var browseCmd = &cobra.Command{
	Use:   "browse <file>",
	Short: "Explore a document in an interactive tree view",
	Long: `Open a parsed document in a terminal browser with the tree on the left
and every field of the selected item on the right.

Keys:
  j/k, ↑/↓     move
  h/l, ←/→     collapse / expand
  enter        toggle
  e            expand all
  pgup/pgdn    scroll the details
  ?            help
  q            quit

With --watch the view follows changes to the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVarP(&browseWatch, "watch", "w", false, "reload the document when it changes")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	model := browser.New(doc, filepath.Base(args[0]))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if browseWatch && args[0] != "-" {
		docs := cache.NewDocumentCache(cache.DefaultConfig())
		defer docs.Close()

		opts := watcherOptions(args[0], docs)
		// log lines would garble the alternate screen
		opts.Logger = logger.WithLevel(fslog.LevelError)
		opts.Parser.Logger = opts.Logger

		w, err := watcher.New(args[0], opts)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go w.Run(ctx, func(doc *tree.Document, err error) {
			program.Send(browser.DocumentMsg{Doc: doc, Err: err})
		})
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fserr.Wrap(err, "browser failed").
			WithCode(fserr.CodeInternal)
	}
	return nil
}
