package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/watcher"
	"github.com/msto63/forsure/pkg/core/cache"
)

var (
	watchFormat   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a document whenever it changes",
	Long: `Parse a document and print its tree, then print it again every time
the file is saved. Parse errors are reported and watching continues.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "tree", "output format: tree, outline, json or yaml")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before re-parsing (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	docs := cache.NewDocumentCache(cache.DefaultConfig())
	defer docs.Close()

	w, err := watcher.New(args[0], watcherOptions(args[0], docs))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	return w.Run(cmd.Context(), func(doc *tree.Document, err error) {
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			fmt.Fprintf(errOut, "[%s] Error: %v\n", stamp, err)
			return
		}

		fmt.Fprintf(out, "[%s] %s: %d items\n", stamp, args[0], doc.Len())
		if err := writeDocument(out, doc, watchFormat); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	})
}

func watcherOptions(path string, docs *cache.DocumentCache) watcher.Options {
	debounce := appConfig.Watch.Debounce.Duration
	if watchDebounce > 0 {
		debounce = watchDebounce
	}
	return watcher.Options{
		Debounce: debounce,
		Parser:   parserOptions(path),
		Cache:    docs,
		Logger:   logger,
	}
}
