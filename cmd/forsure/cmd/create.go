package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/internal/history"
	"github.com/msto63/forsure/internal/materializer"
)

var (
	createOutput    string
	createDryRun    bool
	createOverwrite bool
	createFormat    string
	createNoHistory bool
)

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Create the directories and files described by a document",
	Long: `Create the project structure described by a ForSure document.

Projects with a path, directories and files become entries below the output
directory. Directory names without a path are lower-cased with spaces
replaced by underscores. List items only create an entry when they carry a
path; a path ending in "/" creates a directory.

Existing files are left alone unless --overwrite is given. Commands found in
the document are listed, never executed. Every run is recorded in the
history unless history is disabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "output directory (default from config)")
	createCmd.Flags().BoolVarP(&createDryRun, "dry-run", "n", false, "show what would be created without touching anything")
	createCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "replace existing files")
	createCmd.Flags().StringVarP(&createFormat, "format", "f", "text", "report format: text, json or yaml")
	createCmd.Flags().BoolVar(&createNoHistory, "no-history", false, "do not record this run")
}

func runCreate(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	opts := materializer.Options{
		DryRun:    appConfig.Create.DryRun,
		Overwrite: appConfig.Create.Overwrite,
		DirMode:   appConfig.Create.DirMode.FileMode,
		FileMode:  appConfig.Create.FileMode.FileMode,
	}
	if cmd.Flags().Changed("dry-run") {
		opts.DryRun = createDryRun
	}
	if cmd.Flags().Changed("overwrite") {
		opts.Overwrite = createOverwrite
	}

	output := createOutput
	if output == "" {
		output = appConfig.Create.OutputDir
	}

	report, err := materializer.New(opts, logger).Materialize(cmd.Context(), doc, output)
	if err != nil {
		return err
	}
	if args[0] != "-" {
		report.Source = absPath(args[0])
	}

	if appConfig.History.Enabled && !createNoHistory {
		recordRun(cmd, report)
	}

	return writeReport(cmd.OutOrStdout(), report, createFormat)
}

// recordRun stores the report in the history; failures only warn
func recordRun(cmd *cobra.Command, report *materializer.Report) {
	store, err := history.Open(history.Config{Path: appConfig.History.Path})
	if err != nil {
		logger.WarnWithErr("History not available", err)
		return
	}
	defer store.Close()

	if err := store.Record(cmd.Context(), report); err != nil {
		logger.WarnWithErr("Failed to record run", err, fslog.String("run_id", report.RunID))
	}
}

func writeReport(w io.Writer, report *materializer.Report, format string) error {
	if format != "text" {
		return encode(w, report, format)
	}

	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "%d created, %d skipped in %s%s\n", report.Created(), report.Skipped(), report.BaseDir, mode)

	for _, e := range report.Entries {
		path := e.Path
		if e.Kind == materializer.KindDirectory {
			path += "/"
		}
		fmt.Fprintf(w, "  %-9s %-4s %s\n", e.Action, e.Kind, path)
	}

	if len(report.Commands) > 0 {
		fmt.Fprintln(w, "\nSuggested commands:")
		for _, c := range report.Commands {
			fmt.Fprintf(w, "  (cd %s && %s)\n", c.Dir, c.Command)
		}
	}
	return nil
}
