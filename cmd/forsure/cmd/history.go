package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/foundation/utils/timex"
	"github.com/msto63/forsure/internal/history"
)

var (
	historyLimit     int
	historyFormat    string
	historyOlderThan string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded create runs",
	Long: `List the runs recorded by "forsure create", newest first.

Subcommands show the entries of a single run or remove old runs. Run IDs
may be abbreviated to any unique prefix.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the entries of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, json or yaml")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs (0 for all)")
	historyPruneCmd.Flags().StringVar(&historyOlderThan, "older-than", "30d", `remove runs started before this age ("12h", "30d", "2w")`)
}

func openHistory() (*history.Store, error) {
	if !appConfig.History.Enabled {
		return nil, fserr.New("history is disabled in the configuration").
			WithCode(fserr.CodeConfigError)
	}
	return history.Open(history.Config{Path: appConfig.History.Path})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyFormat != "text" {
		return encode(out, runs, historyFormat)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := ""
		if run.DryRun {
			mode = "dry run"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			timex.Ago(run.StartedAt, now),
			strconv.Itoa(run.Created),
			strconv.Itoa(run.Skipped),
			mode,
			run.OutputDir,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "STARTED", "AGE", "CREATED", "SKIPPED", "MODE", "OUTPUT").
		Rows(rows...)
	fmt.Fprintln(out, t.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyFormat != "text" {
		return encode(out, run, historyFormat)
	}

	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Duration: %s\n", timex.FormatDurationCompact(run.FinishedAt.Sub(run.StartedAt)))
	}
	if run.Source != "" {
		fmt.Fprintf(out, "Source:   %s\n", run.Source)
	}
	fmt.Fprintf(out, "Output:   %s\n", run.OutputDir)
	fmt.Fprintf(out, "Dry run:  %t\n", run.DryRun)
	fmt.Fprintf(out, "Result:   %d created, %d skipped\n\n", run.Created, run.Skipped)

	for _, e := range run.Entries {
		fmt.Fprintf(out, "  %-9s %-4s %s\n", e.Action, e.Kind, e.Path)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	age, err := timex.ParseDuration(historyOlderThan)
	if err != nil {
		return fserr.Wrap(err, "invalid --older-than").WithCode(fserr.CodeInvalidInput)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(cmd.Context(), age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs older than %s.\n", removed, timex.FormatDurationCompact(age))
	return nil
}

// encode writes v as JSON or YAML
func encode(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json":
		return writeJSON(w, v)
	case "yaml":
		return yaml.NewEncoder(w).Encode(v)
	default:
		return fserr.Newf("unknown format %q (want text, json or yaml)", format).
			WithCode(fserr.CodeInvalidInput)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
