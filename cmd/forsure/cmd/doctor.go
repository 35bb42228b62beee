package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/internal/history"
	"github.com/msto63/forsure/internal/tui"
	"github.com/msto63/forsure/pkg/core/health"
	"github.com/msto63/forsure/pkg/core/version"
)

const selfTestDocument = `# doctor

## Source <path="src">
<file name="main.go">
<description>entry point</description>
</file>
- build <command="go build ./...">
`

var (
	doctorFormat  string
	doctorTimeout time.Duration
	doctorNoColor bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and environment",
	Long: `Check that the configuration is valid, the parser works, the history
database can be opened, the default output directory is writable and file
watching is available. Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "text", "output format: text, json or yaml")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 10*time.Second, "time limit for all checks")
	doctorCmd.Flags().BoolVar(&doctorNoColor, "no-color", false, "disable colored output")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	registry := health.NewRegistry(version.Version)
	registry.RegisterFunc("config", checkConfig)
	registry.RegisterFunc("parser", checkParser)
	registry.RegisterFunc("history", checkHistory)
	registry.Register(health.WritableDir("output", appConfig.Create.OutputDir))
	registry.RegisterFunc("watch", checkWatch)

	report := registry.CheckWithTimeout(cmd.Context(), doctorTimeout)
	logger.Debug("Doctor finished",
		fslog.String("status", string(report.Status)),
		fslog.Int("checks", len(report.Checks)))

	out := cmd.OutOrStdout()
	if doctorFormat != "text" {
		if err := encode(out, report, doctorFormat); err != nil {
			return err
		}
	} else {
		writeHealthReport(out, report, colorOutput(out, doctorNoColor))
	}

	if !report.Healthy() {
		return fserr.New("one or more checks failed").WithOperation("doctor")
	}
	return nil
}

func writeHealthReport(w io.Writer, report *health.Report, color bool) {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	styles := map[health.Status]lipgloss.Style{
		health.StatusHealthy:   r.NewStyle().Foreground(tui.ColorSecondary),
		health.StatusDegraded:  r.NewStyle().Foreground(tui.ColorAccent),
		health.StatusUnknown:   r.NewStyle().Foreground(tui.ColorAccent),
		health.StatusUnhealthy: r.NewStyle().Foreground(tui.ColorError).Bold(true),
	}
	marks := map[health.Status]string{
		health.StatusHealthy:   "ok",
		health.StatusDegraded:  "warn",
		health.StatusUnknown:   "??",
		health.StatusUnhealthy: "FAIL",
	}

	for _, c := range report.Checks {
		label := marks[c.Status]
		mark := styles[c.Status].Render(label) + strings.Repeat(" ", 4-len(label))
		fmt.Fprintf(w, "[%s] %-8s %s\n", mark, c.Name, c.Message)
	}
	fmt.Fprintf(w, "\n%s\n", report.String())
}

func checkConfig(ctx context.Context) health.CheckResult {
	result := health.CheckResult{Details: map[string]interface{}{}}
	if err := appConfig.Validate(); err != nil {
		result.Status = health.StatusUnhealthy
		result.Message = err.Error()
		return result
	}

	result.Status = health.StatusHealthy
	if cfgPath == "" {
		result.Message = "no config file, using defaults"
		return result
	}
	result.Details["path"] = cfgPath
	result.Message = "loaded " + cfgPath
	return result
}

func checkParser(ctx context.Context) health.CheckResult {
	doc, err := forsure.ParseWithOptions(selfTestDocument, parserOptions("<doctor>"))
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	if n := doc.Len(); n != 4 {
		return health.CheckResult{
			Status:  health.StatusUnhealthy,
			Message: fmt.Sprintf("self-test document produced %d items, want 4", n),
		}
	}
	return health.CheckResult{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("markup %s", forsure.Version),
	}
}

func checkHistory(ctx context.Context) health.CheckResult {
	if !appConfig.History.Enabled {
		return health.CheckResult{Status: health.StatusHealthy, Message: "disabled"}
	}

	store, err := history.Open(history.Config{Path: appConfig.History.Path})
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	defer store.Close()

	runs, err := store.List(ctx, 0)
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	return health.CheckResult{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d runs in %s", len(runs), appConfig.History.Path),
		Details: map[string]interface{}{"path": appConfig.History.Path, "runs": len(runs)},
	}
}

func checkWatch(ctx context.Context) health.CheckResult {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return health.CheckResult{
			Status:  health.StatusDegraded,
			Message: "file watching unavailable: " + err.Error(),
		}
	}
	w.Close()
	return health.CheckResult{Status: health.StatusHealthy, Message: "available"}
}
