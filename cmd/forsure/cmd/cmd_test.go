package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/pkg/core/version"
)

const demoDocument = `# demo
Example project.

## Source <path="src">
<file name="main.go">
<description>entry point</description>
<content_pattern>package main</content_pattern>
</file>
- build <command="go build ./...">
`

// testEnv holds a config file and a scratch directory for one test
type testEnv struct {
	dir    string
	config string
}

func newEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "forsure.toml")
	content := fmt.Sprintf(`[general]
log_level = "error"
log_format = "text"

[create]
output_dir = %q

[history]
enabled = true
path = %q
`, dir, filepath.Join(dir, "history.db"))
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))
	return testEnv{dir: dir, config: config}
}

func (e testEnv) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with args and returns its standard output
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestParse_Outline(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)

	out, err := env.run(t, "parse", doc, "--format", "outline")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"Project: demo",
		"  Directory: Source (path: src)",
		"    File: main.go",
		"    ListItem: build (command: go build ./...)",
		"",
	}, "\n"), out)
}

func TestParse_Tree(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)

	out, err := env.run(t, "parse", doc, "--details")
	require.NoError(t, err)

	assert.Contains(t, out, "└── Source/ (src)")
	assert.Contains(t, out, "main.go - entry point")
	assert.NotContains(t, out, "\x1b[")
}

func TestParse_JSON(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)

	out, err := env.run(t, "parse", doc, "-f", "json")
	require.NoError(t, err)

	var decoded struct {
		Items []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "demo", decoded.Items[0].Name)
	assert.Equal(t, "Example project.", decoded.Items[0].Content)
}

func TestParse_Errors(t *testing.T) {
	env := newEnv(t)

	bad := env.file(t, "bad.fs", "# demo\n</file>\n")
	_, err := env.run(t, "parse", bad)
	require.Error(t, err)
	assert.True(t, fserr.HasCode(err, fserr.CodeForSureStructure), "error = %v", err)
	assert.Equal(t, 2, exitCode(err))

	_, err = env.run(t, "parse", filepath.Join(env.dir, "missing.fs"))
	assert.True(t, fserr.HasCode(err, fserr.CodeNotFound), "error = %v", err)

	good := env.file(t, "good.fs", demoDocument)
	_, err = env.run(t, "parse", good, "--format", "xml")
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidInput), "error = %v", err)
	assert.Equal(t, 1, exitCode(err))
}

func TestTokens(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", "# demo\n- item\n")

	out, err := env.run(t, "tokens", doc)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "HEADING")
	assert.Contains(t, lines[0], `"level 1"`)
	assert.Contains(t, out, "LIST_ITEM_MARKER")
	assert.Contains(t, lines[len(lines)-1], "EOF")
}

func TestCreateAndHistory(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)
	output := filepath.Join(env.dir, "out")

	out, err := env.run(t, "create", doc, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "2 created, 0 skipped")
	assert.Contains(t, out, "(cd src && go build ./...)")

	data, err := os.ReadFile(filepath.Join(output, "src", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))

	// second run skips the existing file
	out, err = env.run(t, "create", doc, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 2 skipped")

	out, err = env.run(t, "history", "-f", "json")
	require.NoError(t, err)
	var runs []struct {
		ID      string `json:"id"`
		Created int    `json:"created"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)

	out, err = env.run(t, "history", "show", runs[1].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Result:   2 created, 0 skipped")
	assert.Contains(t, out, "src/main.go")

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID[:8])

	out, err = env.run(t, "history", "prune", "--older-than", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 runs")
}

func TestCreate_DryRun(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)
	output := filepath.Join(env.dir, "out")

	out, err := env.run(t, "create", doc, "-o", output, "--dry-run", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.NoDirExists(t, output)

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestConvert(t *testing.T) {
	env := newEnv(t)
	env.file(t, "project/cmd/main.go", "package main\n")
	env.file(t, "project/go.mod", "module project\n")
	env.file(t, "project/.git/HEAD", "ref\n")

	out, err := env.run(t, "convert", filepath.Join(env.dir, "project"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# project\n"), out)
	assert.NotContains(t, out, ".git")

	doc, err := forsure.Parse(out)
	require.NoError(t, err)
	assert.NotNil(t, doc.Find("main.go"))
	assert.NotNil(t, doc.Find("go.mod"))
}

func TestFmt(t *testing.T) {
	env := newEnv(t)
	doc := env.file(t, "demo.fs", demoDocument)

	formatted, err := env.run(t, "fmt", doc)
	require.NoError(t, err)

	_, err = env.run(t, "fmt", "--check", doc)
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidInput), "error = %v", err)

	_, err = env.run(t, "fmt", "-w", doc)
	require.NoError(t, err)
	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(data))

	_, err = env.run(t, "fmt", "--check", doc)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	env := newEnv(t)

	out, err := env.run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "forsure v"+version.Version)
}

func TestInvalidConfig(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, os.WriteFile(env.config, []byte("[general]\nlog_level = \"loud\"\n"), 0o644))

	_, err := env.run(t, "version")
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidConfig), "error = %v", err)
	assert.Equal(t, 4, exitCode(err))
}

func TestDoctor(t *testing.T) {
	env := newEnv(t)

	out, err := env.run(t, "doctor", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "[ok  ] config   loaded "+env.config)
	assert.Contains(t, out, "[ok  ] parser")
	assert.Contains(t, out, "[ok  ] history  0 runs")
	assert.Contains(t, out, "[ok  ] output   writable")

	out, err = env.run(t, "doctor", "-f", "json")
	require.NoError(t, err)
	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEqual(t, "unhealthy", report.Status)
	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"config", "parser", "history", "output", "watch"}, names)
}

func TestDoctor_Failure(t *testing.T) {
	env := newEnv(t)
	blocker := env.file(t, "not-a-dir", "x")
	require.NoError(t, os.WriteFile(env.config, []byte(fmt.Sprintf(
		"[general]\nlog_level = \"error\"\n\n[create]\noutput_dir = %q\n\n[history]\nenabled = false\n", blocker)), 0o644))

	out, err := env.run(t, "doctor", "--no-color")
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL] output")
	assert.Equal(t, 1, exitCode(err))
}
