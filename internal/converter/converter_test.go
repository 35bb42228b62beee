package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/forsure/parser"
	"github.com/msto63/forsure/foundation/forsure/tree"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func names(doc *tree.Document) []string {
	var out []string
	_ = doc.Walk(func(item, _ *tree.ProjectItem, depth int) error {
		out = append(out, item.Type.String()+":"+item.Name)
		return nil
	})
	return out
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = fslog.Discard()
	return opts
}

func TestConvert(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	writeTree(t, root, map[string]string{
		"go.mod":             "module demo\n",
		"cmd/main.go":        "package main\n",
		"My Docs/readme.txt": "hello\n",
		".git/HEAD":          "ref: refs/heads/main\n",
		"node_modules/x.js":  "x\n",
	})

	doc, err := Convert(root, testOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Project:demo",
		"Directory:My Docs",
		"File:readme.txt",
		"Directory:cmd",
		"File:main.go",
		"File:go.mod",
	}, names(doc))

	docs := doc.Find("My Docs")
	require.NotNil(t, docs)
	assert.Equal(t, "My Docs", docs.Path)
	assert.Empty(t, doc.Find("cmd").Path)
	assert.Empty(t, doc.Find("go.mod").Content)
}

func TestConvert_RoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "app")
	writeTree(t, root, map[string]string{
		"src/lib/util.go": "package lib\n",
		"src/main.go":     "package main\n\nfunc main() {}\n",
		"README.md":       "# App\n",
	})

	opts := testOptions()
	opts.IncludeContent = true
	doc, err := Convert(root, opts)
	require.NoError(t, err)

	reparsed, err := forsure.ParseWithOptions(forsure.Format(doc), parser.Options{Logger: fslog.Discard()})
	require.NoError(t, err)

	assert.Equal(t, names(doc), names(reparsed))
	assert.Equal(t, "package main\n\nfunc main() {}", reparsed.Find("main.go").Content)
	assert.Equal(t, "# App", reparsed.Find("README.md").Content)
}

func TestConvert_ContentFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.txt":    string(make([]byte, 100)),
		"binary.bin": "a\x00b",
		"fenced.md":  "```go\nx\n```\n",
		"small.txt":  "ok\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte("0123456789abcdef0123"), 0o644))

	opts := testOptions()
	opts.IncludeContent = true
	opts.MaxFileSize = 16
	doc, err := Convert(root, opts)
	require.NoError(t, err)

	assert.Empty(t, doc.Find("big.txt").Content)
	assert.Empty(t, doc.Find("binary.bin").Content)
	assert.Empty(t, doc.Find("fenced.md").Content)
	assert.Equal(t, "ok", doc.Find("small.txt").Content)
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "missing"), testOptions())
	assert.True(t, fserr.HasCode(err, fserr.CodeNotFound), "error = %v", err)

	opts := testOptions()
	opts.Ignore = []string{"["}
	_, err = Convert(t.TempDir(), opts)
	assert.True(t, fserr.HasCode(err, fserr.CodeInvalidInput), "error = %v", err)
}
