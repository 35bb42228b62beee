package cmd

import (
	"io"

	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/tui/render"
)

var (
	parseFormat  string
	parseDetails bool
	parseNoColor bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a document and print its tree",
	Long: `Parse a ForSure document and print the resulting project tree.

Formats:
  tree      styled tree (default)
  outline   indented "Type: name" lines
  json      the full tree as JSON
  yaml      the full tree as YAML

Use "-" as file to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "tree", "output format: tree, outline, json or yaml")
	parseCmd.Flags().BoolVarP(&parseDetails, "details", "d", false, "show descriptions and commands in the tree")
	parseCmd.Flags().BoolVar(&parseNoColor, "no-color", false, "disable colors")
}

func runParse(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	return writeDocument(cmd.OutOrStdout(), doc, parseFormat)
}

// writeDocument prints doc in one of the parse output formats
func writeDocument(w io.Writer, doc *tree.Document, format string) error {
	switch format {
	case "tree":
		return render.Write(w, doc, render.Options{
			Color:          colorOutput(w, parseNoColor),
			Details:        parseDetails,
			MaxDetailWidth: 60,
		})

	case "outline":
		return tree.Print(w, doc)

	case "json", "yaml":
		var data []byte
		var err error
		if format == "json" {
			data, err = tree.ToJSON(doc)
		} else {
			data, err = tree.ToYAML(doc)
		}
		if err != nil {
			return fserr.Wrap(err, "failed to encode document").
				WithCode(fserr.CodeInternal)
		}
		_, err = w.Write(data)
		return err

	default:
		return fserr.Newf("unknown format %q (want tree, outline, json or yaml)", format).
			WithCode(fserr.CodeInvalidInput)
	}
}
