package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/utils/filex"
)

var (
	fmtWrite bool
	fmtCheck bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a document in canonical form",
	Long: `Parse a document and print it in canonical form: projects as
headings, directories and files as tag blocks, content in code fences.
Parsing the output yields the same tree.

With --write the file is replaced in place; with --check nothing is
printed and the command fails when the file is not in canonical form.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the file")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "fail if the file is not formatted")
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	if fmtWrite && path == "-" {
		return fserr.New("--write needs a file, not standard input").
			WithCode(fserr.CodeInvalidInput)
	}

	data, err := readSource(path)
	if err != nil {
		return err
	}

	opts := parserOptions(path)
	if path == "-" {
		opts.Source = "<stdin>"
	}
	doc, err := forsure.ParseWithOptions(string(data), opts)
	if err != nil {
		return err
	}
	formatted := forsure.Format(doc)

	switch {
	case fmtCheck:
		if formatted != string(data) {
			return fserr.Newf("%s is not formatted", path).
				WithCode(fserr.CodeInvalidInput)
		}
		return nil

	case fmtWrite:
		if formatted == string(data) {
			return nil
		}
		if err := filex.WriteString(path, formatted, appConfig.Create.FileMode.FileMode); err != nil {
			return fserr.Wrap(err, "failed to write document").
				WithCode(fserr.CodeIOError).
				WithDetail("path", path)
		}
		logger.Info("Document formatted", fslog.Fields{"path": path})
		return nil

	default:
		_, err := fmt.Fprint(cmd.OutOrStdout(), formatted)
		return err
	}
}
