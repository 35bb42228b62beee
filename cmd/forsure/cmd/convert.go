package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/utils/filex"
	"github.com/msto63/forsure/internal/converter"
)

var (
	convertIgnore  []string
	convertContent bool
	convertOutput  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <dir>",
	Short: "Write a document describing an existing directory",
	Long: `Walk a directory and print a ForSure document describing it. The
result can be fed back to "forsure create" to reproduce the structure.

Entries matching an ignore pattern (shell glob on the entry name) are
skipped. With --content the text of small files is included.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringSliceVarP(&convertIgnore, "ignore", "i", nil, "additional ignore patterns")
	convertCmd.Flags().BoolVarP(&convertContent, "content", "c", false, "include the content of small text files")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the document to a file instead of stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := converter.Options{
		Ignore:         append(append([]string{}, appConfig.Convert.Ignore...), convertIgnore...),
		IncludeContent: appConfig.Convert.IncludeContent || convertContent,
		MaxFileSize:    appConfig.Convert.MaxFileSize,
		Logger:         logger,
	}

	doc, err := converter.Convert(args[0], opts)
	if err != nil {
		return err
	}
	text := forsure.Format(doc)

	if convertOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	if err := filex.WriteString(convertOutput, text, appConfig.Create.FileMode.FileMode); err != nil {
		return fserr.Wrap(err, "failed to write document").
			WithCode(fserr.CodeIOError).
			WithDetail("path", convertOutput)
	}
	logger.Info("Document written", fslog.Fields{"path": convertOutput, "items": doc.Len()})
	return nil
}
