package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/forsure/parser"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a document",
	Long: `Print the tokens the lexer produces for a document, one per line
with line and column. Tokens up to a lexical error are printed before the
error is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	data, err := readSource(args[0])
	if err != nil {
		return err
	}

	tokens, err := forsure.Tokenize(string(data))
	out := cmd.OutOrStdout()
	for _, tok := range tokens {
		value := tok.Value
		if tok.Type == parser.TokenHeading {
			value = fmt.Sprintf("level %d", tok.Level)
		}
		fmt.Fprintf(out, "%4d:%-4d %-16s %q\n", tok.Line, tok.Column, tok.Type, value)
	}
	return err
}
