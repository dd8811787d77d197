package cmd

import (
	"fmt"
	"os"

	"idlc/pkg/lexer"

	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Print the raw token stream produced by the lexer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		tokens, err := lexer.Tokenize(content, 1)
		if err != nil {
			return fmt.Errorf("failed to tokenize file %s: %w", filename, err)
		}

		for _, tok := range tokens {
			fmt.Printf("%4d  %-14s %q\n", tok.Line, tok.Type, tok.Value)
		}
		fmt.Printf("\n%d tokens\n", len(tokens))
		return nil
	},
}
