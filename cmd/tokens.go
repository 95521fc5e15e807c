package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GFT-POC/Ollama-Chat/internal/parser"
	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
)

var (
	tokensFile      string
	tokensTokenizer string
	tokensModel     string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Token counting utilities",
}

var tokensCountCmd = &cobra.Command{
	Use:   "count [text...]",
	Short: "Count tokens in text, a file, or stdin",
	Example: `  ollama-chat tokens count "How long is this prompt?"
  ollama-chat tokens count --file notes.md --model nemotron-mini
  cat prompt.txt | ollama-chat tokens count --tokenizer heuristic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		counter, err := tokens.New(pick(tokensTokenizer, cfgString(func() string { return cfg.Tokenizer })))
		if err != nil {
			return fmt.Errorf("init tokenizer: %w", err)
		}

		var text string
		switch {
		case tokensFile != "":
			text, err = parser.ParseFile(tokensFile)
			if err != nil {
				return err
			}
		case len(args) > 0:
			text = strings.Join(args, " ")
		default:
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}

		n := counter.Count(text)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tokens: %s\n", humanize.Comma(int64(n)))
		if tokensModel == "" {
			return nil
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		p, err := catalog.Lookup(tokensModel)
		if err != nil {
			return err
		}
		if n > p.MaxTokens {
			fmt.Fprintf(out, "⚠ Exceeds the %s context window by %s tokens\n", p.ID, humanize.Comma(int64(n-p.MaxTokens)))
			return nil
		}
		fmt.Fprintf(out, "✓ Fits in %s with %s tokens to spare\n", p.ID, humanize.Comma(int64(p.MaxTokens-n)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensCountCmd)
	tokensCountCmd.Flags().StringVarP(&tokensFile, "file", "f", "", "read text from a file")
	tokensCountCmd.Flags().StringVar(&tokensTokenizer, "tokenizer", "", "gpt2 or heuristic (overrides config)")
	tokensCountCmd.Flags().StringVarP(&tokensModel, "model", "m", "", "also report whether the text fits this model's context window")
}
