package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/diag"
	"github.com/gosch-lang/gosch/internal/intern"
	"github.com/gosch-lang/gosch/internal/reader"
	"github.com/gosch-lang/gosch/internal/rewrite"
	"github.com/spf13/cobra"
)

var (
	parseDumpAST bool
	parseSymbols string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse gosch source and display its phrases",
	Long: `Parse gosch source code and print each top-level phrase.

If no file is provided, reads from stdin.
Use --dump-ast to print the rewritten (begin-flattened, letrec-lowered)
S-expression form of each phrase instead of its surface form.
Use --symbols <glob> to instead list the top-level names a define would
bind, filtered by a shell-glob pattern.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print each phrase's rewritten S-expression form")
	parseCmd.Flags().StringVar(&parseSymbols, "symbols", "", "list top-level define names matching a glob pattern")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	pool := intern.New()
	phrases, err := reader.ParseAll(input, pool)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseSymbols != "" {
		names := topLevelDefineNames(phrases)
		names = diag.SortNatural(names)
		for _, name := range names {
			if diag.MatchesGlob(name, parseSymbols) {
				fmt.Fprintln(out, name)
			}
		}
		return nil
	}

	for _, ph := range phrases {
		if parseDumpAST {
			rewritten, err := rewrite.Run(ph)
			if err != nil {
				return fmt.Errorf("rewriting phrase: %w", err)
			}
			fmt.Fprintln(out, rewritten.String())
			continue
		}
		fmt.Fprintln(out, ph.String())
	}
	return nil
}

// topLevelDefineNames collects the name bound by every top-level (define
// name ...) or (define (name params...) ...) phrase, in source order.
func topLevelDefineNames(phrases []ast.Node) []string {
	var names []string
	for _, ph := range phrases {
		if !ph.HeadIsReserved("define") || len(ph.Children) < 2 {
			continue
		}
		target := ph.Children[1]
		switch {
		case target.Kind == ast.KindAtom && target.IsIdent(""):
			names = append(names, target.Tok.Literal)
		case target.Kind == ast.KindSeq && len(target.Children) > 0:
			head := target.Children[0]
			if head.IsIdent("") {
				names = append(names, head.Tok.Literal)
			}
		}
	}
	return names
}
