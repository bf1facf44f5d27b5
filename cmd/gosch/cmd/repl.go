package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/gosch-lang/gosch/pkg/gosch"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive gosch read-eval-print loop",
	Long: `Start an interactive session: read a phrase from stdin, evaluate it
against a persistent engine, and print its value, looping until EOF (Ctrl-D)
or "(exit)".

A phrase spanning multiple lines (an unbalanced open paren) is accumulated
across prompts before being evaluated. An error aborts only the phrase that
raised it — the session and all prior bindings survive.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	in := cmd.InOrStdin()

	engine, err := gosch.NewWithPrelude(out)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	defer engine.Drop()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending string
	depth := 0
	for {
		if depth == 0 {
			fmt.Fprint(out, "gosch> ")
		} else {
			fmt.Fprint(out, "  ... ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		}
		line := scanner.Text()
		depth += parenDelta(line)
		if pending == "" {
			pending = line
		} else {
			pending = pending + "\n" + line
		}
		if depth > 0 {
			continue
		}
		if depth < 0 {
			fmt.Fprintln(errOut, "unbalanced close paren, discarding phrase")
			pending, depth = "", 0
			continue
		}

		phrase := pending
		pending = ""
		if phrase == "" {
			continue
		}
		if strings.TrimSpace(phrase) == "(exit)" {
			return nil
		}

		results, runErr := engine.Run(phrase)
		if runErr != nil {
			if ge, ok := runErr.(*gosch.Error); ok {
				fmt.Fprintf(errOut, "%s: %s\n", ge.Kind, ge.Message)
			} else {
				fmt.Fprintln(errOut, runErr)
			}
			continue
		}
		if len(results) > 0 {
			fmt.Fprintln(out, results[len(results)-1].String())
		}
	}
}

// parenDelta counts net paren depth change in line, ignoring characters
// inside string literals and text following an unquoted ';' comment marker.
func parenDelta(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString:
			if c == '\\' {
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == ';':
			return delta
		case c == '(':
			delta++
		case c == ')':
			delta--
		}
	}
	return delta
}
