package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gosch-lang/gosch/internal/value"
	"github.com/gosch-lang/gosch/pkg/gosch"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a gosch file or expression",
	Long: `Execute a gosch program from a file or inline expression, printing the
value of the last top-level phrase.

Examples:
  gosch run script.scm
  gosch run -e "(+ 1 2 3)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, path, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	engine, err := gosch.NewWithPrelude(out)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	var results []value.Value
	var runErr error
	if path != "" {
		results, runErr = engine.RunWithPath(input, path)
	} else {
		results, runErr = engine.Run(input)
	}
	if runErr != nil {
		if ge, ok := runErr.(*gosch.Error); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", ge.Kind, ge.Message)
			return fmt.Errorf("run failed")
		}
		return runErr
	}
	if len(results) > 0 {
		fmt.Fprintln(out, results[len(results)-1].String())
	}
	return nil
}

func readInput(evalExpr string, args []string) (input string, path string, err error) {
	if evalExpr != "" {
		return evalExpr, "", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "", nil
}
