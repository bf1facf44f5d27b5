package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gosch",
	Short: "gosch is a small Scheme-like interpreter",
	Long: `gosch embeds a tree-walking, proper-tail-call Scheme-like evaluator
with syntax-rules macros, structs, and a bundled prelude.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Main runs the gosch command and returns a process exit code. It is the
// entry point the testscript-driven CLI tests register under the "gosch"
// binary name; cmd/gosch/main.go calls Execute directly.
func Main() int {
	if err := Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
