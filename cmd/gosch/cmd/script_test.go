package cmd

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestScript runs every testdata/script/*.txtar fixture against the gosch
// binary registered in TestMain, exercising the CLI the way a user would
// invoke it from a shell.
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gosch": Main,
	}))
}
