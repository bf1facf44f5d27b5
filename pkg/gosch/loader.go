package gosch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosch-lang/gosch/internal/reader"
	"github.com/gosch-lang/gosch/internal/rewrite"
	"github.com/gosch-lang/gosch/internal/runtime"
)

// fileLoader implements eval.Loader for `require`: a path is resolved
// relative to the directory of the currently-running file (or the working
// directory, for source run without a path), read, parsed, rewritten, and
// evaluated into a fresh frame enclosed by the engine root — its bindings
// become the module's exports.
type fileLoader struct {
	engine *Engine
}

func (l *fileLoader) Load(path string) (*runtime.Frame, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.engine.baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("require: reading %s: %w", path, err)
	}
	modFrame := runtime.NewEnclosedOwned(l.engine.root)

	phrases, err := reader.ParseAll(string(data), l.engine.pool)
	if err != nil {
		return nil, fmt.Errorf("require: parsing %s: %w", path, err)
	}
	for _, ph := range phrases {
		rewritten, err := rewrite.Run(ph)
		if err != nil {
			return nil, fmt.Errorf("require: rewriting %s: %w", path, err)
		}
		if _, _, err := l.engine.evaluator.EvalTop(rewritten, modFrame); err != nil {
			return nil, fmt.Errorf("require: evaluating %s: %w", path, err)
		}
	}
	return modFrame, nil
}

func dirOf(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Dir(path)
}
