package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Built-in commands patch over the one piece of shell state worth preserving
// across statements. Every command statement runs in its own shell
// invocation, so a real `cd` would be forgotten the moment it exits; the
// engine intercepts it and mutates its tracked working directory instead.

type builtinFunc func(e *Engine, arg string) error

var builtins = map[string]builtinFunc{
	"cd": builtinCd,
}

// runBuiltin intercepts commands of the form "<name> <arg>" found in the
// built-in table. Returns handled=false for everything else.
func (e *Engine) runBuiltin(command string) (bool, error) {
	name, arg, found := strings.Cut(command, " ")
	if !found {
		return false, nil
	}
	fn, ok := builtins[name]
	if !ok {
		return false, nil
	}
	return true, fn(e, strings.TrimSpace(arg))
}

func builtinCd(e *Engine, arg string) error {
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd: not a directory: %s", arg)
	}
	e.dir = path
	return nil
}
