package terminal

import (
	"strings"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

// ComposeScript concatenates actions into one newline-terminated shell script.
//
// Local executables are preceded by a cd into the directory of their source
// file; raw lines are copied verbatim; no-ops contribute nothing. Paths are
// not cleaned or quoted, so the shell reports anything malformed.
func ComposeScript(actions []types.Action) string {
	var script strings.Builder

	for _, action := range actions {
		switch action.Kind {
		case types.ActionRaw:
			script.WriteString(action.Text)
			script.WriteByte('\n')

		case types.ActionLocal:
			if dir, ok := parentDir(action.SourceFile); ok {
				script.WriteString("cd ")
				script.WriteString(dir)
				script.WriteByte('\n')
			}
			script.WriteString(action.CommandLine())
			script.WriteByte('\n')
		}
	}

	return script.String()
}

// parentDir returns the directory part of path without normalising it.
// Paths without a directory component have no parent.
func parentDir(path string) (string, bool) {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "", false
	}

	idx := strings.LastIndexByte(trimmed, '/')
	if idx < 0 {
		return "", false
	}

	dir := strings.TrimRight(trimmed[:idx], "/")
	if dir == "" {
		return "/", true
	}
	return dir, true
}
