package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

const systemTab = `
name = "System Setup"

[[data]]
name = "Arch Linux"

[[data.entries]]
name = "Paru AUR Helper"
description = "Installs the paru AUR helper"
script = "arch/paru-setup.sh"

[[data]]
name = "Full System Update"
command = "echo updating"
multi_select = false

[[data]]
name = "Fastfetch"
command = "echo fastfetch"
`

const appsTab = `
name: Applications
data:
  - name: Terminal Emulators
    entries:
      - name: Alacritty
        description: GPU terminal
        command: echo alacritty
      - name: Broken
        script: missing.sh
`

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func newCatalogDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "system", "tab_data.toml"), systemTab, 0o644)
	writeFile(t, filepath.Join(root, "system", "arch", "paru-setup.sh"), "#!/bin/sh -e\necho paru\n", 0o755)
	writeFile(t, filepath.Join(root, "applications", "tab_data.yaml"), appsTab, 0o644)
	writeFile(t, filepath.Join(root, "applications", "README.md"), "# docs\n", 0o644)
	return root
}

func TestDiscover(t *testing.T) {
	root := newCatalogDir(t)

	files, err := Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "applications", "tab_data.yaml"),
		filepath.Join(root, "system", "tab_data.toml"),
	}, files)
}

func TestDiscoverCancelled(t *testing.T) {
	root := newCatalogDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadTOML(t *testing.T) {
	root := newCatalogDir(t)

	tab, err := Load(filepath.Join(root, "system", "tab_data.toml"))
	require.NoError(t, err)

	assert.Equal(t, "System Setup", tab.Name)
	require.Len(t, tab.Entries, 3)

	arch := tab.Entries[0]
	assert.True(t, arch.IsFolder())
	require.Len(t, arch.Entries, 1)
	assert.Equal(t, filepath.Join(root, "system", "arch", "paru-setup.sh"), arch.Entries[0].ScriptPath)

	update := tab.Entries[1]
	assert.False(t, update.Multi())
	assert.True(t, tab.Entries[2].Multi())
}

func TestLoadYAML(t *testing.T) {
	root := newCatalogDir(t)

	tab, err := Load(filepath.Join(root, "applications", "tab_data.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Applications", tab.Name)
	require.Len(t, tab.Entries, 1)
	require.Len(t, tab.Entries[0].Entries, 2)
	assert.Equal(t, "echo alacritty", tab.Entries[0].Entries[0].Command)
}

func TestLoadUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tab_data.json")
	writeFile(t, path, "{}", 0o644)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDirValidates(t *testing.T) {
	root := newCatalogDir(t)

	cat, err := LoadDir(context.Background(), root, LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScript)
	require.NotNil(t, cat)

	names := leafNames(cat)
	assert.ElementsMatch(t, []string{"Alacritty", "Paru AUR Helper", "Full System Update", "Fastfetch"}, names)
}

func TestLoadDirSkipValidation(t *testing.T) {
	root := newCatalogDir(t)

	cat, err := LoadDir(context.Background(), root, LoadOptions{SkipValidation: true})
	require.NoError(t, err)
	assert.Contains(t, leafNames(cat), "Broken")
}

func TestValidateScriptRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.sh")
	writeFile(t, path, "\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00", 0o755)

	assert.ErrorIs(t, ValidateScript(path), ErrInvalidScript)
}

func TestParseShebang(t *testing.T) {
	tests := []struct {
		input   string
		program string
		args    []string
		err     error
	}{
		{"#!/bin/sh\necho hi\n", "/bin/sh", []string{}, nil},
		{"#!/bin/sh -e\n", "/bin/sh", []string{"-e"}, nil},
		{"#! /usr/bin/env bash\n", "/usr/bin/env", []string{"bash"}, nil},
		{"#!/bin/bash", "/bin/bash", []string{}, nil},
		{"echo no shebang\n", "", nil, ErrNoShebang},
		{"#!\n", "", nil, ErrNoShebang},
		{"", "", nil, ErrNoShebang},
	}

	for _, tt := range tests {
		program, args, err := ParseShebang(strings.NewReader(tt.input))
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.program, program)
		assert.Equal(t, tt.args, args)
	}
}

func TestParseShebangReadsOneBoundedLine(t *testing.T) {
	long := strings.NewReader("#!/bin/sh " + strings.Repeat("a", 1<<20))
	_, _, err := ParseShebang(long)
	assert.ErrorIs(t, err, ErrInvalidScript)
	assert.GreaterOrEqual(t, long.Len(), 1<<20-maxShebangLen, "reads no further than the #! limit")

	_, _, err = ParseShebang(strings.NewReader(strings.Repeat("b", 1<<20)))
	assert.ErrorIs(t, err, ErrNoShebang)

	program, args, err := ParseShebang(strings.NewReader("#!/bin/sh -eu\n" + strings.Repeat("c", 1<<20)))
	require.NoError(t, err)
	assert.Equal(t, "/bin/sh", program)
	assert.Equal(t, []string{"-eu"}, args)
}

func TestSelect(t *testing.T) {
	root := newCatalogDir(t)
	cat, err := LoadDir(context.Background(), root, LoadOptions{SkipValidation: true})
	require.NoError(t, err)

	t.Run("single entry ignores multi-select", func(t *testing.T) {
		sel, err := cat.Select([]string{"Full System Update"})
		require.NoError(t, err)
		assert.Empty(t, sel.Rejected)
		assert.Equal(t, []types.Action{types.RawShellLine("echo updating")}, sel.Actions)
	})

	t.Run("multiple rejects single-only entries", func(t *testing.T) {
		sel, err := cat.Select([]string{"Fastfetch", "Full System Update", "alacritty"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Full System Update"}, sel.Rejected)
		assert.Equal(t, []string{"Fastfetch", "Alacritty"}, sel.Names())
		assert.Len(t, sel.Actions, 2)
	})

	t.Run("script entry becomes local executable", func(t *testing.T) {
		sel, err := cat.Select([]string{"Paru AUR Helper"})
		require.NoError(t, err)
		require.Len(t, sel.Actions, 1)

		script := filepath.Join(root, "system", "arch", "paru-setup.sh")
		action := sel.Actions[0]
		assert.Equal(t, types.ActionLocal, action.Kind)
		assert.Equal(t, "/bin/sh", action.Program)
		assert.Equal(t, []string{"-e", script}, action.Args)
		assert.Equal(t, script, action.SourceFile)
		assert.Equal(t, "System Setup / Arch Linux", sel.Entries[0].Location())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := cat.Select([]string{"Nope"})
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := cat.Select([]string{"Broken"})
		assert.ErrorIs(t, err, ErrInvalidScript)
	})
}

func TestLoadUserConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadUserConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.AutoExecute)
	assert.False(t, cfg.SkipConfirmation)

	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "auto_execute = [\"Fastfetch\"]\nskip_confirmation = true\n", 0o644)

	cfg, err = LoadUserConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fastfetch"}, cfg.AutoExecute)
	assert.True(t, cfg.SkipConfirmation)

	writeFile(t, path, "auto_execute = [", 0o644)
	_, err = LoadUserConfig(path)
	assert.Error(t, err)
}

func leafNames(cat *Catalog) []string {
	var names []string
	for _, leaf := range cat.Leaves() {
		names = append(names, leaf.Entry.Name)
	}
	return names
}
