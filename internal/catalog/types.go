package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrEntryNotFound is returned when a name matches no runnable entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidScript is returned for script files that are missing or not text.
	ErrInvalidScript = errors.New("invalid script")
	// ErrNoShebang is returned for scripts without a #! line.
	ErrNoShebang = errors.New("script has no shebang")
	// ErrUnsupportedFormat is returned for tab files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported tab file format")
)

// Entry is a catalog node: a folder when it has Entries, otherwise a
// runnable command or script.
type Entry struct {
	Name        string  `toml:"name" yaml:"name" json:"name"`
	Description string  `toml:"description" yaml:"description" json:"description,omitempty"`
	Command     string  `toml:"command" yaml:"command" json:"command,omitempty"`
	Script      string  `toml:"script" yaml:"script" json:"script,omitempty"`
	MultiSelect *bool   `toml:"multi_select" yaml:"multi_select" json:"multi_select,omitempty"`
	Entries     []Entry `toml:"entries" yaml:"entries" json:"entries,omitempty"`

	// ScriptPath is Script resolved against the tab directory.
	ScriptPath string `toml:"-" yaml:"-" json:"script_path,omitempty"`
}

// IsFolder reports whether the entry only groups other entries
func (e *Entry) IsFolder() bool {
	return len(e.Entries) > 0
}

// Multi reports whether the entry may run together with others.
// Entries allow it unless they opt out.
func (e *Entry) Multi() bool {
	return e.MultiSelect == nil || *e.MultiSelect
}

// Tab is one top-level group of entries, loaded from a tab file
type Tab struct {
	Name    string  `toml:"name" yaml:"name" json:"name"`
	Entries []Entry `toml:"data" yaml:"data" json:"entries"`

	// Path is the tab file the tab was loaded from.
	Path string `toml:"-" yaml:"-" json:"path"`
}

// Leaf is a runnable entry together with where it sits in the catalog
type Leaf struct {
	Tab    string
	Folder []string
	Entry  *Entry
}

// Location renders the tab and folder path, e.g. "System Setup / Arch Linux".
func (l Leaf) Location() string {
	return strings.Join(append([]string{l.Tab}, l.Folder...), " / ")
}

// Catalog holds every loaded tab
type Catalog struct {
	Tabs []*Tab
}

// Leaves returns all runnable entries in tab order, depth first
func (c *Catalog) Leaves() []Leaf {
	var leaves []Leaf
	for _, tab := range c.Tabs {
		leaves = collectLeaves(leaves, tab.Name, nil, tab.Entries)
	}
	return leaves
}

func collectLeaves(leaves []Leaf, tab string, folder []string, entries []Entry) []Leaf {
	for i := range entries {
		e := &entries[i]
		if e.IsFolder() {
			leaves = collectLeaves(leaves, tab, append(append([]string(nil), folder...), e.Name), e.Entries)
			continue
		}
		leaves = append(leaves, Leaf{Tab: tab, Folder: folder, Entry: e})
	}
	return leaves
}
