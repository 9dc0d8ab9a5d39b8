package catalog

import (
	"fmt"
	"strings"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

// Find returns the first runnable entry named name. An exact match wins
// over a case-insensitive one.
func (c *Catalog) Find(name string) (Leaf, error) {
	name = strings.TrimSpace(name)
	leaves := c.Leaves()

	for _, leaf := range leaves {
		if leaf.Entry.Name == name {
			return leaf, nil
		}
	}
	for _, leaf := range leaves {
		if strings.EqualFold(leaf.Entry.Name, name) {
			return leaf, nil
		}
	}
	return Leaf{}, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Selection is the result of resolving user-chosen entry names
type Selection struct {
	Entries []Leaf
	Actions []types.Action
	// Rejected names entries that cannot run as part of a multi-selection.
	Rejected []string
}

// Names returns the names of the accepted entries
func (s *Selection) Names() []string {
	names := make([]string, 0, len(s.Entries))
	for _, leaf := range s.Entries {
		names = append(names, leaf.Entry.Name)
	}
	return names
}

// Select resolves names into actions. When more than one name is given,
// entries that opted out of multi-select are rejected instead of run.
func (c *Catalog) Select(names []string) (*Selection, error) {
	sel := &Selection{}
	multiple := len(names) > 1

	for _, name := range names {
		leaf, err := c.Find(name)
		if err != nil {
			return nil, err
		}
		if multiple && !leaf.Entry.Multi() {
			sel.Rejected = append(sel.Rejected, leaf.Entry.Name)
			continue
		}

		action, err := leaf.Entry.Action()
		if err != nil {
			return nil, err
		}
		sel.Entries = append(sel.Entries, leaf)
		sel.Actions = append(sel.Actions, action)
	}
	return sel, nil
}
