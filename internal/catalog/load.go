package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/Boo15mario/linutil-gui/internal/logging"
)

// TabFilePattern matches tab files relative to the catalog root
const TabFilePattern = "**/tab_data.{toml,yaml,yml}"

// LoadOptions configures LoadDir
type LoadOptions struct {
	// SkipValidation loads script entries without checking their files.
	SkipValidation bool
	Logger         *logging.Logger
}

// Load reads one tab file. Script paths are resolved against the file's
// directory.
func Load(path string) (*Tab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tab file: %w", err)
	}

	var tab Tab
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &tab)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tab)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if tab.Name == "" {
		tab.Name = filepath.Base(filepath.Dir(path))
	}
	tab.Path = path
	resolveScripts(tab.Entries, filepath.Dir(path))
	return &tab, nil
}

func resolveScripts(entries []Entry, dir string) {
	for i := range entries {
		e := &entries[i]
		if e.Script != "" {
			if filepath.IsAbs(e.Script) {
				e.ScriptPath = e.Script
			} else {
				e.ScriptPath = filepath.Join(dir, e.Script)
			}
		}
		resolveScripts(e.Entries, dir)
	}
}

// Discover returns the tab files under root, sorted by path
func Discover(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(TabFilePattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			files = append(files, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover tabs in %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// LoadDir discovers and loads every tab under root. Unless validation is
// skipped, script entries whose files are missing or not text are dropped
// and reported together in the returned error alongside the catalog.
func LoadDir(ctx context.Context, root string, opts LoadOptions) (*Catalog, error) {
	logger := logging.OrNop(opts.Logger)

	files, err := Discover(ctx, root)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{}
	var problems []error
	for _, file := range files {
		tab, err := Load(file)
		if err != nil {
			return nil, err
		}
		if !opts.SkipValidation {
			tab.Entries = validEntries(tab.Entries, &problems)
		}
		cat.Tabs = append(cat.Tabs, tab)
		logger.Debug("Loaded tab", zap.String("tab", tab.Name), zap.String("path", file))
	}

	logger.Info("Catalog loaded",
		zap.String("root", root),
		zap.Int("tabs", len(cat.Tabs)),
		zap.Int("entries", len(cat.Leaves())),
		zap.Int("invalid", len(problems)),
	)
	return cat, errors.Join(problems...)
}

func validEntries(entries []Entry, problems *[]error) []Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.IsFolder() {
			e.Entries = validEntries(e.Entries, problems)
			if len(e.Entries) == 0 {
				continue
			}
		} else if e.ScriptPath != "" {
			if err := ValidateScript(e.ScriptPath); err != nil {
				*problems = append(*problems, err)
				continue
			}
		}
		kept = append(kept, e)
	}
	return kept
}
