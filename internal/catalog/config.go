package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// UserConfig is the optional per-user settings file:
//
//	auto_execute = ["Fastfetch", "Alacritty"]
//	skip_confirmation = true
type UserConfig struct {
	AutoExecute      []string `toml:"auto_execute"`
	SkipConfirmation bool     `toml:"skip_confirmation"`
}

// LoadUserConfig reads path. A missing file yields an empty config.
func LoadUserConfig(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user config: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse user config %s: %w", path, err)
	}
	return &cfg, nil
}
