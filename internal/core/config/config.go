package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/create-fun-cli/create-fun/internal/core/project"
)

const UserConfigName = "config.toml"
const UserConfigEnv = "CREATE_FUN_CONFIG"

//go:embed package.toml
var packageToml []byte

// LoadMetadata decodes the embedded package metadata. A non-empty version
// (normally injected through ldflags) replaces the embedded one.
func LoadMetadata(version string) (*project.Metadata, error) {
	meta := project.NewMetadata()
	if err := toml.Unmarshal(packageToml, meta); err != nil {
		return nil, fmt.Errorf("decoding embedded package metadata: %w", err)
	}
	if version != "" {
		meta.Version = version
	}
	return meta, nil
}

// DefaultUserConfigPath returns the path of the user config file:
// $CREATE_FUN_CONFIG if set, otherwise <user config dir>/create-fun/config.toml.
func DefaultUserConfigPath() string {
	if p := os.Getenv(UserConfigEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "create-fun", UserConfigName)
}

// LoadUserConfig reads the TOML file at path. A missing file (or an empty
// path) yields (nil, nil); any other failure is returned.
func LoadUserConfig(path string) (*project.UserConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var uc project.UserConfig
	if err := toml.Unmarshal(data, &uc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, entry := range uc.Templates {
		if entry.Source == "" {
			return nil, fmt.Errorf("parsing %s: template %q has no source", path, name)
		}
	}
	return &uc, nil
}
