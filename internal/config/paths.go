package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the user config directory and the environment prefix.
const AppName = "changelog-md"

// configHome returns the XDG config directory. Tests replace it.
var configHome = func() string {
	return xdg.ConfigHome
}

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changelog-md/config.yml
// - macOS: ~/Library/Application Support/changelog-md/config.yml
// - Windows: %LOCALAPPDATA%\changelog-md\config.yml
//
// If XDG_CONFIG_HOME is set, it is respected on every platform.
func UserConfigPath() string {
	return filepath.Join(UserConfigDir(), "config.yml")
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() string {
	return filepath.Join(configHome(), AppName)
}

// ProjectConfigCandidates returns the project-level config files looked up in
// dir, in order of preference.
func ProjectConfigCandidates(dir string) []string {
	return []string{
		filepath.Join(dir, ".changelog-md.yml"),
		filepath.Join(dir, ".changelog-md.yaml"),
		filepath.Join(dir, ".changelog-md.json"),
	}
}

// ProjectConfigPath returns the default project config path in dir, the one
// `config init` writes.
func ProjectConfigPath(dir string) string {
	return ProjectConfigCandidates(dir)[0]
}
