package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvConfigDir overrides the XDG config directory for agentlink
	EnvConfigDir = "AGENTLINK_CONFIG_DIR"
)

// Fixed names inside the canonical root. These are part of the on-disk
// contract with existing canonical roots and are not configurable.
const (
	// AppDirName is the directory name for agentlink's own XDG files
	AppDirName = "agentlink"

	// CanonicalDirName is the canonical root's name below home or the project
	CanonicalDirName = ".agents"

	// BackupDirName holds backup sessions inside the canonical root
	BackupDirName = "backup"

	// LockFileName is the advisory lock inside the backup directory
	LockFileName = ".lock"

	// ConfigFileName is the user configuration file name
	ConfigFileName = "config.toml"
)

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading ~ against the current user's home directory
func ExpandHome(path string) string {
	home, err := GetHomeDirectory()
	if err != nil {
		return path
	}
	return ExpandHomeFrom(path, home)
}

// ExpandHomeFrom expands a leading ~ against the given home directory.
// "~user" forms are returned unchanged.
func ExpandHomeFrom(path, home string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigDir returns agentlink's XDG config directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFilePath returns the default user configuration file
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// ContainsPath checks if child is contained within parent.
// Both paths are cleaned before comparison.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
