// Package config holds helpers for resolving user-supplied configuration
// values before they reach the rest of the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves ~ and $VAR references in a file path. Paths arrive
// straight from the config file or flags (for example the default
// "$HOME/.local/share/duit/duit.db"), so both the home shorthand and
// environment variables need expanding before the path is opened.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
