// Package config resolves the pipeline configuration from Viper and expands
// user-supplied paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// OutputPath joins dir and name and swaps the extension for format.
func OutputPath(dir, name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(ExpandPath(dir), base+"."+strings.TrimPrefix(ext, "."))
}
