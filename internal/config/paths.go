package config

import (
	"os"
	"path/filepath"
	"strings"
)

// homeEnv points relative runtime paths (logs, sqlite file) at a data root.
const homeEnv = "BRIEFBANK_HOME"

// DataRoot is $BRIEFBANK_HOME when set, else the working directory.
func DataRoot() string {
	if home := strings.TrimSpace(os.Getenv(homeEnv)); home != "" {
		return filepath.Clean(home)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath makes raw absolute under DataRoot. An empty raw falls
// back to fallbackSubdir.
func ResolveRuntimePath(raw, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(DataRoot(), target)
}
