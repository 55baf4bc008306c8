package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// LoosePermissions reports whether a file is readable or writable by group
// or others. Always false on Windows, where mode bits are not meaningful.
func LoosePermissions(info os.FileInfo) bool {
	if isWindows() {
		return false
	}
	return info.Mode().Perm()&0o077 != 0
}
