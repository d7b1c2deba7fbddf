package store

import (
	"fmt"
	"os"
)

// EnsureDataDir creates dir (0700) and returns it.
func EnsureDataDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return dir, nil
}
