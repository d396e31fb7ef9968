// Package storage persists daybook lists as JSON blobs in a local key-value
// store. The engine treats storage as a durability sink: the in-memory list
// view is the read path after the initial load.
package storage

import (
	"context"
	"os"
	"path/filepath"
)

// KV is the generic blob store contract. Blobs are addressed by opaque
// string keys; Keys lists all keys sharing a prefix (used by the planner's
// per-event rows and folder scans).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const storeDirName = ".daybook"

// Store locates the on-disk daybook directory.
type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing .daybook dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}
