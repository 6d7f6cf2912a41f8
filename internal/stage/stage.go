// Package stage persists uploaded audio bytes to a transient file so they
// can be handed to a client that wants a named file, and guarantees the
// file is removed once the consuming call finishes.
package stage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Write stores data in a uniquely named file under dir (os.TempDir when dir
// is empty) and returns the path together with a cleanup func. The caller
// defers cleanup so the file is removed on every exit path, including
// failures of the consuming call.
func Write(dir string, data []byte, ext string) (string, func(), error) {
	if dir == "" {
		dir = os.TempDir()
	}
	name := "voxlate-" + uuid.NewString()
	if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
		name += "." + ext
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("create staging file: %w", err)
	}
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close staging file: %w", err)
	}
	return path, cleanup, nil
}
