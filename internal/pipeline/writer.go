package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
)

// FSWriter writes chart PNGs under a root output directory, creating
// per-river-mile subdirectories as needed.
type FSWriter struct {
	root string
}

// NewFSWriter verifies the output root can be created and returns a
// writer rooted there.
func NewFSWriter(root string) (*FSWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &domain.PathSetupError{Path: root, Err: err}
	}
	return &FSWriter{root: root}, nil
}

// Root returns the output directory.
func (w *FSWriter) Root() string { return w.root }

// Exists reports whether a chart is already saved at the relative path.
func (w *FSWriter) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(w.root, rel))
	return err == nil && !info.IsDir()
}

// Write saves data at the relative path, creating parent directories.
func (w *FSWriter) Write(rel string, data []byte) error {
	full := filepath.Join(w.root, rel)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.PathSetupError{Path: dir, Err: err}
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write chart %s: %w", rel, err)
	}
	return nil
}
