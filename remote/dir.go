package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// Dir serves a local directory laid out like the remote repository.
// Add is a no-op: there is no version control behind it.
type Dir struct {
	Root string
}

func (d *Dir) resolve(path string) string {
	return filepath.Join(d.Root, filepath.FromSlash(path))
}

// Cat reads a file below Root.
func (d *Dir) Cat(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(d.resolve(path))
}

// Checkout copies a directory below Root to dest.
func (d *Dir) Checkout(ctx context.Context, path, dest string) (Result, error) {
	src := d.resolve(path)
	if !isDir(src) {
		return Absent, nil
	}
	if err := copy.Copy(src, dest, copyOptions()); err != nil {
		return Absent, fmt.Errorf("copying %s: %w", src, err)
	}
	return Result{Path: dest, Present: true}, nil
}

// Add does nothing.
func (d *Dir) Add(ctx context.Context, path string) error {
	return nil
}
