// Package workspace pins every release phase to one explicit source root.
//
// Paths are always built from Root; the process working directory is never
// read or changed. Each phase runs through Root.Phase, which checks that the
// root is intact before the phase starts and that the staging directory is
// gone when it ends.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StagingName is the reused per-language checkout directory under the root.
const StagingName = "l10n"

// FilesystemError is a fatal failure while mutating the release tree.
// Languages processed before the failure are left in place.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, otherwise a *FilesystemError.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// Root is the absolute path of a component's source tree.
type Root string

// Open resolves dir to an absolute path and checks that it is a directory.
func Open(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	r := Root(abs)
	if err := r.Check(); err != nil {
		return "", err
	}
	return r, nil
}

// String returns the root path.
func (r Root) String() string { return string(r) }

// Path joins elem onto the root.
func (r Root) Path(elem ...string) string {
	return filepath.Join(append([]string{string(r)}, elem...)...)
}

// Staging returns the staging directory path.
func (r Root) Staging() string {
	return r.Path(StagingName)
}

// Parent returns the directory containing the root.
func (r Root) Parent() string {
	return filepath.Dir(string(r))
}

// Check verifies that the root still exists and is a directory.
func (r Root) Check() error {
	info, err := os.Stat(string(r))
	if err != nil {
		return Wrap("stat", string(r), err)
	}
	if !info.IsDir() {
		return Wrap("stat", string(r), errors.New("not a directory"))
	}
	return nil
}

// ClearStaging removes the staging directory and anything in it.
func (r Root) ClearStaging() error {
	return Wrap("remove", r.Staging(), os.RemoveAll(r.Staging()))
}

// Phase runs fn between the root precondition and postcondition. Staging is
// removed after fn even when fn fails; the first error wins.
func (r Root) Phase(name string, fn func() error) (err error) {
	if err := r.Check(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer func() {
		cleanErr := r.ClearStaging()
		if err == nil && cleanErr != nil {
			err = fmt.Errorf("%s: %w", name, cleanErr)
		}
		if err == nil {
			if checkErr := r.Check(); checkErr != nil {
				err = fmt.Errorf("%s: %w", name, checkErr)
			}
		}
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is not a directory.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Entries lists dir in the order the filesystem returns them, without
// sorting, and drops the names in skip. "." and ".." are never returned.
func Entries(dir string, skip ...string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, Wrap("open", dir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, Wrap("readdir", dir, err)
	}

	out := names[:0]
	for _, name := range names {
		if name == "." || name == ".." || contains(skip, name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
