// Package remote fetches content from the central l10n repository and
// registers new files with the project's version control.
//
// Three backends exist: SVN drives the svn client, Git reads from a go-git
// clone of an l10n mirror, and Dir copies from a local directory tree.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/otiai10/copy"
)

// Backend names accepted by New.
const (
	BackendSVN = "svn"
	BackendGit = "git"
	BackendDir = "dir"
)

// Result is the outcome of a checkout. Present is false when the remote
// path did not exist; Path is then meaningless.
type Result struct {
	Path    string
	Present bool
}

// Absent is the Result for a missing remote path.
var Absent = Result{}

// Fetcher reads single files and whole trees from the remote repository.
type Fetcher interface {
	// Cat returns the content of a remote file.
	Cat(ctx context.Context, path string) ([]byte, error)
	// Checkout materializes a remote directory at dest.
	Checkout(ctx context.Context, path, dest string) (Result, error)
}

// Registrar schedules a local file for addition to version control.
type Registrar interface {
	Add(ctx context.Context, path string) error
}

// Repository is a backend that can both fetch and register.
type Repository interface {
	Fetcher
	Registrar
}

// copyOptions merges into existing directories and keeps permissions.
func copyOptions(skip ...string) copy.Options {
	return copy.Options{
		OnSymlink: func(src string) copy.SymlinkAction {
			return copy.Shallow
		},
		PermissionControl: copy.PerservePermission,
		OnDirExists: func(src, dst string) copy.DirExistsAction {
			return copy.Merge
		},
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			for _, name := range skip {
				if info.Name() == name {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// Move renames src to dst, falling back to copy and remove when the two
// paths are on different filesystems.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copy.Copy(src, dst, copyOptions()); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return os.RemoveAll(src)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
