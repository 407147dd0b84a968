package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/minios-linux/relkit/command"
)

// SVN talks to a Subversion repository through the svn client.
type SVN struct {
	// Repository is the base URL, e.g. svn://anonsvn.kde.org/home/kde/trunk.
	Repository string
	Runner     command.Runner
}

// URL joins a repository-relative path onto the base URL.
func (s *SVN) URL(path string) string {
	return strings.TrimRight(s.Repository, "/") + "/" + strings.TrimLeft(path, "/")
}

// Cat runs svn cat on the remote file.
func (s *SVN) Cat(ctx context.Context, path string) ([]byte, error) {
	out, err := s.Runner.Run(ctx, "svn", "cat", s.URL(path))
	if err != nil {
		return nil, err
	}
	return out.Stdout, nil
}

// Checkout runs svn co into dest. svn exits non-zero for a path that does
// not exist in the repository; that is reported as Absent along with the
// error so callers can log it.
func (s *SVN) Checkout(ctx context.Context, path, dest string) (Result, error) {
	if _, err := s.Runner.Run(ctx, "svn", "co", s.URL(path), dest); err != nil {
		return Absent, err
	}
	if !isDir(dest) {
		return Absent, nil
	}
	return Result{Path: dest, Present: true}, nil
}

// Add runs svn add on a path inside a working copy.
func (s *SVN) Add(ctx context.Context, path string) error {
	if _, err := s.Runner.Run(ctx, "svn", "add", path); err != nil {
		return fmt.Errorf("svn add %s: %w", path, err)
	}
	return nil
}
