package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/otiai10/copy"
)

// Git reads remote content from a clone of a git mirror of the l10n
// repository and registers files in the project's own git worktree.
type Git struct {
	// URL of the l10n mirror.
	URL string
	// Branch to clone. Empty means the remote HEAD.
	Branch string
	// CacheDir holds the clone. An existing clone is pulled before use.
	CacheDir string
	// Shallow requests a depth-1 clone.
	Shallow bool
	// ProjectDir is any path inside the project's worktree.
	ProjectDir string

	cloned bool
}

func (g *Git) ensure(ctx context.Context) error {
	if g.cloned {
		return nil
	}
	if repo, err := git.PlainOpen(g.CacheDir); err == nil {
		if err := g.pull(ctx, repo); err != nil {
			return err
		}
		g.cloned = true
		return nil
	}

	opts := &git.CloneOptions{URL: g.URL}
	if g.Shallow {
		opts.Depth = 1
	}
	if g.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Branch)
		opts.SingleBranch = true
	}
	if _, err := git.PlainCloneContext(ctx, g.CacheDir, false, opts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", g.URL, err)
	}
	g.cloned = true
	return nil
}

// pull brings an existing clone up to date with the mirror.
func (g *Git) pull(ctx context.Context, repo *git.Repository) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	opts := &git.PullOptions{RemoteName: git.DefaultRemoteName, Force: true}
	if g.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Branch)
		opts.SingleBranch = true
	}
	err = worktree.PullContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to update %s from %s: %w", g.CacheDir, g.URL, err)
	}
	return nil
}

func (g *Git) resolve(path string) string {
	return filepath.Join(g.CacheDir, filepath.FromSlash(path))
}

// Cat reads a file from the clone.
func (g *Git) Cat(ctx context.Context, path string) ([]byte, error) {
	if err := g.ensure(ctx); err != nil {
		return nil, err
	}
	return os.ReadFile(g.resolve(path))
}

// Checkout copies a directory of the clone to dest, leaving out .git.
func (g *Git) Checkout(ctx context.Context, path, dest string) (Result, error) {
	if err := g.ensure(ctx); err != nil {
		return Absent, err
	}
	src := g.resolve(path)
	if !isDir(src) {
		return Absent, nil
	}
	if err := copy.Copy(src, dest, copyOptions(".git")); err != nil {
		return Absent, fmt.Errorf("copying %s: %w", src, err)
	}
	return Result{Path: dest, Present: true}, nil
}

// Add stages path in the git worktree that contains ProjectDir. When the
// project is not a git repository nothing happens.
func (g *Git) Add(ctx context.Context, path string) error {
	repo, err := git.PlainOpenWithOptions(g.ProjectDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	rel, err := filepath.Rel(worktree.Filesystem.Root(), path)
	if err != nil {
		return fmt.Errorf("%s is outside the worktree: %w", path, err)
	}
	if _, err := worktree.Add(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("failed to add %s: %w", rel, err)
	}
	return nil
}
