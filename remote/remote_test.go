package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/minios-linux/relkit/command"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDirBackend(t *testing.T) {
	mirror := t.TempDir()
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "subdirs"), "de\nfr\n")
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "de", "messages", "extragear-multimedia", "amarok.po"), "msgid \"\"\n")

	d := &Dir{Root: mirror}
	ctx := context.Background()

	data, err := d.Cat(ctx, "l10n-kde4/subdirs")
	if err != nil || string(data) != "de\nfr\n" {
		t.Fatalf("Cat() = %q, %v", data, err)
	}
	if _, err := d.Cat(ctx, "l10n-kde4/missing"); err == nil {
		t.Fatal("Cat(missing) expected error")
	}

	dest := filepath.Join(t.TempDir(), "l10n")
	res, err := d.Checkout(ctx, "l10n-kde4/de/messages/extragear-multimedia", dest)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !res.Present || res.Path != dest {
		t.Fatalf("Checkout() = %#v, want present at %s", res, dest)
	}
	if _, err := os.Stat(filepath.Join(dest, "amarok.po")); err != nil {
		t.Fatalf("checked out file missing: %v", err)
	}

	res, err = d.Checkout(ctx, "l10n-kde4/fr/messages/extragear-multimedia", filepath.Join(t.TempDir(), "l10n"))
	if err != nil {
		t.Fatalf("Checkout(absent): %v", err)
	}
	if res.Present {
		t.Fatal("Checkout(absent) should not be present")
	}
	if err := d.Add(ctx, dest); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func TestSVNBackendArguments(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "l10n")
	rec := &command.Recorder{
		Handle: func(c command.Call) (command.Output, error) {
			switch c.Args[0] {
			case "cat":
				return command.Output{Stdout: []byte("de\n")}, nil
			case "co":
				if c.Args[1] == "svn://host/trunk/l10n-kde4/fr/messages/x-y" {
					return command.Output{}, errors.New("path not found")
				}
				return command.Output{}, os.MkdirAll(c.Args[2], 0755)
			}
			return command.Output{}, nil
		},
	}
	s := &SVN{Repository: "svn://host/trunk/", Runner: rec}
	ctx := context.Background()

	data, err := s.Cat(ctx, "l10n-kde4/subdirs")
	if err != nil || string(data) != "de\n" {
		t.Fatalf("Cat() = %q, %v", data, err)
	}

	res, err := s.Checkout(ctx, "l10n-kde4/de/messages/x-y", dest)
	if err != nil || !res.Present {
		t.Fatalf("Checkout(de) = %#v, %v", res, err)
	}

	res, err = s.Checkout(ctx, "/l10n-kde4/fr/messages/x-y", dest+"-fr")
	if err == nil || res.Present {
		t.Fatalf("Checkout(fr) = %#v, %v; want absent with error", res, err)
	}

	if err := s.Add(ctx, "/src/po/de/CMakeLists.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := []command.Call{
		{Name: "svn", Args: []string{"cat", "svn://host/trunk/l10n-kde4/subdirs"}},
		{Name: "svn", Args: []string{"co", "svn://host/trunk/l10n-kde4/de/messages/x-y", dest}},
		{Name: "svn", Args: []string{"co", "svn://host/trunk/l10n-kde4/fr/messages/x-y", dest + "-fr"}},
		{Name: "svn", Args: []string{"add", "/src/po/de/CMakeLists.txt"}},
	}
	if !reflect.DeepEqual(rec.Calls, want) {
		t.Fatalf("calls = %v\nwant    %v", rec.Calls, want)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "l10n")
	writeFile(t, filepath.Join(src, "index.docbook"), "<book/>")

	dst := filepath.Join(dir, "doc", "de")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still exists: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "index.docbook")); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
}

func commitAll(t *testing.T, dir string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		t.Fatalf("open %s: %v", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := wt.AddGlob("."); err != nil {
		t.Fatalf("AddGlob: %v", err)
	}
	_, err = wt.Commit("import", &git.CommitOptions{
		Author: &object.Signature{Name: "relkit", Email: "relkit@example.org", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestGitBackendCheckoutAndCat(t *testing.T) {
	mirror := t.TempDir()
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "subdirs"), "de\n")
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "de", "docs", "x-y", "amarok", "index.docbook"), "<book/>")
	commitAll(t, mirror)

	g := &Git{URL: mirror, CacheDir: filepath.Join(t.TempDir(), "cache")}
	ctx := context.Background()

	data, err := g.Cat(ctx, "l10n-kde4/subdirs")
	if err != nil || string(data) != "de\n" {
		t.Fatalf("Cat() = %q, %v", data, err)
	}

	dest := filepath.Join(t.TempDir(), "l10n")
	res, err := g.Checkout(ctx, "l10n-kde4/de/docs/x-y/amarok", dest)
	if err != nil || !res.Present {
		t.Fatalf("Checkout(de) = %#v, %v", res, err)
	}
	if _, err := os.Stat(filepath.Join(dest, "index.docbook")); err != nil {
		t.Fatalf("index.docbook missing: %v", err)
	}

	res, err = g.Checkout(ctx, "l10n-kde4/fr/docs/x-y/amarok", filepath.Join(t.TempDir(), "l10n"))
	if err != nil || res.Present {
		t.Fatalf("Checkout(fr) = %#v, %v; want absent", res, err)
	}
}

func TestGitBackendPullsExistingClone(t *testing.T) {
	mirror := t.TempDir()
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "subdirs"), "de\n")
	commitAll(t, mirror)

	cache := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()
	if _, err := (&Git{URL: mirror, CacheDir: cache}).Cat(ctx, "l10n-kde4/subdirs"); err != nil {
		t.Fatalf("first Cat: %v", err)
	}

	writeFile(t, filepath.Join(mirror, "l10n-kde4", "subdirs"), "de\nfr\n")
	commitAll(t, mirror)

	data, err := (&Git{URL: mirror, CacheDir: cache}).Cat(ctx, "l10n-kde4/subdirs")
	if err != nil {
		t.Fatalf("second Cat: %v", err)
	}
	if string(data) != "de\nfr\n" {
		t.Fatalf("Cat() = %q, want the updated list", data)
	}
}

func TestGitBackendAdd(t *testing.T) {
	project := t.TempDir()
	repo, err := git.PlainInit(project, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	path := filepath.Join(project, "po", "de", "CMakeLists.txt")
	writeFile(t, path, "file(GLOB _po_files *.po)\n")

	g := &Git{ProjectDir: project}
	if err := g.Add(context.Background(), path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	status, err := wt.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := status.File("po/de/CMakeLists.txt").Staging; got != git.Added {
		t.Fatalf("staging status = %q, want %q", got, git.Added)
	}

	plain := &Git{ProjectDir: t.TempDir()}
	if err := plain.Add(context.Background(), filepath.Join(plain.ProjectDir, "x")); err != nil {
		t.Fatalf("Add outside a repository should be a no-op, got %v", err)
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		opts    Options
		want    string
		wantErr bool
	}{
		{opts: Options{Repository: "svn://host/trunk"}, want: "*remote.SVN"},
		{opts: Options{Backend: BackendGit, Repository: "https://host/l10n.git", CacheDir: "/tmp/c"}, want: "*remote.Git"},
		{opts: Options{Backend: BackendGit, Repository: "https://host/l10n.git"}, wantErr: true},
		{opts: Options{Backend: BackendDir, Repository: "/srv/l10n"}, want: "*remote.Dir"},
		{opts: Options{Backend: "cvs"}, wantErr: true},
	}
	for _, tc := range cases {
		repo, err := New(tc.opts)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("New(%+v) expected error", tc.opts)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%+v) error: %v", tc.opts, err)
		}
		if got := fmt.Sprintf("%T", repo); got != tc.want {
			t.Fatalf("New(%+v) = %s, want %s", tc.opts, got, tc.want)
		}
	}
}
