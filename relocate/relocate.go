// Package relocate pulls per-language translations and handbooks out of the
// l10n repository and moves them into the component's source tree.
//
// Languages are processed one at a time through a single staging directory
// under the root, so two relocations must never run against the same root
// concurrently.
package relocate

import (
	"context"
	"strings"

	"github.com/minios-linux/relkit/cmake"
	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/workspace"
)

// Component identifies what is being released.
type Component struct {
	// Name of the application, e.g. "amarok"; names the .po file and handbook.
	Name string
	// Module and Section locate it in the repository, e.g. "extragear" and "multimedia".
	Module  string
	Section string
}

func (c Component) messagesPath(lang string) string {
	return "l10n-kde4/" + lang + "/messages/" + c.Module + "-" + c.Section
}

func (c Component) docsPath(lang string) string {
	return "l10n-kde4/" + lang + "/docs/" + c.Module + "-" + c.Section + "/" + c.Name
}

func (c Component) sourceDocsPath() string {
	return c.Module + "/" + c.Section + "/doc/" + c.Name
}

// Populated is the ordered set of languages that got a directory.
type Populated struct {
	codes []string
	seen  map[string]bool
}

// NewPopulated returns an empty set.
func NewPopulated() *Populated {
	return &Populated{seen: make(map[string]bool)}
}

// Add inserts code; it reports false if code was already present.
func (p *Populated) Add(code string) bool {
	if p.seen[code] {
		return false
	}
	p.seen[code] = true
	p.codes = append(p.codes, code)
	return true
}

// Len returns the number of members.
func (p *Populated) Len() int { return len(p.codes) }

// Codes returns the members in insertion order.
func (p *Populated) Codes() []string {
	return append([]string(nil), p.codes...)
}

// Progress receives per-language progress.
type Progress interface {
	Start(total int, label string)
	Step(label string)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int, string) {}
func (nopProgress) Step(string)       {}
func (nopProgress) Finish()           {}

// Logger prints one formatted console line.
type Logger func(format string, args ...any)

// Relocator moves fetched artifacts into Root.
type Relocator struct {
	Root      workspace.Root
	Component Component
	Fetcher   remote.Fetcher
	Registrar remote.Registrar
	Progress  Progress
	Info      Logger
	Warn      Logger
}

func (r *Relocator) progress() Progress {
	if r.Progress == nil {
		return nopProgress{}
	}
	return r.Progress
}

func (r *Relocator) info(format string, args ...any) {
	if r.Info != nil {
		r.Info(format, args...)
	}
}

func (r *Relocator) warn(format string, args ...any) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}

// checkout fetches into the staging directory. Fetch failures are only
// logged: the caller decides presence by looking at staging.
func (r *Relocator) checkout(ctx context.Context, remotePath string) error {
	if err := r.Root.ClearStaging(); err != nil {
		return err
	}
	if _, err := r.Fetcher.Checkout(ctx, remotePath, r.Root.Staging()); err != nil {
		r.warn("fetching %s: %v", remotePath, err)
	}
	return nil
}

// register adds a new descriptor to version control. Failures are logged.
func (r *Relocator) register(ctx context.Context, path string) {
	if r.Registrar == nil {
		return
	}
	if err := r.Registrar.Add(ctx, path); err != nil {
		r.warn("registering %s: %v", path, err)
	}
}

// aggregate writes subdir's descriptor and enables subdir in the root
// descriptor, or removes subdir when nothing was populated.
func (r *Relocator) aggregate(subdir string, populated *Populated, header []string) error {
	written, err := cmake.BuildAggregate(populated.Len(), r.Root.Path(subdir), header)
	if err != nil || !written {
		return err
	}
	return cmake.EnableSubdirectory(r.Root.Path(cmake.FileName), subdir)
}

// validCode rejects codes that would escape their parent directory.
func validCode(code string) bool {
	return code != "" && code != "." && code != ".." && !strings.ContainsAny(code, `/\`)
}
