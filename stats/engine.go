// Package stats computes translation coverage for every language under po/
// and renders it as an HTML report.
package stats

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minios-linux/relkit/cmake"
	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/workspace"
)

// Logger prints one formatted console line.
type Logger func(format string, args ...any)

// Engine scans po/<lang>/<Name>.po below Root.
type Engine struct {
	Root    workspace.Root
	Name    string
	Product string
	Version string
	Counter Counter
	// ReportDir receives the finished report. Empty means the parent of Root.
	ReportDir string
	Info      Logger
	Warn      Logger
}

// ReportName returns the report file name, e.g. amarok-l10n-2.0.html.
func (e *Engine) ReportName() string {
	return fmt.Sprintf("%s-l10n-%s.html", e.Name, e.Version)
}

// ReportPath returns where Run leaves the report.
func (e *Engine) ReportPath() string {
	dir := e.ReportDir
	if dir == "" {
		dir = e.Root.Parent()
	}
	return filepath.Join(dir, e.ReportName())
}

func (e *Engine) info(format string, args ...any) {
	if e.Info != nil {
		e.Info(format, args...)
	}
}

func (e *Engine) warn(format string, args ...any) {
	if e.Warn != nil {
		e.Warn(format, args...)
	}
}

// Collect builds the report from the current po/ tree, one row per entry
// in directory order. A language whose statistics cannot be read gets a
// degenerate 0% row. A missing po/ yields a report without rows.
func (e *Engine) Collect(ctx context.Context) (*Report, error) {
	report := &Report{Product: e.Product, Version: e.Version}
	if report.Product == "" {
		report.Product = e.Name
	}

	poDir := e.Root.Path("po")
	if !workspace.IsDir(poDir) {
		e.warn("%s does not exist, the report will be empty", poDir)
		return report, nil
	}
	langs, err := workspace.Entries(poDir, cmake.FileName)
	if err != nil {
		return nil, err
	}

	for _, lang := range langs {
		path := filepath.Join(poDir, lang, e.Name+".po")
		counts, err := e.Counter.Count(ctx, path)
		if err != nil {
			e.warn("statistics for %s: %v", lang, err)
			counts = Counts{}
		}
		row := NewRow(lang, counts)
		report.Add(row)
		e.info("%-10s %3d%% (%d fuzzy, %d untranslated)", lang, row.Percent, row.Fuzzy, row.Untranslated)
	}
	return report, nil
}

// Run collects the statistics, writes the report next to the tree and
// moves it to ReportPath. It returns the final path.
func (e *Engine) Run(ctx context.Context) (string, *Report, error) {
	var (
		final  = e.ReportPath()
		report *Report
	)

	err := e.Root.Phase("statistics", func() error {
		var err error
		report, err = e.Collect(ctx)
		if err != nil {
			return err
		}

		partial := e.Root.Path("." + e.ReportName() + ".part")
		if err := writeReport(partial, report); err != nil {
			os.Remove(partial)
			return err
		}
		if err := remote.Move(partial, final); err != nil {
			os.Remove(partial)
			return workspace.Wrap("move", partial, err)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return final, report, nil
}

func writeReport(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return workspace.Wrap("create", path, err)
	}
	w := bufio.NewWriter(f)
	if err := report.Render(w); err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return workspace.Wrap("write", path, err)
	}
	return workspace.Wrap("close", path, f.Close())
}
