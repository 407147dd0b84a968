// relkit is the release kit for the localization of KDE components. It pulls
// translations and handbooks from the l10n repository into a source tree and
// reports translation coverage.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/minios-linux/relkit/catalog"
	"github.com/minios-linux/relkit/command"
	"github.com/minios-linux/relkit/config"
	"github.com/minios-linux/relkit/i18n"
	"github.com/minios-linux/relkit/langmeta"
	"github.com/minios-linux/relkit/lockfile"
	"github.com/minios-linux/relkit/relocate"
	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/stats"
	"github.com/minios-linux/relkit/workspace"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoPrefix    = color.New(color.FgBlue).Sprint("[INFO]")
	successPrefix = color.New(color.FgGreen).Sprint("[OK]")
	warningPrefix = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	errorPrefix   = color.New(color.FgRed).Sprint("[ERROR]")
	headerColor   = color.New(color.FgBlue, color.Bold)
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoPrefix+" "+i18n.T(format)+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successPrefix+" "+i18n.T(format)+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warningPrefix+" "+i18n.T(format)+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorPrefix+" "+i18n.T(format)+"\n", args...)
}

func languageCount(n int) string {
	return i18n.Count("%d language", "%d languages", n)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir  string
	language string
)

// releaseFlags override .relkit.yaml. Empty strings mean "not given".
type releaseFlags struct {
	name           string
	module         string
	section        string
	releaseVersion string
	backend        string
	repository     string
	statsCounter   string
	reportDir      string
	quiet          bool
}

func (f *releaseFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "Component name (default: detected from CMakeLists.txt)")
	fl.StringVar(&f.module, "module", "", "Repository module, e.g. extragear")
	fl.StringVar(&f.section, "section", "", "Module section, e.g. multimedia")
	fl.StringVar(&f.releaseVersion, "release-version", "", "Release version (default: detected from the directory name)")
	fl.StringVar(&f.backend, "backend", "", "Repository backend: svn, git or dir")
	fl.StringVar(&f.repository, "repository", "", "svn URL, git URL or local directory of the l10n tree")
	fl.StringVar(&f.statsCounter, "stats-counter", "", "Statistics counter: msgfmt or builtin")
	fl.StringVar(&f.reportDir, "report-dir", "", "Directory for the HTML report (default: parent of the root)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Do not draw progress bars")
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "relkit",
		Short: "Prepare the localization of a KDE component release",
		Long: `relkit: release kit for the localization of KDE components.

Run inside an unpacked component source tree. Translations and handbooks
are fetched per language from the l10n repository, moved into po/ and doc/
and wired into the CMake build. A coverage report is written next to the tree.

Commands:
  translations  Fetch translation catalogs into po/
  docs          Fetch translated handbooks into doc/
  stats         Write the translation coverage report
  release       translations, docs and stats in one run
  status        Show the release settings and what was fetched

Settings are read from .relkit.yaml in the root; flags override them.
What was fetched is recorded in l10n.lock in the root. Leave .relkit.yaml
and l10n.lock out of the release tarball.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(language)
		},
	}

	// Inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Component source root")
	root.PersistentFlags().StringVar(&language, "lang", "",
		fmt.Sprintf("Message language, one of: %s (default: from RELKIT_LANG or the locale)", strings.Join(i18n.Available(), ", ")))

	root.AddCommand(
		newPhaseCmd("translations", "Fetch translation catalogs into po/", runTranslations),
		newPhaseCmd("docs", "Fetch translated handbooks into doc/", runDocumentation),
		newPhaseCmd("stats", "Write the translation coverage report", runStats),
		newPhaseCmd("release", "Fetch translations and handbooks, then write the report", runRelease),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// interruptible returns a context cancelled on the first interrupt.
func interruptible() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			logWarning("Interrupted, stopping after the current step...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// ---------------------------------------------------------------------------
// Session: everything a phase needs
// ---------------------------------------------------------------------------

type session struct {
	root     workspace.Root
	release  *config.ReleaseFile
	repo     remote.Repository
	runner   command.Runner
	progress relocate.Progress
	lock     *lockfile.LockFile
}

// resolveRelease reads .relkit.yaml, applies flags over it and fills the
// rest from the tree itself.
func resolveRelease(root workspace.Root, f *releaseFlags) (*config.ReleaseFile, error) {
	return config.LoadReleaseFile(root.String(), func(rf *config.ReleaseFile) {
		for _, o := range []struct {
			flag string
			dst  *string
		}{
			{f.name, &rf.Name},
			{f.module, &rf.Module},
			{f.section, &rf.Section},
			{f.releaseVersion, &rf.Version},
			{f.backend, &rf.Backend},
			{f.repository, &rf.Repository},
			{f.statsCounter, &rf.Stats.Counter},
			{f.reportDir, &rf.Stats.ReportDir},
		} {
			if o.flag != "" {
				*o.dst = o.flag
			}
		}
	})
}

func newSession(dir string, f *releaseFlags) (*session, error) {
	root, err := workspace.Open(dir)
	if err != nil {
		return nil, err
	}
	rf, err := resolveRelease(root, f)
	if err != nil {
		return nil, err
	}
	if rf.Version == "" {
		return nil, errors.New(i18n.T("release version unknown: pass --release-version or set version in .relkit.yaml"))
	}

	// msgfmt and svn print English only under the C locale
	runner := command.Exec{Env: []string{"LC_ALL=C"}}

	repo, err := remote.New(remote.Options{
		Backend:    rf.Backend,
		Repository: rf.Repository,
		Runner:     runner,
		Branch:     rf.Git.Branch,
		CacheDir:   rf.GitCacheDir(root.String()),
		Shallow:    *rf.Git.Shallow,
		ProjectDir: root.String(),
	})
	if err != nil {
		return nil, err
	}

	lock, err := lockfile.Load(root.String())
	if err != nil {
		return nil, err
	}

	s := &session{root: root, release: rf, repo: repo, runner: runner, lock: lock}
	if !f.quiet {
		s.progress = &barProgress{}
	}
	return s, nil
}

func (s *session) relocator() *relocate.Relocator {
	return &relocate.Relocator{
		Root: s.root,
		Component: relocate.Component{
			Name:    s.release.Name,
			Module:  s.release.Module,
			Section: s.release.Section,
		},
		Fetcher:   s.repo,
		Registrar: s.repo,
		Progress:  s.progress,
		Info:      logInfo,
		Warn:      logWarning,
	}
}

// languages reads the language catalog and drops skipped languages.
func (s *session) languages(ctx context.Context) ([]string, error) {
	langs, err := catalog.Fetch(ctx, s.repo, catalog.ManifestPath)
	if err != nil {
		return nil, err
	}
	kept, err := catalog.Filter(langs, s.release.SkipLanguages)
	if err != nil {
		return nil, err
	}
	if skipped := len(langs) - len(kept); skipped > 0 {
		logInfo("Skipping %s matching skip_languages", languageCount(skipped))
	}
	return kept, nil
}

// ---------------------------------------------------------------------------
// Phase commands
// ---------------------------------------------------------------------------

type phaseFunc func(ctx context.Context, s *session) error

func newPhaseCmd(use, short string, run phaseFunc) *cobra.Command {
	var f releaseFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootDir, &f)
			if err != nil {
				return err
			}
			ctx, cancel := interruptible()
			defer cancel()
			return run(ctx, s)
		},
	}
	f.register(cmd)
	return cmd
}

func runTranslations(ctx context.Context, s *session) error {
	if err := s.release.RequireComponent(); err != nil {
		return err
	}
	langs, err := s.languages(ctx)
	if err != nil {
		return err
	}
	logInfo("Fetching translations of %s for %s", s.release.Name, languageCount(len(langs)))

	populated, err := s.relocator().Translations(ctx, langs)
	if err != nil {
		return fmt.Errorf("translations: %w", err)
	}

	s.lock.Release = s.release.Version
	s.lock.SetTranslations(populated.Codes())
	for _, lang := range populated.Codes() {
		path := s.root.Path("po", lang, s.release.Name+".po")
		if err := s.lock.Record(lockfile.SectionTranslations, lang, path); err != nil {
			return err
		}
	}
	if err := s.lock.Save(); err != nil {
		return err
	}

	if populated.Len() == 0 {
		logWarning("No translations found, po/ was removed")
		return nil
	}
	logSuccess("Added translations for %s", languageCount(populated.Len()))
	return nil
}

func runDocumentation(ctx context.Context, s *session) error {
	if err := s.release.RequireComponent(); err != nil {
		return err
	}
	langs, err := s.languages(ctx)
	if err != nil {
		return err
	}
	logInfo("Fetching handbooks of %s for %s", s.release.Name, languageCount(len(langs)))

	populated, err := s.relocator().Documentation(ctx, langs)
	if err != nil {
		if errors.Is(err, relocate.ErrNoSourceDocs) {
			return fmt.Errorf("%w (disable with documentation: false in %s)", err, config.ReleaseFileName)
		}
		return fmt.Errorf("documentation: %w", err)
	}

	s.lock.Release = s.release.Version
	s.lock.SetDocumentation(populated.Codes())
	for _, lang := range populated.Codes() {
		path := s.root.Path("doc", lang, "index.docbook")
		if err := s.lock.Record(lockfile.SectionDocumentation, lang, path); err != nil {
			return err
		}
	}
	if err := s.lock.Save(); err != nil {
		return err
	}

	if populated.Len() == 0 {
		logWarning("No translated handbooks found, doc/ was removed")
		return nil
	}
	logSuccess("Added handbooks for %s", languageCount(populated.Len()))
	return nil
}

func runStats(ctx context.Context, s *session) error {
	counter, err := stats.NewCounter(s.release.Stats.Counter, s.runner)
	if err != nil {
		return err
	}
	if s.release.Stats.Counter == stats.CounterMsgfmt && !command.Available("msgfmt") {
		logWarning("msgfmt not found, using the builtin counter")
		counter = stats.Builtin{}
	}

	e := &stats.Engine{
		Root:      s.root,
		Name:      s.release.Name,
		Product:   s.release.Product,
		Version:   s.release.Version,
		Counter:   counter,
		ReportDir: s.release.Stats.ReportDir,
		Info:      logInfo,
		Warn:      logWarning,
	}
	path, report, err := e.Run(ctx)
	if err != nil {
		return fmt.Errorf("statistics: %w", err)
	}
	size := ""
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	logSuccess("Wrote %s (%s, %s, %d%% average)", path, size, languageCount(report.Total.Languages), report.Total.Percent())
	return nil
}

func runRelease(ctx context.Context, s *session) error {
	s.lock.Reset(s.release.Version)
	if err := runTranslations(ctx, s); err != nil {
		return err
	}
	if s.release.DocumentationEnabled() {
		if err := runDocumentation(ctx, s); err != nil {
			return err
		}
	} else {
		logInfo("Handbooks disabled in %s", config.ReleaseFileName)
	}
	return runStats(ctx, s)
}

// ---------------------------------------------------------------------------
// Progress
// ---------------------------------------------------------------------------

// barProgress draws relocation progress on stderr.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Start(total int, label string) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", i18n.T(label))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Step(label string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", label))
	p.bar.Add(1)
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("relkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: settings + last run)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var f releaseFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the release settings and what was fetched",
		Long: `Show the resolved release settings and the languages recorded in l10n.lock.

Translations whose catalog changed on disk since they were fetched are
marked. Without a lock the languages already present under po/ and doc/
are listed. Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := workspace.Open(rootDir)
			if err != nil {
				return err
			}
			rf, err := resolveRelease(root, &f)
			if err != nil {
				return err
			}
			lock, err := lockfile.Load(root.String())
			if err != nil {
				return err
			}
			printStatus(os.Stderr, root, rf, lock)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printStatus(w io.Writer, root workspace.Root, rf *config.ReleaseFile, lock *lockfile.LockFile) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, i18n.T("Release"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  Name:       %s\n", rf.Name)
	fmt.Fprintf(w, "  Product:    %s\n", rf.Product)
	fmt.Fprintf(w, "  Version:    %s\n", rf.Version)
	fmt.Fprintf(w, "  Root:       %s\n", root)
	if rf.Module != "" || rf.Section != "" {
		fmt.Fprintf(w, "  Location:   %s/%s\n", rf.Module, rf.Section)
	}
	fmt.Fprintf(w, "  Backend:    %s %s\n", rf.Backend, rf.Repository)
	fmt.Fprintf(w, "  Report:     %s\n", filepath.Join(reportDir(root, rf), fmt.Sprintf("%s-l10n-%s.html", rf.Name, rf.Version)))
	fmt.Fprintf(w, "  Lock:       %s%s\n", lock.Summary(), lockAge(lock.Path()))
	fmt.Fprintln(w)

	translations := lock.Languages(lockfile.SectionTranslations)
	handbooks := lock.Languages(lockfile.SectionDocumentation)
	if len(translations) == 0 {
		// Nothing fetched by relkit; show what the tree already ships.
		onDisk := config.Detect(root.String())
		if len(onDisk.Translations) == 0 {
			logInfo("No translations recorded. Run 'relkit translations' to fetch them.")
			return
		}
		fmt.Fprintf(w, "  On disk:    %s\n", strings.Join(onDisk.Translations, ", "))
		if onDisk.HasSourceDocs {
			fmt.Fprintf(w, "  Handbooks:  en_US %s\n", strings.Join(onDisk.Handbooks, " "))
		}
		fmt.Fprintln(w)
		return
	}

	headerColor.Fprintln(w, i18n.T("Translations"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-14s %-26s %s\n", "Lang", "Language", "State")
	for _, lang := range translations {
		drift := lock.Compare(lockfile.SectionTranslations, lang, root.Path("po", lang, rf.Name+".po"))
		state := drift.String()
		switch drift {
		case lockfile.Modified, lockfile.Added:
			state = color.YellowString(state)
		case lockfile.Removed:
			state = color.RedString(state)
		}
		fmt.Fprintf(w, "%-14s %-26s %s\n", lang, langmeta.Resolve(lang).English, state)
	}
	fmt.Fprintln(w)

	if len(handbooks) > 0 {
		fmt.Fprintf(w, "  Handbooks:  %s\n\n", strings.Join(handbooks, ", "))
	}
}

// lockAge renders when the lock file was last written, e.g. " (3 hours ago)".
func lockAge(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " (" + humanize.Time(info.ModTime()) + ")"
}

func reportDir(root workspace.Root, rf *config.ReleaseFile) string {
	if rf.Stats.ReportDir != "" {
		return rf.Stats.ReportDir
	}
	return root.Parent()
}
