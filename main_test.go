package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/relkit/config"
	"github.com/minios-linux/relkit/i18n"
	"github.com/minios-linux/relkit/lockfile"
	"github.com/minios-linux/relkit/workspace"
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

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

// newMirror lays out a local l10n tree the dir backend can serve.
func newMirror(t *testing.T) string {
	t.Helper()
	mirror := filepath.Join(t.TempDir(), "trunk")
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "subdirs"), "de\nfr\nnl\nx-test\n")
	for lang, po := range map[string]string{
		"de":     "msgid \"Play\"\nmsgstr \"Abspielen\"\n\nmsgid \"Stop\"\nmsgstr \"\"\n",
		"fr":     "msgid \"Play\"\nmsgstr \"Lire\"\n\nmsgid \"Stop\"\nmsgstr \"Arrêter\"\n",
		"x-test": "msgid \"Play\"\nmsgstr \"xxPlayxx\"\n",
	} {
		writeFile(t, filepath.Join(mirror, "l10n-kde4", lang, "messages", "extragear-multimedia", "amarok.po"), po)
	}
	writeFile(t, filepath.Join(mirror, "extragear", "multimedia", "doc", "amarok", "index.docbook"), "<book/>\n")
	writeFile(t, filepath.Join(mirror, "l10n-kde4", "de", "docs", "extragear-multimedia", "amarok", "index.docbook"), "<book lang=\"de\"/>\n")
	return mirror
}

func newSource(t *testing.T, mirror string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "amarok-2.0")
	writeFile(t, filepath.Join(src, "CMakeLists.txt"), "project(amarok)\nadd_subdirectory(src)\n")
	writeFile(t, filepath.Join(src, config.ReleaseFileName),
		"module: extragear\nsection: multimedia\nbackend: dir\nrepository: "+mirror+"\n"+
			"skip_languages: [x-*]\nstats:\n  counter: builtin\n")
	return src
}

func TestResolveReleaseFlagsOverrideFile(t *testing.T) {
	src := newSource(t, "/srv/l10n")
	root, err := workspace.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rf, err := resolveRelease(root, &releaseFlags{releaseVersion: "2.1", section: "audio"})
	if err != nil {
		t.Fatalf("resolveRelease: %v", err)
	}
	if rf.Name != "amarok" || rf.Product != "amarok" {
		t.Fatalf("name = %q product = %q, want detected amarok", rf.Name, rf.Product)
	}
	if rf.Version != "2.1" || rf.Section != "audio" || rf.Module != "extragear" {
		t.Fatalf("resolved = %+v", rf)
	}
	if rf.Backend != config.BackendDir || rf.Repository != "/srv/l10n" {
		t.Fatalf("backend = %q %q", rf.Backend, rf.Repository)
	}

	if _, err := resolveRelease(root, &releaseFlags{backend: "cvs"}); err == nil {
		t.Fatal("expected error for unknown backend flag")
	}
}

func TestNewSessionNeedsVersion(t *testing.T) {
	src := filepath.Join(t.TempDir(), "amarok")
	writeFile(t, filepath.Join(src, "CMakeLists.txt"), "project(amarok)\n")
	if _, err := newSession(src, &releaseFlags{quiet: true}); err == nil {
		t.Fatal("expected error when no version can be determined")
	}
}

func TestRelease(t *testing.T) {
	mirror := newMirror(t)
	src := newSource(t, mirror)

	s, err := newSession(src, &releaseFlags{quiet: true})
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if err := runRelease(context.Background(), s); err != nil {
		t.Fatalf("runRelease: %v", err)
	}

	for _, path := range []string{
		"po/de/amarok.po",
		"po/de/CMakeLists.txt",
		"po/fr/amarok.po",
		"po/CMakeLists.txt",
		"doc/en_US/index.docbook",
		"doc/en_US/CMakeLists.txt",
		"doc/de/index.docbook",
		"doc/CMakeLists.txt",
		lockfile.LockFileName,
	} {
		if !workspace.IsFile(filepath.Join(src, path)) {
			t.Fatalf("%s missing after release", path)
		}
	}
	for _, path := range []string{"po/nl", "po/x-test", "doc/fr", workspace.StagingName} {
		if workspace.Exists(filepath.Join(src, path)) {
			t.Fatalf("%s should not exist", path)
		}
	}

	rootCMake := readFile(t, filepath.Join(src, "CMakeLists.txt"))
	if n := strings.Count(rootCMake, "include(MacroOptionalAddSubdirectory)"); n != 1 {
		t.Fatalf("include line appears %d times:\n%s", n, rootCMake)
	}
	for _, want := range []string{"macro_optional_add_subdirectory( po )", "macro_optional_add_subdirectory( doc )"} {
		if !strings.Contains(rootCMake, want) {
			t.Fatalf("root CMakeLists.txt lacks %q:\n%s", want, rootCMake)
		}
	}

	report := readFile(t, filepath.Join(filepath.Dir(src), "amarok-l10n-2.0.html"))
	if !strings.Contains(report, "Statistics of amarok 2.0 translations") {
		t.Fatalf("unexpected report title:\n%s", report)
	}
	if !strings.Contains(report, ">50 %<") || !strings.Contains(report, ">100 %<") {
		t.Fatalf("report lacks per-language percentages:\n%s", report)
	}

	lock, err := lockfile.Load(src)
	if err != nil {
		t.Fatalf("lockfile.Load: %v", err)
	}
	if got := lock.Languages(lockfile.SectionTranslations); !reflect.DeepEqual(got, []string{"de", "fr"}) {
		t.Fatalf("locked translations = %v, want [de fr]", got)
	}
	if got := lock.Languages(lockfile.SectionDocumentation); !reflect.DeepEqual(got, []string{"de"}) {
		t.Fatalf("locked handbooks = %v, want [de]", got)
	}
	if lock.Release != "2.0" {
		t.Fatalf("locked release = %q, want 2.0", lock.Release)
	}

	// status reports catalogs edited after the fetch
	writeFile(t, filepath.Join(src, "po", "fr", "amarok.po"), "msgid \"Play\"\nmsgstr \"Jouer\"\n")
	var buf bytes.Buffer
	printStatus(&buf, s.root, s.release, lock)
	out := buf.String()
	for _, want := range []string{"German", "unchanged", "French", "modified", "Handbooks:  de"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output lacks %q:\n%s", want, out)
		}
	}
}

func TestReleaseWithoutHandbooks(t *testing.T) {
	mirror := newMirror(t)
	src := newSource(t, mirror)
	writeFile(t, filepath.Join(src, config.ReleaseFileName),
		"module: extragear\nsection: multimedia\nbackend: dir\nrepository: "+mirror+"\ndocumentation: false\n"+
			"stats:\n  counter: builtin\n")

	s, err := newSession(src, &releaseFlags{quiet: true, reportDir: t.TempDir()})
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if err := runRelease(context.Background(), s); err != nil {
		t.Fatalf("runRelease: %v", err)
	}
	if workspace.Exists(filepath.Join(src, "doc")) {
		t.Fatal("doc/ created although handbooks are disabled")
	}
	// x-test is not skipped here
	if !workspace.IsFile(filepath.Join(src, "po", "x-test", "amarok.po")) {
		t.Fatal("po/x-test missing")
	}
	if !workspace.IsFile(filepath.Join(s.release.Stats.ReportDir, "amarok-l10n-2.0.html")) {
		t.Fatal("report not written to --report-dir")
	}
}

func TestTranslationsNeedsComponent(t *testing.T) {
	mirror := newMirror(t)
	src := filepath.Join(t.TempDir(), "amarok-2.0")
	writeFile(t, filepath.Join(src, "CMakeLists.txt"), "project(amarok)\n")

	s, err := newSession(src, &releaseFlags{quiet: true, backend: "dir", repository: mirror})
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	err = runTranslations(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "module") {
		t.Fatalf("runTranslations() = %v, want missing module error", err)
	}
	if workspace.Exists(filepath.Join(src, "po")) {
		t.Fatal("po/ created before the component was known")
	}
}

func TestStatusWithoutLockListsTree(t *testing.T) {
	src := newSource(t, "/srv/l10n")
	writeFile(t, filepath.Join(src, "po", "de", "amarok.po"), "")
	writeFile(t, filepath.Join(src, "po", "fr", "amarok.po"), "")
	writeFile(t, filepath.Join(src, "doc", "en_US", "index.docbook"), "")
	writeFile(t, filepath.Join(src, "doc", "de", "index.docbook"), "")

	root, err := workspace.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rf, err := resolveRelease(root, &releaseFlags{})
	if err != nil {
		t.Fatalf("resolveRelease: %v", err)
	}
	lock, err := lockfile.Load(src)
	if err != nil {
		t.Fatalf("lockfile.Load: %v", err)
	}

	var buf bytes.Buffer
	printStatus(&buf, root, rf, lock)
	out := buf.String()
	for _, want := range []string{"On disk:    de, fr", "Handbooks:  en_US de"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output lacks %q:\n%s", want, out)
		}
	}
}

func TestLanguageCount(t *testing.T) {
	i18n.Init("en")
	if got := languageCount(1); got != "1 language" {
		t.Fatalf("languageCount(1) = %q", got)
	}
	if got := languageCount(12); got != "12 languages" {
		t.Fatalf("languageCount(12) = %q", got)
	}
}

func TestBarProgressWithoutStart(t *testing.T) {
	var p barProgress
	p.Step("processing po/de")
	p.Finish()
}
