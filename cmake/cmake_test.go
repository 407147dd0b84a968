package cmake

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestWriteTranslationStanza(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, TranslationStanza); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "file(GLOB _po_files *.po)\n" +
		"GETTEXT_PROCESS_PO_FILES(${CURRENT_LANG} ALL INSTALL_DESTINATION ${LOCALE_INSTALL_DIR} ${_po_files} )\n"
	data, _ := os.ReadFile(filepath.Join(dir, FileName))
	if string(data) != want {
		t.Fatalf("descriptor = %q, want %q", data, want)
	}
}

func TestHandbookStanza(t *testing.T) {
	got := HandbookStanza("amarok")
	want := "kde4_create_handbook(index.docbook INSTALL_DESTINATION ${HTML_INSTALL_DIR}/${CURRENT_LANG}/ SUBDIR amarok )"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("HandbookStanza() = %q, want %q", got, want)
	}
}

func TestBuildAggregateListsEveryEntryOnce(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "po")
	for _, lang := range []string{"de", "pt_BR", "sr@latin"} {
		if err := os.MkdirAll(filepath.Join(parent, lang), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	// A stale descriptor must not list itself.
	if err := os.WriteFile(filepath.Join(parent, FileName), []byte("old\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	written, err := BuildAggregate(3, parent, GettextGuard)
	if err != nil || !written {
		t.Fatalf("BuildAggregate() = %v, %v", written, err)
	}

	lines := readLines(t, filepath.Join(parent, FileName))
	if got := lines[:len(GettextGuard)]; strings.Join(got, "\n") != strings.Join(GettextGuard, "\n") {
		t.Fatalf("header = %q", got)
	}
	subdirs := append([]string(nil), lines[len(GettextGuard):]...)
	sort.Strings(subdirs)
	want := []string{"add_subdirectory(de)", "add_subdirectory(pt_BR)", "add_subdirectory(sr@latin)"}
	if strings.Join(subdirs, "|") != strings.Join(want, "|") {
		t.Fatalf("subdirectory lines = %q, want %q", subdirs, want)
	}
}

func TestBuildAggregateRemovesEmptyParent(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "po")
	if err := os.MkdirAll(parent, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	written, err := BuildAggregate(0, parent, GettextGuard)
	if err != nil || written {
		t.Fatalf("BuildAggregate() = %v, %v", written, err)
	}
	if _, err := os.Stat(parent); !os.IsNotExist(err) {
		t.Fatalf("parent should be gone, stat err = %v", err)
	}
}

func TestEnableSubdirectoryEmitsMacroOnce(t *testing.T) {
	root := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(root, []byte("project(amarok)"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := EnableSubdirectory(root, "po"); err != nil {
		t.Fatalf("EnableSubdirectory(po): %v", err)
	}
	if err := EnableSubdirectory(root, "doc"); err != nil {
		t.Fatalf("EnableSubdirectory(doc): %v", err)
	}

	got := readLines(t, root)
	want := []string{
		"project(amarok)",
		"include(MacroOptionalAddSubdirectory)",
		"macro_optional_add_subdirectory( po )",
		"macro_optional_add_subdirectory( doc )",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("root descriptor = %q, want %q", got, want)
	}
}

func TestEnableSubdirectoryDocOnly(t *testing.T) {
	root := filepath.Join(t.TempDir(), FileName)
	if err := EnableSubdirectory(root, "doc"); err != nil {
		t.Fatalf("EnableSubdirectory: %v", err)
	}
	got := readLines(t, root)
	if len(got) != 2 || got[0] != enableLine || got[1] != "macro_optional_add_subdirectory( doc )" {
		t.Fatalf("root descriptor = %q", got)
	}
}
