// Package cmake writes the CMakeLists.txt stanzas that hook fetched
// translations and handbooks into a KDE component's build.
package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/relkit/workspace"
)

// FileName is the build descriptor name.
const FileName = "CMakeLists.txt"

const enableLine = "include(MacroOptionalAddSubdirectory)"

// TranslationStanza processes every .po file of one language directory.
var TranslationStanza = []string{
	"file(GLOB _po_files *.po)",
	"GETTEXT_PROCESS_PO_FILES(${CURRENT_LANG} ALL INSTALL_DESTINATION ${LOCALE_INSTALL_DIR} ${_po_files} )",
}

// GettextGuard heads po/CMakeLists.txt.
var GettextGuard = []string{
	"find_package(Gettext REQUIRED)",
	"if (NOT GETTEXT_MSGMERGE_EXECUTABLE)",
	`MESSAGE(FATAL_ERROR "Please install msgmerge binary")`,
	"endif (NOT GETTEXT_MSGMERGE_EXECUTABLE)",
	"if (NOT GETTEXT_MSGFMT_EXECUTABLE)",
	`MESSAGE(FATAL_ERROR "Please install msgfmt binary")`,
	"endif (NOT GETTEXT_MSGFMT_EXECUTABLE)",
}

// HandbookStanza registers index.docbook of one documentation directory.
func HandbookStanza(name string) []string {
	return []string{
		fmt.Sprintf("kde4_create_handbook(index.docbook INSTALL_DESTINATION ${HTML_INSTALL_DIR}/${CURRENT_LANG}/ SUBDIR %s )", name),
	}
}

// Write creates or truncates dir/CMakeLists.txt with lines.
func Write(dir string, lines []string) error {
	path := filepath.Join(dir, FileName)
	return workspace.Wrap("write", path, os.WriteFile(path, []byte(join(lines)), 0644))
}

// BuildAggregate writes the descriptor of parentDir that includes each of
// its entries. With no populated languages the whole parentDir is removed
// instead and false is returned.
//
// Entries are listed in directory order, not sorted.
func BuildAggregate(populated int, parentDir string, header []string) (bool, error) {
	if populated == 0 {
		return false, workspace.Wrap("remove", parentDir, os.RemoveAll(parentDir))
	}

	entries, err := workspace.Entries(parentDir, FileName)
	if err != nil {
		return false, err
	}

	lines := append([]string(nil), header...)
	for _, name := range entries {
		lines = append(lines, fmt.Sprintf("add_subdirectory(%s)", name))
	}
	if err := Write(parentDir, lines); err != nil {
		return false, err
	}
	return true, nil
}

// EnableSubdirectory appends the optional inclusion of subdir to the root
// descriptor. The macro include line is written only if the descriptor does
// not have it yet, so po and doc can be enabled in either order.
func EnableSubdirectory(rootDescriptor, subdir string) error {
	existing, err := os.ReadFile(rootDescriptor)
	if err != nil && !os.IsNotExist(err) {
		return workspace.Wrap("read", rootDescriptor, err)
	}

	var lines []string
	if !hasLine(string(existing), enableLine) {
		lines = append(lines, enableLine)
	}
	lines = append(lines, fmt.Sprintf("macro_optional_add_subdirectory( %s )", subdir))

	f, err := os.OpenFile(rootDescriptor, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return workspace.Wrap("open", rootDescriptor, err)
	}
	prefix := ""
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + join(lines)); err != nil {
		f.Close()
		return workspace.Wrap("append", rootDescriptor, err)
	}
	return workspace.Wrap("close", rootDescriptor, f.Close())
}

func hasLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
