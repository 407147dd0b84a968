// Package lockfile implements l10n.lock, a record of the last relocation
// run: which languages were populated and the MD5 of every relocated
// translation catalog. relkit status compares it against the tree to show
// what changed since the tarball was prepared.
//
// The lock file is stored in the source root next to CMakeLists.txt.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "l10n.lock"

// Version is the lock file format version.
const Version = 1

// Sections of the lock file.
const (
	SectionTranslations  = "po"
	SectionDocumentation = "doc"
)

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the l10n.lock file structure.
type LockFile struct {
	Version       int                          `yaml:"version"`
	Release       string                       `yaml:"release,omitempty"`
	Translations  []string                     `yaml:"translations,omitempty"`
	Documentation []string                     `yaml:"documentation,omitempty"`
	Checksums     map[string]map[string]string `yaml:"checksums"` // section -> lang -> md5

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path
	if lf.Version > Version {
		return nil, fmt.Errorf("%s: unsupported version %d", path, lf.Version)
	}

	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// HashFile computes the MD5 hex digest of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Record stores the checksum of lang's file in section. Files that cannot
// be read are recorded without a checksum.
func (lf *LockFile) Record(section, lang, path string) error {
	sum, err := HashFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.Checksums[section] == nil {
		lf.Checksums[section] = make(map[string]string)
	}
	lf.Checksums[section][lang] = sum
	return nil
}

// Drift describes how a language differs from the recorded state.
type Drift int

const (
	Unchanged Drift = iota
	Added
	Modified
	Removed
)

func (d Drift) String() string {
	switch d {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	}
	return "unchanged"
}

// Compare reports the state of lang's file against its recorded checksum.
func (lf *LockFile) Compare(section, lang, path string) Drift {
	lf.mu.Lock()
	old, recorded := lf.Checksums[section][lang]
	lf.mu.Unlock()

	sum, err := HashFile(path)
	switch {
	case err != nil && recorded:
		return Removed
	case err != nil:
		return Unchanged
	case !recorded:
		return Added
	case old != sum:
		return Modified
	}
	return Unchanged
}

// Reset clears everything recorded for the given release.
func (lf *LockFile) Reset(release string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Release = release
	lf.Translations = nil
	lf.Documentation = nil
	lf.Checksums = make(map[string]map[string]string)
}

// SetTranslations stores the populated translation languages, sorted, and
// forgets their checksums until they are recorded again.
func (lf *LockFile) SetTranslations(langs []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Translations = sorted(langs)
	delete(lf.Checksums, SectionTranslations)
}

// SetDocumentation is SetTranslations for handbooks.
func (lf *LockFile) SetDocumentation(langs []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Documentation = sorted(langs)
	delete(lf.Checksums, SectionDocumentation)
}

// Languages returns the recorded languages of section, sorted.
func (lf *LockFile) Languages(section string) []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	switch section {
	case SectionTranslations:
		return sorted(lf.Translations)
	case SectionDocumentation:
		return sorted(lf.Documentation)
	}
	return nil
}

func sorted(langs []string) []string {
	out := append([]string(nil), langs...)
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// Human-readable summary
// ---------------------------------------------------------------------------

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if len(lf.Translations) == 0 && len(lf.Documentation) == 0 {
		return "empty"
	}

	var parts []string
	if n := len(lf.Translations); n > 0 {
		parts = append(parts, fmt.Sprintf("%d translations", n))
	}
	if n := len(lf.Documentation); n > 0 {
		parts = append(parts, fmt.Sprintf("%d handbooks", n))
	}
	release := lf.Release
	if release == "" {
		release = "unversioned"
	}
	return fmt.Sprintf("%s: %s", release, strings.Join(parts, ", "))
}
