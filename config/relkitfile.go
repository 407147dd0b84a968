// Package config loads .relkit.yaml, the per-component release settings.
//
// Every value may be overridden on the command line; the file only
// supplies defaults so a release manager can run relkit without flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/stats"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// ReleaseFile is the top-level .relkit.yaml structure.
type ReleaseFile struct {
	// Name is the component name, used for .po files and the handbook subdir.
	Name string `yaml:"name,omitempty"`
	// Product is the display name in the report title (default Name).
	Product string `yaml:"product,omitempty"`
	// Module is the l10n module the component lives in, e.g. "extragear".
	Module string `yaml:"module,omitempty"`
	// Section is the module section, e.g. "multimedia".
	Section string `yaml:"section,omitempty"`
	// Version is the release version used in the report file name.
	Version string `yaml:"version,omitempty"`

	// Backend selects where translations come from: svn, git or dir.
	Backend string `yaml:"backend,omitempty"`
	// Repository is the svn URL, git URL or local directory of the l10n tree.
	Repository string `yaml:"repository,omitempty"`
	// Git holds options only used by the git backend.
	Git GitOptions `yaml:"git,omitempty"`

	// SkipLanguages are glob patterns of language codes never fetched.
	SkipLanguages []string `yaml:"skip_languages,omitempty"`
	// Documentation disables handbook fetching when set to false.
	Documentation *bool `yaml:"documentation,omitempty"`

	Stats StatsOptions `yaml:"stats,omitempty"`
}

// GitOptions configures the git backend.
type GitOptions struct {
	Branch string `yaml:"branch,omitempty"`
	// Cache is where the l10n mirror is cloned, relative to the source root
	// (default: DefaultGitCache in the user cache directory).
	Cache   string `yaml:"cache,omitempty"`
	Shallow *bool  `yaml:"shallow,omitempty"`
}

// StatsOptions configures the coverage report.
type StatsOptions struct {
	// Counter is msgfmt or builtin.
	Counter string `yaml:"counter,omitempty"`
	// ReportDir receives the HTML report (default: parent of the source root).
	ReportDir string `yaml:"report_dir,omitempty"`
}

// Backend names.
const (
	BackendSVN = remote.BackendSVN
	BackendGit = remote.BackendGit
	BackendDir = remote.BackendDir
)

// DefaultRepository is the anonymous KDE svn trunk.
const DefaultRepository = "svn://anonsvn.kde.org/home/kde/trunk"

// DefaultGitCache is the clone location for the git backend, below the
// user cache directory. The clone never goes inside the source root, which
// is what gets packed.
const DefaultGitCache = "relkit/l10n-mirror"

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// ReleaseFileName is the default config file name.
const ReleaseFileName = ".relkit.yaml"

// LoadReleaseFile resolves the release settings of the tree at rootDir:
// .relkit.yaml if present, then override (command-line flags), then what
// Detect finds, then defaults. The result is validated.
func LoadReleaseFile(rootDir string, override func(*ReleaseFile)) (*ReleaseFile, error) {
	rf, err := ReadReleaseFile(rootDir)
	if err != nil {
		return nil, err
	}
	if rf == nil {
		rf = &ReleaseFile{}
	}
	if override != nil {
		override(rf)
	}

	rf.Merge(Detect(rootDir))
	rf.ApplyDefaults()
	if err := rf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(rootDir, ReleaseFileName), err)
	}
	return rf, nil
}

// ReadReleaseFile parses .relkit.yaml without applying defaults, so that
// command-line overrides can be merged in first. Returns nil if no
// .relkit.yaml exists.
func ReadReleaseFile(rootDir string) (*ReleaseFile, error) {
	path := filepath.Join(rootDir, ReleaseFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rf ReleaseFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &rf, nil
}

// ApplyDefaults fills every unset value that has a default.
func (rf *ReleaseFile) ApplyDefaults() {
	if rf.Backend == "" {
		rf.Backend = BackendSVN
	}
	if rf.Repository == "" && rf.Backend == BackendSVN {
		rf.Repository = DefaultRepository
	}
	if rf.Product == "" {
		rf.Product = rf.Name
	}
	if rf.Git.Shallow == nil {
		shallow := true
		rf.Git.Shallow = &shallow
	}
	if rf.Stats.Counter == "" {
		rf.Stats.Counter = stats.CounterMsgfmt
	}
}

// Validate checks values that cannot be fixed by defaults.
func (rf *ReleaseFile) Validate() error {
	switch rf.Backend {
	case BackendSVN, BackendGit, BackendDir:
	default:
		return fmt.Errorf("unknown backend %q (valid: svn, git, dir)", rf.Backend)
	}
	if rf.Backend != BackendSVN && rf.Repository == "" {
		return fmt.Errorf("backend %q needs a repository", rf.Backend)
	}
	switch rf.Stats.Counter {
	case stats.CounterMsgfmt, stats.CounterBuiltin:
	default:
		return fmt.Errorf("unknown statistics counter %q (valid: msgfmt, builtin)", rf.Stats.Counter)
	}
	for _, p := range rf.SkipLanguages {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("skip_languages: invalid pattern %q", p)
		}
	}
	return nil
}

// RequireComponent reports which of the fields needed to fetch artifacts
// are missing.
func (rf *ReleaseFile) RequireComponent() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", rf.Name},
		{"module", rf.Module},
		{"section", rf.Section},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %v (set them in %s or pass them as flags)", missing, ReleaseFileName)
	}
	return nil
}

// DocumentationEnabled reports whether handbooks should be fetched.
func (rf *ReleaseFile) DocumentationEnabled() bool {
	return rf.Documentation == nil || *rf.Documentation
}

// GitCacheDir returns the absolute clone location for the git backend. A
// relative git.cache is taken relative to root. Without one the clone lives
// in the user cache directory, or next to root when there is none.
func (rf *ReleaseFile) GitCacheDir(root string) string {
	switch {
	case rf.Git.Cache == "":
		if base, err := os.UserCacheDir(); err == nil {
			return filepath.Join(base, filepath.FromSlash(DefaultGitCache))
		}
		return filepath.Join(filepath.Dir(root), ".relkit-l10n-mirror")
	case filepath.IsAbs(rf.Git.Cache):
		return rf.Git.Cache
	}
	return filepath.Join(root, rf.Git.Cache)
}
