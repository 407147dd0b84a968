package remote

import (
	"fmt"

	"github.com/minios-linux/relkit/command"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Repository string
	// Runner drives the svn client.
	Runner command.Runner
	// Git backend only.
	Branch     string
	CacheDir   string
	Shallow    bool
	ProjectDir string
}

// New returns the backend named by o.Backend. An empty name means svn.
func New(o Options) (Repository, error) {
	switch o.Backend {
	case BackendSVN, "":
		if o.Runner == nil {
			o.Runner = command.Exec{}
		}
		return &SVN{Repository: o.Repository, Runner: o.Runner}, nil
	case BackendGit:
		if o.CacheDir == "" {
			return nil, fmt.Errorf("git backend needs a cache directory")
		}
		return &Git{
			URL:        o.Repository,
			Branch:     o.Branch,
			CacheDir:   o.CacheDir,
			Shallow:    o.Shallow,
			ProjectDir: o.ProjectDir,
		}, nil
	case BackendDir:
		return &Dir{Root: o.Repository}, nil
	}
	return nil, fmt.Errorf("unknown backend %q (valid: svn, git, dir)", o.Backend)
}
