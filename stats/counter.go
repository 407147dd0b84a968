package stats

import (
	"context"
	"fmt"
	"os"

	"github.com/minios-linux/relkit/command"
	"github.com/minios-linux/relkit/pofile"
)

// Counter names accepted by NewCounter.
const (
	CounterMsgfmt  = "msgfmt"
	CounterBuiltin = "builtin"
)

// Counter produces message counts for one .po file.
type Counter interface {
	Count(ctx context.Context, poPath string) (Counts, error)
}

// Msgfmt counts with msgfmt --statistics. The runner should force the C
// locale so the labels are English.
type Msgfmt struct {
	Runner command.Runner
}

// Count runs msgfmt and parses what it prints.
func (m Msgfmt) Count(ctx context.Context, poPath string) (Counts, error) {
	out, err := m.Runner.Run(ctx, "msgfmt", "--statistics", "-o", os.DevNull, poPath)
	if err != nil {
		return Counts{}, err
	}
	return ParseStatistics(out.Combined()), nil
}

// Builtin counts by parsing the catalog in process.
type Builtin struct{}

// Count parses poPath.
func (Builtin) Count(ctx context.Context, poPath string) (Counts, error) {
	f, err := pofile.ParseFile(poPath)
	if err != nil {
		return Counts{}, err
	}
	s := f.Stats()
	return Counts{Translated: s.Translated, Fuzzy: s.Fuzzy, Untranslated: s.Untranslated}, nil
}

// NewCounter returns the counter called name.
func NewCounter(name string, runner command.Runner) (Counter, error) {
	switch name {
	case CounterMsgfmt, "":
		return Msgfmt{Runner: runner}, nil
	case CounterBuiltin:
		return Builtin{}, nil
	}
	return nil, fmt.Errorf("unknown statistics counter %q (valid: msgfmt, builtin)", name)
}
