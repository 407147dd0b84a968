// Package catalog reads the list of languages the l10n repository knows.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/minios-linux/relkit/remote"
)

// ManifestPath is the repository-relative path of the language list.
const ManifestPath = "l10n-kde4/subdirs"

// ErrUnavailable means no language list could be obtained. A release
// cannot proceed without one.
var ErrUnavailable = errors.New("language catalog unavailable")

// Fetch reads the manifest at path and returns one code per non-blank line,
// in manifest order.
func Fetch(ctx context.Context, f remote.Fetcher, path string) ([]string, error) {
	data, err := f.Cat(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, path, err)
	}
	codes := Parse(string(data))
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnavailable, path)
	}
	return codes, nil
}

// Parse splits manifest text into language codes.
func Parse(text string) []string {
	var codes []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		codes = append(codes, line)
	}
	return codes
}

// Filter drops every code matching one of the glob patterns (e.g. "x-test",
// "*@*"). Order is preserved. A malformed pattern is an error.
func Filter(codes, patterns []string) ([]string, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid language pattern %q", p)
		}
	}
	if len(patterns) == 0 {
		return codes, nil
	}

	kept := make([]string, 0, len(codes))
	for _, code := range codes {
		if !matchAny(patterns, code) {
			kept = append(kept, code)
		}
	}
	return kept, nil
}

func matchAny(patterns []string, code string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, code); ok {
			return true
		}
	}
	return false
}
