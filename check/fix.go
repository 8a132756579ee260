package check

import (
	"fmt"
	"os"
	"sort"

	tt "github.com/gnolang/parseit/internal/types"
)

// ApplySuggestions replaces the span of every match that carries a
// suggestion and returns the new source with the matches that were applied.
// A match overlapping an earlier applied one is skipped.
func ApplySuggestions(source []byte, matches []tt.Match) ([]byte, []tt.Match) {
	candidates := make([]tt.Match, 0, len(matches))
	for _, m := range matches {
		if m.Suggestion != "" && m.Start.Offset <= m.End.Offset && m.End.Offset <= len(source) {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start.Offset < candidates[j].Start.Offset
	})

	var (
		out     []byte
		applied []tt.Match
		last    int
	)
	for _, m := range candidates {
		if m.Start.Offset < last {
			continue
		}
		out = append(out, source[last:m.Start.Offset]...)
		out = append(out, m.Suggestion...)
		last = m.End.Offset
		applied = append(applied, m)
	}
	out = append(out, source[last:]...)
	return out, applied
}

// FixFile runs engine on path and writes the suggested rewrites back to the
// file. With dryRun the file is left untouched. It returns the applied
// matches.
func FixFile(engine Engine, path string, dryRun bool) ([]tt.Match, error) {
	matches, err := engine.Run(path)
	if err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	fixed, applied := ApplySuggestions(source, matches)
	if len(applied) == 0 || dryRun {
		return applied, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, fixed, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", path, err)
	}
	return applied, nil
}
