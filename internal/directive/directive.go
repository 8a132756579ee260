package directive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnolang/parseit/scanner"
)

const (
	ignorePrefix     = "parseit:ignore"
	ignoreFilePrefix = "parseit:ignore-file"
)

// Manager manages ignore scopes and checks if a line is ignored.
type Manager struct {
	// scopes maps filename to a slice of ignore scopes.
	scopes map[string][]ignoreScope
}

// ignoreScope is an inclusive line range where the listed rules are ignored.
// An empty rule set ignores every rule.
type ignoreScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{scopes: make(map[string][]ignoreScope)}
}

// Parse collects the ignore directives of source into a new Manager.
func Parse(filename, source string) *Manager {
	m := NewManager()
	m.Add(filename, source)
	return m
}

// Add collects the ignore directives of one more file.
//
// `parseit:ignore` covers its own line and the next one. A rule list after a
// colon narrows it: `parseit:ignore:rule1,rule2`. `parseit:ignore-file`
// covers the whole file when no content line precedes it.
func (m *Manager) Add(filename, source string) {
	lines := splitLines(source)
	seenContent := false
	for i, line := range lines {
		lineNo := i + 1
		ns, whole, err := parseLine(line)
		if err != nil {
			// ignore invalid directives; the line still counts as content
			seenContent = seenContent || strings.TrimSpace(line) != ""
			continue
		}
		switch {
		case whole && !seenContent:
			ns.start, ns.end = 1, len(lines)
		case whole:
			seenContent = true
			continue
		default:
			ns.start, ns.end = lineNo, lineNo+1
		}
		m.scopes[filename] = append(m.scopes[filename], ns)
	}
}

// IsIgnored reports whether rule is ignored on the 1-based line of filename.
func (m *Manager) IsIgnored(filename string, line int, rule string) bool {
	scopes, exists := m.scopes[filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[rule]; exists {
			return true
		}
	}
	return false
}

var errNoDirective = errors.New("no directive")

// parseLine finds a directive on one line. whole reports an ignore-file
// directive.
func parseLine(line string) (ignoreScope, bool, error) {
	var ns ignoreScope
	s := scanner.New(line)
	r := s.ReadFrom(ignoreFilePrefix, ignorePrefix)
	if r.Failed() {
		return ns, false, errNoDirective
	}
	whole := r.Skipped == ignoreFilePrefix

	// the directive ends at the first blank; anything after is a remark
	rest := s.ReadUntil(" ", "\t")
	if rest.Failed() {
		rest = s.ReadToEnd()
	}
	text := rest.Text

	if len(text) > 0 && text[0] != ':' {
		return ns, false, fmt.Errorf("invalid directive %q", r.Skipped+text)
	}
	if len(text) > 0 {
		text = strings.TrimPrefix(text, ":")
		if text == "" {
			return ns, false, fmt.Errorf("invalid directive: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(text)
	return ns, whole, nil
}

// parseIgnoreRuleNames parses the rule list of a directive.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// splitLines splits source on '\n' using the scanner. A trailing newline
// does not start another line.
func splitLines(source string) []string {
	var lines []string
	s := scanner.New(source)
	for !s.EOF() {
		r := s.ReadUntil("\n")
		if r.Failed() {
			lines = append(lines, s.ReadToEnd().Text)
			break
		}
		lines = append(lines, strings.TrimSuffix(r.Text, "\r"))
	}
	return lines
}
