package template

import (
	"fmt"
	"strings"

	"github.com/gnolang/parseit/scanner"
)

// Replacer rewrites every match of a template with a rewrite template.
type Replacer struct {
	pattern *Template
	rewrite *Template
}

// NewReplacer pairs pattern with rewrite. The rewrite may not use more
// wildcards than the pattern captures.
func NewReplacer(pattern, rewrite *Template) (*Replacer, error) {
	if rewrite.Wildcards() > pattern.Wildcards() {
		return nil, fmt.Errorf("rewrite %q uses %d wildcards, pattern %q has %d",
			rewrite, rewrite.Wildcards(), pattern, pattern.Wildcards())
	}
	return &Replacer{pattern: pattern, rewrite: rewrite}, nil
}

// Replace renders the rewrite for one match.
func (r *Replacer) Replace(m Match) (string, error) {
	return r.rewrite.Fill(m.Captures)
}

// ReplaceAll replaces all non-overlapping matches in subject and reports
// how many were replaced. Scanning stops at the first empty match.
func (r *Replacer) ReplaceAll(subject string) (string, int) {
	var b strings.Builder
	s := scanner.New(subject)
	last, count := 0, 0
	for {
		m, ok := r.pattern.Match(s)
		if !ok || m.Len() == 0 {
			break
		}
		filled, err := r.Replace(m)
		if err != nil {
			break
		}
		b.WriteString(subject[last:m.Start])
		b.WriteString(filled)
		last = m.End
		count++
		s.Seek(m.End)
	}
	b.WriteString(subject[last:])
	return b.String(), count
}

// ReplaceAll compiles pattern and rewrite with the same wildcard and
// replaces every match in subject.
func ReplaceAll(pattern, rewrite, wildcard, subject string) (string, error) {
	p, err := Compile(pattern, wildcard)
	if err != nil {
		return "", err
	}
	var rw *Template
	if rewrite == "" {
		rw = &Template{wildcard: wildcard}
	} else if rw, err = Compile(rewrite, wildcard); err != nil {
		return "", err
	}
	r, err := NewReplacer(p, rw)
	if err != nil {
		return "", err
	}
	out, _ := r.ReplaceAll(subject)
	return out, nil
}
