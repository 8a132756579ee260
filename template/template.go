package template

import (
	"errors"
	"fmt"

	"github.com/gnolang/parseit/scanner"
)

// ErrEmptyTemplate is returned when compiling a template with no content.
var ErrEmptyTemplate = errors.New("empty template")

// Template is a compiled wildcard template.
type Template struct {
	source    string
	wildcard  string
	nodes     []Node
	wildcards int
}

// Compile lexes and parses source. Every occurrence of wildcard stands for
// arbitrary text; `\` escapes the next byte.
func Compile(source, wildcard string) (*Template, error) {
	if source == "" {
		return nil, ErrEmptyTemplate
	}
	tokens, err := Lex(source, wildcard)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	nodes, err := Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}

	t := &Template{source: source, wildcard: wildcard, nodes: nodes}
	for _, n := range nodes {
		if _, ok := n.(WildcardNode); ok {
			t.wildcards++
		}
	}
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source, wildcard string) *Template {
	t, err := Compile(source, wildcard)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) String() string { return t.source }

// Wildcard returns the wildcard the template was compiled with.
func (t *Template) Wildcard() string { return t.wildcard }

// Nodes returns the parsed nodes.
func (t *Template) Nodes() []Node { return t.nodes }

// Wildcards returns the number of wildcards in the template.
func (t *Template) Wildcards() int { return t.wildcards }

// Match describes where a template matched, as byte offsets into the
// scanner subject, and the text each wildcard covered.
type Match struct {
	Start    int
	End      int
	Captures []string
}

// Len returns the length of the matched span.
func (m Match) Len() int { return m.End - m.Start }

// Match tries the template against the unread text of s. Literals are
// located in order with ReadUntil; a wildcard captures the text up to the
// next literal, or the rest of the subject when it ends the template. Of
// several adjacent wildcards only the first captures text.
//
// The cursor of s is left unchanged.
func (t *Template) Match(s *scanner.Scanner) (Match, bool) {
	mark := s.Pos()
	defer s.Seek(mark)

	m := Match{Start: -1, Captures: make([]string, t.wildcards)}
	pending := -1
	for _, node := range t.nodes {
		switch n := node.(type) {
		case LiteralNode:
			r := s.ReadUntil(n.Value)
			if r.Failed() {
				return Match{}, false
			}
			if m.Start < 0 {
				m.Start = s.Pos() - len(n.Value)
			}
			if pending >= 0 {
				m.Captures[pending] = r.Text
				pending = -1
			}
		case WildcardNode:
			if m.Start < 0 {
				m.Start = s.Pos()
			}
			if pending < 0 {
				pending = n.Index
			}
		}
	}
	if pending >= 0 {
		m.Captures[pending] = s.ReadToEnd().Text
		s.Seek(len(s.Subject()))
	}
	m.End = s.Pos()
	return m, true
}

// MatchString is Match on a fresh scanner over subject.
func (t *Template) MatchString(subject string) (Match, bool) {
	return t.Match(scanner.New(subject))
}

// Validate reports whether the template matches the unread text of s.
func (t *Template) Validate(s *scanner.Scanner) bool {
	_, ok := t.Match(s)
	return ok
}

// Fill renders the template with the wildcards replaced by captures, in
// order.
func (t *Template) Fill(captures []string) (string, error) {
	if len(captures) < t.wildcards {
		return "", fmt.Errorf("fill %q: want %d captures, got %d", t.source, t.wildcards, len(captures))
	}
	var out []byte
	for _, node := range t.nodes {
		switch n := node.(type) {
		case LiteralNode:
			out = append(out, n.Value...)
		case WildcardNode:
			out = append(out, captures[n.Index]...)
		}
	}
	return string(out), nil
}
