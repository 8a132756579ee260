package grammar

import (
	"fmt"
	"strings"

	"github.com/gnolang/parseit/scanner"
)

// Param is one `type name` pair of a parameter list.
type Param struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func (p Param) String() string {
	if p.Type == "" {
		return p.Name
	}
	return p.Type + " " + p.Name
}

// Func is a parsed declaration such as `func add(int a, short b) { ... }`.
type Func struct {
	Keyword string  `json:"keyword"`
	Name    string  `json:"name"`
	Params  []Param `json:"params"`
	Body    string  `json:"body"`
}

// escapedQuote stands in for `\"` while string literals are paired, so the
// body comes back exactly as written. Escaped ids are never negative.
var escapedQuote = scanner.Placeholder(-1)

// ParseFunc parses a function declaration. Braces and parentheses inside
// double-quoted strings in the body do not count toward nesting. The body
// is returned as written, escaped quotes included.
func ParseFunc(code string) (*Func, error) {
	masked := scanner.New(strings.ReplaceAll(code, `\"`, escapedQuote))
	masked.SetEscapeOperator("")
	esc := masked.EscapeQuoted(`"`)
	s := scanner.New(strings.TrimLeft(esc.Text, " \t\r\n"))

	keyword := s.ReadUntil(" ")
	if keyword.Failed() {
		return nil, fmt.Errorf("func keyword: %w", keyword.Err)
	}
	name := s.ReadUntilWithoutSkipping("(")
	if name.Failed() {
		return nil, fmt.Errorf("func name: %w", name.Err)
	}
	params := s.ReadBetween("(", ")")
	if params.Failed() {
		return nil, fmt.Errorf("func %s parameters: %w", strings.TrimSpace(name.Text), params.Err)
	}
	body := s.ReadBetween("{", "}")
	if body.Failed() {
		return nil, fmt.Errorf("func %s body: %w", strings.TrimSpace(name.Text), body.Err)
	}

	fn := &Func{
		Keyword: keyword.Text,
		Name:    strings.TrimSpace(name.Text),
		Body:    strings.ReplaceAll(strings.TrimSpace(esc.UnescapeStringWithQuotes(body.Text, `"`)), escapedQuote, `\"`),
		Params:  []Param{},
	}
	for _, p := range splitList(esc, params.Text) {
		fn.Params = append(fn.Params, parseParam(strings.ReplaceAll(p, escapedQuote, `"`)))
	}
	return fn, nil
}

// parseParam splits "type name" on the last run of blanks. A single word
// is taken as the name.
func parseParam(p string) Param {
	i := strings.LastIndexAny(p, " \t")
	if i < 0 {
		return Param{Name: p}
	}
	return Param{Type: strings.TrimSpace(p[:i]), Name: p[i+1:]}
}
