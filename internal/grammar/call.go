package grammar

import (
	"fmt"
	"strings"

	"github.com/gnolang/parseit/scanner"
)

// Call is a parsed statement of the form `name(arg, "quoted, arg");`.
type Call struct {
	Name       string   `json:"name"`
	Args       []string `json:"args"`
	Terminator string   `json:"terminator,omitempty"`
}

// ParseCall parses a single call statement. Double-quoted arguments may
// contain commas, parentheses and `\"`; they are returned without their
// quotes. The terminating ';' is optional.
func ParseCall(code string) (*Call, error) {
	esc := scanner.EscapeQuoted(code, `"`)
	s := scanner.New(esc.Text)

	name := s.ReadUntilWithoutSkipping("(")
	if name.Failed() {
		return nil, fmt.Errorf("call name: %w", name.Err)
	}
	between := s.ReadBetween("(", ")")
	if between.Failed() {
		return nil, fmt.Errorf("call %s arguments: %w", strings.TrimSpace(name.Text), between.Err)
	}

	call := &Call{
		Name: strings.TrimSpace(esc.UnescapeString(name.Text)),
		Args: splitList(esc, between.Text),
	}
	if r := s.ReadUntil(";"); !r.Failed() {
		call.Terminator = r.Skipped
	}
	return call, nil
}

// splitList splits an escaped, comma-separated list and restores every
// element. An all-blank list has no elements.
func splitList(esc *scanner.Escaped, list string) []string {
	if strings.TrimSpace(list) == "" {
		return []string{}
	}
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = esc.UnescapeString(strings.TrimSpace(p))
	}
	return parts
}
