package scanner

import "strings"

// Escape captures the unread text and replaces every occurrence of each
// literal with a placeholder. Literals are processed in argument order and
// receive ids 0, 1, 2, ... accordingly. The cursor does not move.
//
// An empty literal is recorded but substitutes nothing.
func (s *Scanner) Escape(literals ...string) *Escaped {
	esc := newEscaped(s.Remaining())
	for _, lit := range literals {
		id := esc.record(lit)
		if lit == "" {
			continue
		}
		esc.Text = strings.ReplaceAll(esc.Text, lit, Placeholder(id))
	}
	return esc
}

// EscapeQuoted replaces every quoted region of the subject with a
// placeholder. Quotes at or after the cursor are paired in order: first
// opens, second closes, third opens and so on. A quote directly preceded by
// the escape operator is not a boundary.
//
// The returned Escaped covers the whole subject. Recorded values exclude
// the surrounding quotes. If any escaped quote was seen, the escape
// operator is removed from every recorded value.
func (s *Scanner) EscapeQuoted(quote string) *Escaped {
	esc := newEscaped(s.subject)
	if quote == "" {
		return esc
	}

	op := s.EscapeOperator()
	var (
		bounds      []Position
		sawOperator bool
	)
	for _, h := range occurrences(s.subject, quote, RoleNone, s.pos) {
		if op != "" && h.Offset >= len(op) && s.subject[h.Offset-len(op):h.Offset] == op {
			sawOperator = true
			continue
		}
		bounds = append(bounds, h)
	}

	for i := 0; i+1 < len(bounds); i += 2 {
		opening, closing := bounds[i], bounds[i+1]
		content := s.subject[opening.End():closing.Offset]
		id := esc.record(content)
		esc.Text = strings.ReplaceAll(esc.Text, quote+content+quote, Placeholder(id))
	}

	if sawOperator {
		for id, v := range esc.values {
			esc.values[id] = strings.ReplaceAll(v, op, "")
		}
	}
	return esc
}

// EscapeQuoted is a shorthand for New(code).EscapeQuoted(quote).
func EscapeQuoted(code, quote string) *Escaped {
	return New(code).EscapeQuoted(quote)
}
