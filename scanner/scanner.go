package scanner

import (
	"strings"
	"unicode/utf8"
)

// DefaultEscapeOperator marks a quote as literal in EscapeQuoted.
const DefaultEscapeOperator = `\`

// Scanner is a read cursor over a subject string.
//
// The zero value scans the empty string with the default escape operator.
type Scanner struct {
	subject  string
	pos      int
	escapeOp string
	opSet    bool
}

// New creates a Scanner positioned at the start of subject.
func New(subject string) *Scanner {
	return &Scanner{
		subject:  subject,
		escapeOp: DefaultEscapeOperator,
		opSet:    true,
	}
}

// Reset replaces the subject and moves the cursor back to the start.
// The escape operator is kept.
func (s *Scanner) Reset(subject string) {
	s.subject = subject
	s.pos = 0
}

// SetEscapeOperator changes the prefix that marks a quote as literal.
// An empty operator disables escaping.
func (s *Scanner) SetEscapeOperator(op string) {
	s.escapeOp = op
	s.opSet = true
}

// EscapeOperator returns the prefix used by EscapeQuoted.
func (s *Scanner) EscapeOperator() string {
	if !s.opSet {
		return DefaultEscapeOperator
	}
	return s.escapeOp
}

// Subject returns the whole text being scanned.
func (s *Scanner) Subject() string { return s.subject }

// Pos returns the current byte offset of the cursor.
func (s *Scanner) Pos() int { return s.pos }

// Seek moves the cursor to pos, clamped to the bounds of the subject.
func (s *Scanner) Seek(pos int) {
	s.pos = s.clamp(pos)
}

// DecrementPosition moves the cursor n bytes back, stopping at zero.
func (s *Scanner) DecrementPosition(n int) {
	s.pos = s.clamp(s.pos - n)
}

// Remaining returns the unread part of the subject.
func (s *Scanner) Remaining() string {
	return s.subject[s.pos:]
}

// EOF reports whether the whole subject has been consumed.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.subject)
}

func (s *Scanner) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.subject) {
		return len(s.subject)
	}
	return pos
}

// ReadToEnd returns the unread part of the subject without moving the cursor.
func (s *Scanner) ReadToEnd() Result {
	return ok(s.Remaining(), "")
}

// ReadUntil returns the text up to the earliest occurrence of any of the
// delimiters and moves the cursor past that occurrence.
//
// When two delimiters start at the same offset, the one passed first wins.
// An empty delimiter matches at the cursor, so it yields empty Text and
// leaves the cursor in place.
func (s *Scanner) ReadUntil(delims ...string) Result {
	hit, found := earliest(firstOccurrences(s.subject, delims, s.pos))
	if !found {
		return notFound("read until %q", delims)
	}

	text := s.subject[s.pos:hit.Offset]
	s.pos = hit.End()
	return ok(text, hit.Text)
}

// ReadUntilWithoutSkipping is ReadUntil but leaves the cursor at the start of
// the delimiter instead of past it. Skipped is always empty.
func (s *Scanner) ReadUntilWithoutSkipping(delims ...string) Result {
	r := s.ReadUntil(delims...)
	if r.Failed() {
		return r
	}
	s.pos -= len(r.Skipped)
	r.Skipped = ""
	return r
}

// Skip consumes up to count runes and returns them. It stops early at the
// end of the subject.
func (s *Scanner) Skip(count int) string {
	start := s.pos
	for i := 0; i < count && s.pos < len(s.subject); i++ {
		_, width := utf8.DecodeRuneInString(s.subject[s.pos:])
		s.pos += width
	}
	return s.subject[start:s.pos]
}

// ReadFrom moves the cursor past the earliest occurrence of any of the
// delimiters and returns everything after it. The tie rule of ReadUntil
// applies.
func (s *Scanner) ReadFrom(delims ...string) Result {
	hit, found := earliest(firstOccurrences(s.subject, delims, s.pos))
	if !found {
		return notFound("read from %q", delims)
	}

	s.pos = hit.End()
	return ok(s.subject[s.pos:], hit.Text)
}

// ReadBetween returns the text enclosed by a balanced opening/closing pair.
//
// The first delimiter found at or after the cursor is taken as the opening
// boundary, even when it is a closing delimiter. Every later opening increases
// the nesting depth and every closing at a positive depth decreases it; the
// first closing at depth zero ends the span. On success the cursor is moved
// past that closing and Skipped holds it.
//
// opening and closing must differ; use ReadBetweenQuotes for symmetric quotes.
func (s *Scanner) ReadBetween(opening, closing string) Result {
	if opening == closing {
		return invalidArgument("read between %q and %q: delimiters must differ", opening, closing)
	}
	if opening == "" || closing == "" {
		return invalidArgument("read between %q and %q: empty delimiter", opening, closing)
	}
	if !strings.Contains(s.subject, opening) || !strings.Contains(s.subject, closing) {
		return notFound("read between %q and %q", opening, closing)
	}

	hits := append(
		occurrences(s.subject, opening, RoleOpen, s.pos),
		occurrences(s.subject, closing, RoleClose, s.pos)...,
	)
	sortByOffset(hits)
	hits = dedupe(hits)
	if len(hits) == 0 {
		return notFound("read between %q and %q", opening, closing)
	}

	start := hits[0].End()
	depth := 0
	for _, h := range hits[1:] {
		switch h.Role {
		case RoleOpen:
			depth++
		case RoleClose:
			if depth > 0 {
				depth--
				continue
			}
			s.pos = h.End()
			return ok(s.subject[start:h.Offset], h.Text)
		}
	}
	return notFound("read between %q and %q: unbalanced", opening, closing)
}

// ReadBetweenQuotes returns the text between the next two occurrences of
// quote and moves the cursor past the second one. Quotes do not nest.
func (s *Scanner) ReadBetweenQuotes(quote string) Result {
	if quote == "" {
		return invalidArgument("read between quotes: empty quote")
	}

	hits := occurrences(s.subject, quote, RoleNone, s.pos)
	if len(hits) < 2 {
		return notFound("read between quotes %q", quote)
	}

	first, second := hits[0], hits[1]
	s.pos = second.End()
	return ok(s.subject[first.End():second.Offset], quote)
}

// PrefixOfNext reports whether the unread text starts with prefix.
// It is always false for an empty prefix.
func (s *Scanner) PrefixOfNext(prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(s.subject[s.pos:], prefix)
}

// SkipPrefix consumes prefix if the unread text starts with it.
func (s *Scanner) SkipPrefix(prefix string) bool {
	if !s.PrefixOfNext(prefix) {
		return false
	}
	s.pos += len(prefix)
	return true
}
