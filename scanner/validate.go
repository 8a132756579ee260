package scanner

import "strings"

// Validate reports whether the unread text matches template, where every
// occurrence of wildcard in template stands for arbitrary text. The literal
// fragments between wildcards must appear in order; text before the first
// fragment is not checked. The cursor is restored before returning.
//
// An empty wildcard makes the whole template a single fragment.
func (s *Scanner) Validate(template, wildcard string) bool {
	mark := s.pos
	defer func() { s.pos = mark }()

	for _, fragment := range SplitTemplate(template, wildcard) {
		if s.ReadUntil(fragment).Failed() {
			return false
		}
	}
	return true
}

// SplitTemplate splits template around every occurrence of wildcard.
// Trailing empty fragments are dropped, so a template that ends with a
// wildcard does not require anything after its last literal.
func SplitTemplate(template, wildcard string) []string {
	if wildcard == "" {
		return []string{template}
	}

	parts := strings.Split(template, wildcard)
	if len(parts) == 1 {
		return parts
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
