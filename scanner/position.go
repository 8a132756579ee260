package scanner

import (
	"fmt"
	"sort"
	"strings"
)

// Role tags a delimiter hit for balanced matching.
type Role int

const (
	// RoleNone marks a hit that takes part in no balanced pair.
	RoleNone Role = iota
	// RoleOpen marks an opening delimiter.
	RoleOpen
	// RoleClose marks a closing delimiter.
	RoleClose
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "None"
	case RoleOpen:
		return "Open"
	case RoleClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// Position describes where a delimiter was found in the subject.
type Position struct {
	Offset int    // byte offset of the first delimiter byte
	Length int    // byte length of the delimiter
	Role   Role   // only meaningful for balanced matching
	Text   string // the delimiter that matched
}

// End returns the offset just past the delimiter.
func (p Position) End() int {
	return p.Offset + p.Length
}

// Equal reports whether two hits denote the same candidate.
// Only the offset and the role take part in the comparison.
func (p Position) Equal(o Position) bool {
	return p.Offset == o.Offset && p.Role == o.Role
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d+%d %q)", p.Role, p.Offset, p.Length, p.Text)
}

// occurrences returns every non-overlapping occurrence of delim in subject
// at or after from, in ascending offset order.
func occurrences(subject, delim string, role Role, from int) []Position {
	if delim == "" || from > len(subject) {
		return nil
	}

	var hits []Position
	for i := from; i <= len(subject); {
		idx := strings.Index(subject[i:], delim)
		if idx < 0 {
			break
		}
		off := i + idx
		hits = append(hits, Position{Offset: off, Length: len(delim), Role: role, Text: delim})
		i = off + len(delim)
	}
	return hits
}

// firstOccurrences returns, for each delimiter in argument order, its first
// occurrence at or after from. Delimiters that do not occur are skipped.
func firstOccurrences(subject string, delims []string, from int) []Position {
	if from > len(subject) {
		return nil
	}

	hits := make([]Position, 0, len(delims))
	for _, d := range delims {
		idx := strings.Index(subject[from:], d)
		if idx < 0 {
			continue
		}
		hits = append(hits, Position{Offset: from + idx, Length: len(d), Role: RoleNone, Text: d})
	}
	return hits
}

// dedupe collapses hits that are Equal, keeping the one that appears first.
// hits must be sorted by offset, so Equal hits sit in the same run.
// Callers rely on the order of hits to decide which delimiter wins a tie.
func dedupe(hits []Position) []Position {
	out := hits[:0:0]
	run := 0
	for _, h := range hits {
		if len(out) > 0 && out[len(out)-1].Offset != h.Offset {
			run = len(out)
		}
		dup := false
		for _, kept := range out[run:] {
			if kept.Equal(h) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, h)
		}
	}
	return out
}

// sortByOffset orders hits by offset. Hits at the same offset keep their
// relative order.
func sortByOffset(hits []Position) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Offset < hits[j].Offset
	})
}

// earliest returns the hit with the smallest offset. On a tie the hit that
// comes first in hits wins.
func earliest(hits []Position) (Position, bool) {
	if len(hits) == 0 {
		return Position{}, false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Offset < best.Offset {
			best = h
		}
	}
	return best, true
}
