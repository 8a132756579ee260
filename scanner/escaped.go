package scanner

import (
	"strconv"
	"strings"
)

// Placeholder returns the token that stands in for the escaped value id.
func Placeholder(id int) string {
	return "$$(" + strconv.Itoa(id) + ")$$"
}

// Escaped holds a string in which some substrings were replaced by
// placeholders, together with the table needed to put them back.
//
// Ids are assigned from zero in the order values were recorded, so the
// table is kept as a slice indexed by id.
type Escaped struct {
	Text   string
	values []string
}

func newEscaped(text string) *Escaped {
	return &Escaped{Text: text}
}

// record appends value to the table and returns its id.
func (e *Escaped) record(value string) int {
	e.values = append(e.values, value)
	return len(e.values) - 1
}

// Derive returns an Escaped over text that shares this table.
func (e *Escaped) Derive(text string) *Escaped {
	return &Escaped{Text: text, values: e.values}
}

// Unescape replaces every placeholder in Text with its recorded value.
func (e *Escaped) Unescape() string {
	return e.UnescapeString(e.Text)
}

// UnescapeString replaces every placeholder in s with its recorded value.
func (e *Escaped) UnescapeString(s string) string {
	return e.substitute(s, "")
}

// UnescapeWithQuotes is Unescape with every value wrapped in quote.
func (e *Escaped) UnescapeWithQuotes(quote string) string {
	return e.UnescapeStringWithQuotes(e.Text, quote)
}

// UnescapeStringWithQuotes is UnescapeString with every value wrapped in quote.
func (e *Escaped) UnescapeStringWithQuotes(s, quote string) string {
	return e.substitute(s, quote)
}

// substitute walks the table from the highest id down. Escape assigns ids
// in order, so a later placeholder may have been written over text that
// contained an earlier one; undoing in reverse restores both.
func (e *Escaped) substitute(s, quote string) string {
	for id := len(e.values) - 1; id >= 0; id-- {
		ph := Placeholder(id)
		if !strings.Contains(s, ph) {
			continue
		}
		s = strings.ReplaceAll(s, ph, quote+e.values[id]+quote)
	}
	return s
}

// IsEmpty reports whether Text is empty.
func (e *Escaped) IsEmpty() bool {
	return e == nil || e.Text == ""
}

// Len returns the number of recorded values.
func (e *Escaped) Len() int {
	return len(e.values)
}

// Lookup returns the value recorded under id.
func (e *Escaped) Lookup(id int) (string, bool) {
	if id < 0 || id >= len(e.values) {
		return "", false
	}
	return e.values[id], true
}

// Values returns the recorded values in ascending id order.
func (e *Escaped) Values() []string {
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}

// First returns the value recorded under id 0, or "" when nothing was recorded.
func (e *Escaped) First() string {
	v, _ := e.Lookup(0)
	return v
}
