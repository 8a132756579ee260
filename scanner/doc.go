/*
Package scanner provides a stateful cursor over an in-memory string for
hand-written mini-parsers that need delimiter based tokenizing without a
full lexer or grammar engine.

# Overview

A Scanner owns a subject string and a read position. Every read operation
consumes a prefix of the remaining text and advances the cursor:

	s := scanner.New("func add(int a, short b) { return a + b; }")

	kw := s.ReadUntil(" ").Text                  // "func"
	name := s.ReadUntilWithoutSkipping("(").Text // "add"
	params := s.ReadBetween("(", ")").Text       // "int a, short b"
	body := s.ReadBetween("{", "}").Text         // " return a + b; "

Offsets are byte offsets into the subject. Delimiters are literal strings,
never patterns.

# Results

Every search operation returns a Result. On success Text holds the extracted
content and Skipped the delimiter that was consumed. On failure Err is set,
Text and Skipped are empty and the cursor is left where it was:

  - ErrNotFound: the requested delimiter(s) do not occur in the remaining subject
  - ErrInvalidArgument: the call itself is malformed, e.g. ReadBetween
    with identical open and close delimiters

# Escaping

Quoted regions often contain characters that would otherwise be taken as
structure. Escape and EscapeQuoted replace such regions with placeholders
of the form $$(id)$$ and record the original text in an Escaped value:

	esc := scanner.EscapeQuoted(`register("a(123)", "))))");`, `"`)
	// esc.Text == "register($$(0)$$, $$(1)$$);"

	s := scanner.New(esc.Text)
	s.ReadUntilWithoutSkipping("(")
	args := s.ReadBetween("(", ")").Text
	// esc.UnescapeString(args) == "a(123), ))))"

A quote preceded by the escape operator (a backslash unless changed with
SetEscapeOperator) is not treated as a boundary. When such a quote is seen,
the operator is stripped from every recorded value, not only from the one
that contained it.

# Wildcards

Validate checks the remaining subject against a template in which every
occurrence of a wildcard string stands for arbitrary text:

	scanner.New("call aaa(bbb);").Validate("call *(*);", "*") // true

The cursor is never moved by Validate.

# Concurrency

A Scanner is not safe for concurrent use. Escaped values are read-only once
returned and may be shared.
*/
package scanner
