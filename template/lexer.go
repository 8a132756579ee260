package template

import (
	"fmt"
	"strings"
)

// DefaultWildcard is used when a rule does not name its own wildcard.
const DefaultWildcard = "*"

// TokenType defines the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLiteral
	TokenWildcard
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLiteral:
		return "Literal"
	case TokenWildcard:
		return "Wildcard"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Lex splits a template into literal and wildcard tokens.
//
// A backslash makes the next byte literal, so `\*` matches a star when the
// wildcard is "*". An empty wildcard never matches and the whole input is
// literal text.
func Lex(input, wildcard string) ([]Token, error) {
	var tokens []Token
	var currentLiteral strings.Builder

	line, col := 1, 1
	litLine, litCol := 1, 1
	i := 0

	advance := func(c byte) {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	writeLiteral := func(c byte) {
		if currentLiteral.Len() == 0 {
			litLine, litCol = line, col
		}
		currentLiteral.WriteByte(c)
	}

	flushLiteral := func() {
		if currentLiteral.Len() > 0 {
			tokens = append(tokens, Token{
				Type:  TokenLiteral,
				Value: currentLiteral.String(),
				Line:  litLine,
				Col:   litCol,
			})
			currentLiteral.Reset()
		}
	}

	for i < len(input) {
		c := input[i]

		// escaped byte (e.g., "\*")
		if c == '\\' {
			if i+1 >= len(input) {
				return nil, fmt.Errorf("line %d col %d: '\\' escape is at the end of input", line, col)
			}
			advance(c)
			next := input[i+1]
			writeLiteral(next)
			advance(next)
			i += 2
			continue
		}

		if wildcard != "" && strings.HasPrefix(input[i:], wildcard) {
			flushLiteral()
			tokens = append(tokens, Token{
				Type:  TokenWildcard,
				Value: wildcard,
				Line:  line,
				Col:   col,
			})
			for j := 0; j < len(wildcard); j++ {
				advance(wildcard[j])
			}
			i += len(wildcard)
			continue
		}

		writeLiteral(c)
		advance(c)
		i++
	}

	flushLiteral()

	tokens = append(tokens, Token{
		Type:  TokenEOF,
		Value: "",
		Line:  line,
		Col:   col,
	})

	return tokens, nil
}
