package template

import "fmt"

// Node represents a parsed template element: literal text or a wildcard.
type Node interface {
	String() string
}

// LiteralNode is text that must appear verbatim.
type LiteralNode struct {
	Value string
}

func (l LiteralNode) String() string {
	return fmt.Sprintf("Literal(%q)", l.Value)
}

// WildcardNode stands for arbitrary text. Index is the position of the
// wildcard among all wildcards of the template, starting at zero.
type WildcardNode struct {
	Index int
}

func (w WildcardNode) String() string {
	return fmt.Sprintf("Wildcard(%d)", w.Index)
}

// Parse converts a sequence of tokens into nodes. Adjacent literal tokens
// are joined, so every LiteralNode is a maximal run of literal text.
func Parse(tokens []Token) ([]Node, error) {
	var nodes []Node
	wildcards := 0
	for _, token := range tokens {
		if token.Type == TokenEOF {
			break
		}
		switch token.Type {
		case TokenLiteral:
			if n := len(nodes); n > 0 {
				if prev, ok := nodes[n-1].(LiteralNode); ok {
					nodes[n-1] = LiteralNode{Value: prev.Value + token.Value}
					continue
				}
			}
			nodes = append(nodes, LiteralNode{Value: token.Value})
		case TokenWildcard:
			nodes = append(nodes, WildcardNode{Index: wildcards})
			wildcards++
		default:
			return nil, fmt.Errorf("unexpected token type: %v", token.Type)
		}
	}
	return nodes, nil
}
