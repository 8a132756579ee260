package types

import "fmt"

// Position is a location in a source file. Line and Column are 1-based;
// Column counts bytes.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Match represents a rule hit found in a file.
type Match struct {
	Rule       string   `json:"rule"`
	Filename   string   `json:"filename"`
	Message    string   `json:"message,omitempty"`
	Text       string   `json:"text"`
	Captures   []string `json:"captures,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Start      Position `json:"start"`
	End        Position `json:"end"`
}

func (m Match) String() string {
	return fmt.Sprintf("%s:%s: %s", m.Filename, m.Start, m.Rule)
}
