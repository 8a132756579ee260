package formatter

import (
	"os"
	"strings"

	tt "github.com/gnolang/parseit/internal/types"
)

// ReadSourceLines reads filename and splits it into lines.
func ReadSourceLines(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(content), "\n"), nil
}

// GetCodeSnippet returns the source lines a match spans.
func GetCodeSnippet(m tt.Match, lines []string) string {
	startLine := m.Start.Line - 1
	endLine := min(m.End.Line, len(lines))
	if startLine < 0 || startLine >= endLine {
		return ""
	}
	return strings.Join(lines[startLine:endLine], "\n")
}
