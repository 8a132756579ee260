package formatter

import (
	"fmt"
	"strings"

	"github.com/gnolang/parseit/scanner"
)

// FormatResult renders a scanner result as `text` and `skipped` lines, or
// an error line when the read failed.
func FormatResult(r scanner.Result) string {
	if r.Failed() {
		return messageStyle.Sprint("error: ") + r.Err.Error() + "\n"
	}
	var b strings.Builder
	b.WriteString(ruleStyle.Sprint("text:    "))
	b.WriteString(fmt.Sprintf("%q\n", r.Text))
	b.WriteString(ruleStyle.Sprint("skipped: "))
	b.WriteString(fmt.Sprintf("%q\n", r.Skipped))
	return b.String()
}

// FormatEscaped renders the escaped text followed by its placeholder table.
func FormatEscaped(esc *scanner.Escaped) string {
	var b strings.Builder
	b.WriteString(esc.Text)
	if !strings.HasSuffix(esc.Text, "\n") {
		b.WriteString("\n")
	}
	if esc.Len() == 0 {
		return b.String()
	}

	b.WriteString(lineStyle.Sprint("--\n"))
	for id, v := range esc.Values() {
		b.WriteString(fileStyle.Sprint(scanner.Placeholder(id)))
		b.WriteString(lineStyle.Sprint(" = "))
		b.WriteString(suggestionStyle.Sprintf("%q", v))
		b.WriteString("\n")
	}
	return b.String()
}
