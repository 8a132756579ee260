package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnoreRuleNames(t *testing.T) {
	t.Parallel()

	result := parseIgnoreRuleNames("rule1, rule2,,rule3")
	assert.Len(t, result, 3)
	for _, rule := range []string{"rule1", "rule2", "rule3"} {
		assert.Contains(t, result, rule)
	}
	assert.Empty(t, parseIgnoreRuleNames(""))
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()
	source := `call a();
# parseit:ignore
call b();
call c();
call d(); // parseit:ignore:rule1 legacy
# parseit:ignore:rule2
call e();
# parseit:ignored
call f();
# parseit:ignore:
call g();
`
	m := Parse("test.txt", source)

	tests := []struct {
		name    string
		line    int
		rule    string
		ignored bool
	}{
		{"before directive", 1, "any", false},
		{"directive line", 2, "any", true},
		{"next line", 3, "any", true},
		{"two lines below", 4, "any", false},
		{"inline listed rule", 5, "rule1", true},
		{"inline other rule", 5, "rule2", false},
		{"inline covers next line", 6, "rule1", true},
		{"listed rule next line", 7, "rule2", true},
		{"unlisted rule next line", 7, "rule1", false},
		{"malformed suffix", 9, "any", false},
		{"empty rule list", 11, "any", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ignored, m.IsIgnored("test.txt", tt.line, tt.rule))
		})
	}

	assert.False(t, m.IsIgnored("other.txt", 2, "any"))
}

func TestIgnoreFile(t *testing.T) {
	t.Parallel()

	m := Parse("a.txt", "\n// parseit:ignore-file:rule1\ncall a();\ncall b();")
	assert.True(t, m.IsIgnored("a.txt", 4, "rule1"))
	assert.False(t, m.IsIgnored("a.txt", 4, "rule2"))

	m.Add("b.txt", "call a();\n// parseit:ignore-file\ncall b();\n")
	assert.False(t, m.IsIgnored("b.txt", 3, "rule1"))
	assert.False(t, m.IsIgnored("b.txt", 2, "rule1"))
	assert.True(t, m.IsIgnored("a.txt", 3, "rule1"))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
	assert.Empty(t, splitLines(""))
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	ns, whole, err := parseLine("# parseit:ignore-file")
	require.NoError(t, err)
	assert.True(t, whole)
	assert.Empty(t, ns.rules)

	ns, whole, err = parseLine("x // parseit:ignore:a,b")
	require.NoError(t, err)
	assert.False(t, whole)
	assert.Len(t, ns.rules, 2)

	_, _, err = parseLine("plain text")
	assert.ErrorIs(t, err, errNoDirective)
}
