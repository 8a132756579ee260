package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/parseit/check"
	"github.com/gnolang/parseit/internal/grammar"
	tt "github.com/gnolang/parseit/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes the command tree with args and stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// setupProject writes the default configuration and one source file into a
// temporary directory and returns the config path and the source directory.
func setupProject(t *testing.T, source string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, check.DefaultConfigPath)
	require.NoError(t, check.WriteConfig(configPath, check.DefaultConfig()))

	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte(source), 0o644))
	return configPath, src
}

func TestReadCommands(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
		exitCode int
	}{
		{
			name:     "until earliest delimiter",
			stdin:    "key=value;rest",
			args:     []string{"until", "-d", ";", "-d", "="},
			expected: "text:    \"key\"\nskipped: \"=\"\n",
		},
		{
			name:     "until without skipping",
			stdin:    "key=value",
			args:     []string{"until", "-d", "=", "--no-skip"},
			expected: "text:    \"key\"\nskipped: \"\"\n",
		},
		{
			name:     "until not found",
			stdin:    "abc",
			args:     []string{"until", "-d", "#"},
			exitCode: 1,
		},
		{
			name:     "between nested",
			stdin:    "f(a(b)c)",
			args:     []string{"between"},
			expected: "text:    \"a(b)c\"\nskipped: \")\"\n",
		},
		{
			name:     "between same delimiters",
			stdin:    "|a|",
			args:     []string{"between", "--open", "|", "--close", "|"},
			exitCode: 1,
		},
		{
			name:     "quotes",
			stdin:    `say "hi" now`,
			args:     []string{"quotes"},
			expected: "text:    \"hi\"\nskipped: \"\\\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.exitCode, ExitCode(err))
			if tt.exitCode == 0 {
				assert.Equal(t, tt.expected, out)
			} else {
				assert.Contains(t, out, "error: ")
			}
		})
	}
}

func TestReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("a;b"), 0o644))

	out, err := run(t, "", "until", "-d", ";", path)
	require.NoError(t, err)
	assert.Equal(t, "text:    \"a\"\nskipped: \";\"\n", out)

	_, err = run(t, "", "until", "-d", ";", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 2, ExitCode(err))
}

func TestEscapeCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "absent.yaml")

	out, err := run(t, `x = "a b"`, "--config", configPath, "escape", "--quoted", `"`)
	require.NoError(t, err)
	assert.Equal(t, "x = $$(0)$$\n--\n$$(0)$$ = \"a b\"\n", out)

	out, err = run(t, "a,b;c", "escape", "--literal", ",", "--literal", ";")
	require.NoError(t, err)
	assert.Equal(t, "a$$(0)$$b$$(1)$$c\n--\n$$(0)$$ = \",\"\n$$(1)$$ = \";\"\n", out)

	out, err = run(t, `'it^'s'`, "escape", "--quoted", "'", "--operator", "^")
	require.NoError(t, err)
	assert.Contains(t, out, `= "it's"`)

	_, err = run(t, "x", "escape")
	assert.Equal(t, 2, ExitCode(err))
	_, err = run(t, "x", "escape", "--quoted", `"`, "--literal", "x")
	assert.Equal(t, 2, ExitCode(err))
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "abc", "validate", "-t", "a*c")
	require.NoError(t, err)
	assert.Equal(t, "match\n", out)

	out, err = run(t, "xyz", "validate", "-t", "a*c")
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, "no match\n", out)

	out, err = run(t, "f(x)", "validate", "-t", "f(*)", "--captures")
	require.NoError(t, err)
	assert.Equal(t, "match [0, 4)\n0: \"x\"\n", out)

	_, err = run(t, "f", "validate")
	assert.Equal(t, 2, ExitCode(err))
}

func TestGrammarCommands(t *testing.T) {
	out, err := run(t, "", "call", `f("a,b", c);`)
	require.NoError(t, err)
	var call grammar.Call
	require.NoError(t, json.Unmarshal([]byte(out), &call))
	assert.Equal(t, grammar.Call{Name: "f", Args: []string{"a,b", "c"}, Terminator: ";"}, call)

	out, err = run(t, "", "func", "func add(int a, short b) { return a + b; }")
	require.NoError(t, err)
	var fn grammar.Func
	require.NoError(t, json.Unmarshal([]byte(out), &fn))
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)

	_, err = run(t, "", "call", "nothing")
	assert.Equal(t, 2, ExitCode(err))
}

func TestInitCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), check.DefaultConfigPath)

	out, err := run(t, "", "--config", configPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)

	config, err := check.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, check.DefaultConfig(), config)

	_, err = run(t, "", "--config", configPath, "init")
	assert.Error(t, err)

	_, err = run(t, "", "--config", configPath, "init", "--force")
	assert.NoError(t, err)
}

func TestCheckCommand(t *testing.T) {
	configPath, src := setupProject(t, "call run(1);\nx = 1\n")

	out, err := run(t, "", "--config", configPath, "check", src)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "match: call-statement")
	assert.Contains(t, out, "a.txt:1:1")
	assert.Contains(t, out, "invoke run(1);")

	out, err = run(t, "", "--config", configPath, "check", "--json", src)
	assert.Equal(t, 1, ExitCode(err))
	var byFile map[string][]tt.Match
	require.NoError(t, json.Unmarshal([]byte(out), &byFile))
	require.Len(t, byFile[filepath.Join(src, "a.txt")], 1)

	out, err = run(t, "", "--config", configPath, "check", "--ignore", "call-statement", src)
	require.NoError(t, err)
	assert.Empty(t, out)

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	_, err = run(t, "", "--config", configPath, "check", "--json", "-o", jsonPath, src)
	assert.Equal(t, 1, ExitCode(err))
	_, statErr := os.Stat(jsonPath)
	assert.NoError(t, statErr)

	_, err = run(t, "", "--config", configPath, "check", filepath.Join(src, "missing"))
	assert.Equal(t, 2, ExitCode(err))
}

func TestFixCommand(t *testing.T) {
	configPath, src := setupProject(t, "call run(1);\nkeep\n")
	file := filepath.Join(src, "a.txt")

	out, err := run(t, "", "--config", configPath, "fix", "--dry-run", src)
	require.NoError(t, err)
	assert.Contains(t, out, "call run(1); -> invoke run(1);")
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "call run(1);\nkeep\n", string(content))

	_, err = run(t, "", "--config", configPath, "fix", src)
	require.NoError(t, err)
	content, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "invoke run(1);\nkeep\n", string(content))

	out, err = run(t, "call a(2);", "--config", configPath, "fix", "-")
	require.NoError(t, err)
	assert.Equal(t, "invoke a(2);", out)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(&exitError{code: 1}))
	assert.Equal(t, "exit status 3", (&exitError{code: 3}).Error())
}
