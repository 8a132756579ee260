package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/gnolang/parseit/internal/types"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Run(filePath string) ([]tt.Match, error) {
	args := m.Called(filePath)
	return args.Get(0).([]tt.Match), args.Error(1)
}

func (m *mockEngine) RunSource(name string, source []byte) ([]tt.Match, error) {
	args := m.Called(name, source)
	return args.Get(0).([]tt.Match), args.Error(1)
}

func (m *mockEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func testMatch(filename string) tt.Match {
	return tt.Match{
		Rule:     "test-rule",
		Filename: filename,
		Message:  "Test match",
		Text:     "call a();",
		Start:    tt.Position{Offset: 0, Line: 1, Column: 1},
		End:      tt.Position{Offset: 9, Line: 1, Column: 10},
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("call a();\n"), 0o644))
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	expected := []tt.Match{testMatch("test.txt")}
	engine := new(mockEngine)
	engine.On("Run", "test.txt").Return(expected, nil)

	matches, err := ProcessFile(engine, "test.txt")
	assert.NoError(t, err)
	assert.Equal(t, expected, matches)
	engine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()

	expected := []tt.Match{testMatch("<stdin>")}
	engine := new(mockEngine)
	engine.On("RunSource", "<stdin>", []byte("call a();")).Return(expected, nil)

	matches, err := ProcessSource(engine, "<stdin>", []byte("call a();"))
	assert.NoError(t, err)
	assert.Equal(t, expected, matches)
	engine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, "a.txt", "b.txt", "sub/c.txt", "skip.md", "vendor/d.txt")

	bad := filepath.Join(tempDir, "b.txt")
	engine := new(mockEngine)
	engine.On("Run", bad).Return([]tt.Match(nil), errors.New("boom"))
	engine.On("Run", mock.Anything).Return([]tt.Match{testMatch("x")}, nil)

	var progress bytes.Buffer
	filter := Filter{Extensions: []string{".txt"}, Exclude: []string{"**/vendor/**"}, Progress: &progress}
	matches, err := ProcessPath(context.Background(), zap.NewNop(), engine, tempDir, filter, ProcessFile)
	require.NoError(t, err)

	assert.Len(t, matches, 2)
	engine.AssertNumberOfCalls(t, "Run", 3)
	assert.NotEmpty(t, progress.String())
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, "notes.md")
	path := filepath.Join(tempDir, "notes.md")

	engine := new(mockEngine)
	engine.On("Run", path).Return([]tt.Match{testMatch(path)}, nil)

	matches, err := ProcessPath(context.Background(), nil, engine, path, Filter{Extensions: []string{".txt"}}, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, err = ProcessPath(context.Background(), nil, engine, filepath.Join(tempDir, "missing"), Filter{}, ProcessFile)
	assert.Error(t, err)
}

func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFiles(t, tempDir, fmt.Sprintf("test%d.txt", i))
	}

	engine := new(mockEngine)
	engine.On("Run", mock.Anything).Return([]tt.Match{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches, err := ProcessPath(ctx, nil, engine, tempDir, Filter{}, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, matches)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, "one.txt", "two.txt")
	one := filepath.Join(tempDir, "one.txt")
	two := filepath.Join(tempDir, "two.txt")

	engine := new(mockEngine)
	engine.On("Run", one).Return([]tt.Match{testMatch(one)}, nil)
	engine.On("Run", two).Return([]tt.Match{testMatch(two)}, nil)

	matches, err := ProcessFiles(context.Background(), nil, engine, []string{one, two}, Filter{}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, one, matches[0].Filename)
	assert.Equal(t, two, matches[1].Filename)

	_, err = ProcessFiles(context.Background(), zap.NewNop(), engine, []string{filepath.Join(tempDir, "nope")}, Filter{}, ProcessFile)
	assert.Error(t, err)
}

func TestNewEndToEnd(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, DefaultConfigPath)
	config := DefaultConfig()
	config.CacheDir = filepath.Join(tempDir, "cache")
	require.NoError(t, WriteConfig(configPath, config))

	src := filepath.Join(tempDir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("call run(1);\n"), 0o644))

	engine, err := New(configPath)
	require.NoError(t, err)

	matches, err := ProcessPath(context.Background(), nil, engine, src, config.Filter(), ProcessFile)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "call-statement", matches[0].Rule)
	assert.Equal(t, "invoke run(1);", matches[0].Suggestion)

	_, err = os.Stat(filepath.Join(config.CacheDir))
	assert.NoError(t, err)
}
