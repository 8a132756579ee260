package check

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/parseit/internal"
	tt "github.com/gnolang/parseit/internal/types"
	"github.com/gnolang/parseit/internal/walk"
)

const maxShowRecentFiles = 10

// Engine runs rules over files or in-memory sources.
type Engine interface {
	Run(filePath string) ([]tt.Match, error)
	RunSource(name string, source []byte) ([]tt.Match, error)
	IgnoreRule(rule string)
}

// Filter selects the files of a directory that ProcessPath visits.
type Filter struct {
	Extensions []string
	Exclude    []string
	// Progress receives the progress bar of directory runs. Nil hides it.
	Progress io.Writer
}

// New loads the configuration at configPath and builds an engine from it.
func New(configPath string, opts ...internal.Option) (*internal.Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config, opts...)
}

// NewFromConfig builds an engine from config. When CacheDir is set the
// engine keeps its results there.
func NewFromConfig(config Config, opts ...internal.Option) (*internal.Engine, error) {
	opts = append([]internal.Option{internal.WithExtensions(config.Extensions...)}, opts...)
	if config.CacheDir != "" {
		cache, err := internal.NewCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, internal.WithCache(cache))
	}
	return internal.NewEngine(config.EngineRules(), opts...)
}

func ProcessFile(engine Engine, filePath string) ([]tt.Match, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, name string, source []byte) ([]tt.Match, error) {
	return engine.RunSource(name, source)
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	filter Filter,
	processor func(Engine, string) ([]tt.Match, error),
) ([]tt.Match, error) {
	var allMatches []tt.Match
	for _, path := range paths {
		matches, err := ProcessPath(ctx, logger, engine, path, filter, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allMatches = append(allMatches, matches...)
	}

	return allMatches, nil
}

// ProcessPath runs processor on path. A directory is walked with filter
// and its files are processed by a bounded pool of workers; a file is
// processed directly. Files that fail are logged and skipped. On
// cancellation the matches collected so far are returned with ctx.Err().
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	filter Filter,
	processor func(Engine, string) ([]tt.Match, error),
) ([]tt.Match, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return processor(engine, path)
	}

	files, err := walk.New(path, filter.Extensions...).Exclude(filter.Exclude...).Paths()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	out := filter.Progress
	if out == nil {
		out = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	recent := newRecentFiles(out, maxShowRecentFiles, filter.Progress != nil)

	type result struct {
		matches []tt.Match
		err     error
	}
	results := make(chan result, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	matches := []tt.Match{}
	cancelled := false
dispatch:
	for _, filePath := range files {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			recent.add(fp)
			fileMatches, err := processor(engine, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results <- result{matches: fileMatches, err: err}
			_ = bar.Add(1)
		}(filePath)
	}

	wg.Wait()
	close(results)
	for r := range results {
		if r.err == nil {
			matches = append(matches, r.matches...)
		}
	}
	_ = bar.Finish()

	if cancelled {
		return matches, ctx.Err()
	}
	return matches, nil
}

// recentFiles prints the names of the last files picked up by workers
// above the progress bar.
type recentFiles struct {
	mu      sync.Mutex
	out     io.Writer
	names   []string
	enabled bool
}

func newRecentFiles(out io.Writer, size int, enabled bool) *recentFiles {
	r := &recentFiles{out: out, names: make([]string, size), enabled: enabled}
	if enabled {
		// make space for recent files
		for i := 0; i < size+1; i++ {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "\033[%dA", size+1)
	}
	return r
}

func (r *recentFiles) add(name string) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copy(r.names[1:], r.names[:len(r.names)-1])
	r.names[0] = name

	// move the cursor up, then redraw every line
	fmt.Fprintf(r.out, "\033[%dA", len(r.names))
	for _, n := range r.names {
		fmt.Fprintf(r.out, "\033[2K\r%s\n", n)
	}
}
