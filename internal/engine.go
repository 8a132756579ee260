package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/gnolang/parseit/internal/directive"
	tt "github.com/gnolang/parseit/internal/types"
	"github.com/gnolang/parseit/scanner"
	"github.com/gnolang/parseit/template"
)

// Engine evaluates template rules against source files line by line.
type Engine struct {
	rules        []*template.CompiledRule
	ignoredRules map[string]bool
	extensions   []string
	cache        *Cache
	logger       *zap.Logger
	mu           sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache makes Run reuse results for unchanged files.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExtensions restricts Accepts, and therefore Watch, to files with one
// of the given extensions. No extensions accepts every file.
func WithExtensions(exts ...string) Option {
	return func(e *Engine) { e.extensions = exts }
}

// NewEngine compiles rules and returns an engine ready to run them.
func NewEngine(rules []template.Rule, opts ...Option) (*Engine, error) {
	e := &Engine{
		ignoredRules: make(map[string]bool),
		logger:       zap.NewNop(),
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate rule %q", r.Name)
		}
		seen[r.Name] = true

		cr, err := r.Compile()
		if err != nil {
			return nil, err
		}
		e.rules = append(e.rules, cr)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns the names of the active rules.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		if !e.ignoredRules[r.Name] {
			names = append(names, r.Name)
		}
	}
	return names
}

// IgnoreRule disables a rule by name.
func (e *Engine) IgnoreRule(rule string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ignoredRules[rule] = true
}

// Accepts reports whether filename has one of the configured extensions.
func (e *Engine) Accepts(filename string) bool {
	if len(e.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(filename)
	for _, x := range e.extensions {
		if strings.EqualFold(ext, x) {
			return true
		}
	}
	return false
}

// Run applies all rules to the given file and returns the matches.
func (e *Engine) Run(filename string) ([]tt.Match, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	fingerprint := e.Fingerprint()
	if e.cache != nil {
		if matches, ok := e.cache.Get(filename, content, fingerprint); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return matches, nil
		}
	}

	matches, err := e.RunSource(filename, content)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, content, fingerprint, matches); err != nil {
			e.logger.Warn("cache write failed", zap.String("file", filename), zap.Error(err))
		}
	}
	return matches, nil
}

// RunSource applies all rules to source, reporting matches under name.
func (e *Engine) RunSource(name string, source []byte) ([]tt.Match, error) {
	src := string(source)
	lines := splitLines(src)
	ignores := directive.Parse(name, src)

	e.mu.RLock()
	active := make([]*template.CompiledRule, 0, len(e.rules))
	for _, r := range e.rules {
		if !e.ignoredRules[r.Name] {
			active = append(active, r)
		}
	}
	e.mu.RUnlock()

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allMatches []tt.Match
	for _, rule := range active {
		wg.Add(1)
		go func(r *template.CompiledRule) {
			defer wg.Done()
			matches := e.runRule(name, r, lines)

			kept := make([]tt.Match, 0, len(matches))
			for _, m := range matches {
				if !ignores.IsIgnored(name, m.Start.Line, m.Rule) {
					kept = append(kept, m)
				}
			}

			mu.Lock()
			allMatches = append(allMatches, kept...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	sortMatches(allMatches)
	return allMatches, nil
}

// runRule finds every non-overlapping hit of r on each line.
func (e *Engine) runRule(filename string, r *template.CompiledRule, lines []line) []tt.Match {
	var matches []tt.Match
	for _, ln := range lines {
		s := scanner.New(ln.text)
		for !s.EOF() {
			m, ok := r.Pattern.Match(s)
			if !ok || m.Len() == 0 {
				break
			}
			match := tt.Match{
				Rule:     r.Name,
				Filename: filename,
				Message:  r.Message,
				Text:     ln.text[m.Start:m.End],
				Captures: m.Captures,
				Start:    tt.Position{Offset: ln.offset + m.Start, Line: ln.number, Column: m.Start + 1},
				End:      tt.Position{Offset: ln.offset + m.End, Line: ln.number, Column: m.End + 1},
			}
			if match.Message == "" {
				match.Message = fmt.Sprintf("matches %q", r.Template)
			}
			if r.Replacer != nil {
				suggestion, err := r.Replacer.Replace(m)
				if err != nil {
					e.logger.Warn("rewrite failed", zap.String("rule", r.Name), zap.Error(err))
				} else {
					match.Suggestion = suggestion
				}
			}
			matches = append(matches, match)
			s.Seek(m.End)
		}
	}
	return matches
}

// Fingerprint identifies the active rule set. Cached results are only
// reused under the same fingerprint.
func (e *Engine) Fingerprint() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	d := xxhash.New()
	for _, r := range e.rules {
		if e.ignoredRules[r.Name] {
			continue
		}
		for _, field := range []string{r.Name, r.Template, r.Wildcard, r.Message, r.Rewrite} {
			_, _ = d.WriteString(field)
			_, _ = d.Write([]byte{0})
		}
	}
	return d.Sum64()
}

type line struct {
	number int
	offset int
	text   string
}

// splitLines cuts src into lines with the scanner, keeping the byte
// offset of each line. A trailing '\r' is dropped from the line text.
func splitLines(src string) []line {
	var lines []line
	s := scanner.New(src)
	for n := 1; !s.EOF(); n++ {
		start := s.Pos()
		r := s.ReadUntil("\n")
		if r.Failed() {
			lines = append(lines, line{number: n, offset: start, text: s.ReadToEnd().Text})
			break
		}
		lines = append(lines, line{number: n, offset: start, text: strings.TrimSuffix(r.Text, "\r")})
	}
	return lines
}

func sortMatches(matches []tt.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
}
