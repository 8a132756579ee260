package check

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/parseit/scanner"
	"github.com/gnolang/parseit/template"
)

// DefaultConfigPath is the configuration file looked up when none is given.
const DefaultConfigPath = ".parseit.yaml"

// Config represents the contents of a .parseit.yaml file.
type Config struct {
	Name           string          `yaml:"name"`
	Wildcard       string          `yaml:"wildcard"`
	EscapeOperator string          `yaml:"escape_operator"`
	Extensions     []string        `yaml:"extensions"`
	Exclude        []string        `yaml:"exclude,omitempty"`
	CacheDir       string          `yaml:"cache_dir,omitempty"`
	Rules          []template.Rule `yaml:"rules"`
}

// DefaultConfig returns the configuration written by `parseit init`.
func DefaultConfig() Config {
	return Config{
		Name:           "parseit",
		Wildcard:       template.DefaultWildcard,
		EscapeOperator: scanner.DefaultEscapeOperator,
		Extensions:     []string{".txt"},
		Exclude:        []string{"**/vendor/**", "**/.git/**"},
		Rules: []template.Rule{
			{
				Name:     "call-statement",
				Template: "call *(*);",
				Message:  "bare call statement",
				Rewrite:  "invoke *(*);",
			},
		},
	}
}

// LoadConfig reads the configuration at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// EngineRules returns the rules with the configured default wildcard
// applied to rules that do not set their own.
func (c Config) EngineRules() []template.Rule {
	rules := make([]template.Rule, len(c.Rules))
	for i, r := range c.Rules {
		if r.Wildcard == "" {
			r.Wildcard = c.Wildcard
		}
		rules[i] = r
	}
	return rules
}

// Filter returns the file selection part of the configuration.
func (c Config) Filter() Filter {
	return Filter{Extensions: c.Extensions, Exclude: c.Exclude}
}
