package template

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Rule is a named template as written in a rules file. An empty Wildcard
// means DefaultWildcard. Rewrite is optional; rules without one only report.
type Rule struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
	Wildcard string `yaml:"wildcard,omitempty"`
	Message  string `yaml:"message,omitempty"`
	Rewrite  string `yaml:"rewrite,omitempty"`
}

type RulesConfig struct {
	Rules []Rule `yaml:"rules"`
}

// CompiledRule is a Rule whose templates are ready to match.
type CompiledRule struct {
	Rule
	Pattern  *Template
	Replacer *Replacer
}

// Compile compiles the rule's template and rewrite.
func (r Rule) Compile() (*CompiledRule, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("rule with template %q has no name", r.Template)
	}
	wildcard := r.Wildcard
	if wildcard == "" {
		wildcard = DefaultWildcard
	}
	pattern, err := Compile(r.Template, wildcard)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.Name, err)
	}

	cr := &CompiledRule{Rule: r, Pattern: pattern}
	cr.Wildcard = wildcard
	if r.Rewrite != "" {
		rewrite, err := Compile(r.Rewrite, wildcard)
		if err != nil {
			return nil, fmt.Errorf("rule %s rewrite: %w", r.Name, err)
		}
		if cr.Replacer, err = NewReplacer(pattern, rewrite); err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
	}
	return cr, nil
}

// Load reads rules from a YAML file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses rules from YAML.
func LoadBytes(data []byte) ([]Rule, error) {
	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.Rules, nil
}

// Apply runs the rewrite of every rule over subject, in order. Rules that
// fail to compile or have no rewrite are skipped.
func Apply(logger *zap.Logger, subject string, rules []Rule) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := subject
	for _, rule := range rules {
		cr, err := rule.Compile()
		if err != nil {
			logger.Warn("skipping rule", zap.String("rule", rule.Name), zap.Error(err))
			continue
		}
		if cr.Replacer == nil {
			continue
		}
		newResult, n := cr.Replacer.ReplaceAll(result)
		if n > 0 {
			logger.Debug("applied rule",
				zap.String("rule", rule.Name),
				zap.Int("replacements", n),
			)
		}
		result = newResult
	}
	return result
}
