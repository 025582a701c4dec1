package tokenize

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/luthor/internal"
	"github.com/gnolang/luthor/lexer"
)

// DefaultConfigPath is used when no configuration path is given.
const DefaultConfigPath = ".luthor.yaml"

// Config describes a token set and how files are processed with it.
type Config struct {
	Name       string        `yaml:"name"`
	Engine     string        `yaml:"engine,omitempty"`
	IgnoreCase bool          `yaml:"ignore_case,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Extensions []string      `yaml:"extensions,omitempty"`
	Skip       []string      `yaml:"skip,omitempty"`
	Tokens     []TokenRule   `yaml:"tokens"`
}

// TokenRule is one token definition. Order in Config.Tokens is priority.
type TokenRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// DefaultConfig returns the token set used by `luthor init`.
func DefaultConfig() Config {
	return Config{
		Name:       "luthor",
		Engine:     "re2",
		Extensions: []string{".script", ".txt"},
		Tokens: []TokenRule{
			{Name: "COMMENT", Pattern: `//.*\n`},
			{Name: "FUNCTION", Pattern: `function`},
			{Name: "SCRIPT", Pattern: `script`},
			{Name: "IDENTIFIER", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Name: "INTEGER", Pattern: `[0-9]+`},
			{Name: "FLOAT", Pattern: `[0-9]+\.[0-9]*`},
			{Name: "STRING", Pattern: `".*"`},
			{Name: "COMMA", Pattern: `,`},
			{Name: "LBRACE", Pattern: `\{`},
			{Name: "RBRACE", Pattern: `\}`},
			{Name: "WHITESPACE", Pattern: `[ \t]+`},
			{Name: "NEWLINE", Pattern: `(\r?\n)+`},
		},
	}
}

// ParseConfigurationFile reads and validates a YAML configuration.
func ParseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("error decoding %s: %w", configurationPath, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", configurationPath, err)
	}
	return config, nil
}

// WriteConfigurationFile writes config as YAML to path.
func WriteConfigurationFile(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// Validate checks the parts of the configuration that do not need
// compiling.
func (c Config) Validate() error {
	if len(c.Tokens) == 0 {
		return errors.New("no tokens defined")
	}
	for i, t := range c.Tokens {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("token %d: empty name", i)
		}
		if t.Pattern == "" {
			return fmt.Errorf("token %d (%s): empty pattern", i, t.Name)
		}
	}
	engine, err := lexer.EngineByName(c.engineName())
	if err != nil {
		return err
	}
	if c.IgnoreCase && engine == lexer.Literal {
		return errors.New("ignore_case is not supported by the literal engine")
	}
	return nil
}

// PatternEngine returns the engine selected by the configuration.
func (c Config) PatternEngine() (lexer.Engine, error) {
	name := c.engineName()
	switch name {
	case "regexp2", "backtracking":
		opts := []lexer.BacktrackingOption{lexer.WithMatchTimeout(c.Timeout)}
		if c.IgnoreCase {
			opts = append(opts, lexer.WithOptions(regexp2.IgnoreCase))
		}
		return lexer.NewBacktracking(opts...), nil
	}
	engine, err := lexer.EngineByName(name)
	if err != nil || !c.IgnoreCase || engine != lexer.RE2 {
		return engine, err
	}
	return lexer.EngineFunc(func(expr string) (lexer.Pattern, error) {
		return lexer.RE2.Compile("(?i:" + expr + ")")
	}), nil
}

func (c Config) engineName() string {
	return strings.ToLower(strings.TrimSpace(c.Engine))
}

// Fingerprint identifies the token set and matching options. Results
// cached under one fingerprint are never served for another.
func (c Config) Fingerprint() (string, error) {
	d, err := yaml.Marshal(struct {
		Engine     string        `yaml:"engine"`
		IgnoreCase bool          `yaml:"ignore_case"`
		Timeout    time.Duration `yaml:"timeout"`
		Tokens     []TokenRule   `yaml:"tokens"`
	}{c.engineName(), c.IgnoreCase, c.Timeout, c.Tokens})
	if err != nil {
		return "", fmt.Errorf("error fingerprinting configuration: %w", err)
	}
	return internal.Fingerprint(d), nil
}

// Registry compiles the configured tokens in order.
func (c Config) Registry() (*lexer.Registry[string], error) {
	engine, err := c.PatternEngine()
	if err != nil {
		return nil, err
	}
	b := lexer.NewBuilder[string](engine)
	for _, t := range c.Tokens {
		if err := b.Define(t.Name, t.Pattern); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
