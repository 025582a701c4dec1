package internal

import (
	"fmt"
	"os"
	"strings"

	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/lexer"
)

// Engine tokenizes files with a fixed registry.
type Engine struct {
	registry     *lexer.Registry[string]
	ignoredKinds map[string]bool
	cache        *Cache
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCache makes Run reuse results for unchanged files.
func WithCache(cache *Cache) EngineOption {
	return func(e *Engine) { e.cache = cache }
}

// NewEngine creates a new tokenizing engine.
func NewEngine(registry *lexer.Registry[string], opts ...EngineOption) (*Engine, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, fmt.Errorf("engine needs at least one token definition")
	}
	engine := &Engine{
		registry:     registry,
		ignoredKinds: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Run tokenizes the given file.
func (e *Engine) Run(filename string) (tt.Result, error) {
	if e.cache != nil {
		if result, ok := e.cache.Get(filename); ok {
			return e.filter(result), nil
		}
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return tt.Result{}, fmt.Errorf("error reading file: %w", err)
	}

	result := e.tokenize(source)
	result.Filename = filename
	for i := range result.Issues {
		result.Issues[i].Filename = filename
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, result); err != nil {
			return tt.Result{}, fmt.Errorf("error caching result: %w", err)
		}
	}
	return e.filter(result), nil
}

// RunSource tokenizes the given source.
func (e *Engine) RunSource(source []byte) (tt.Result, error) {
	return e.filter(e.tokenize(source)), nil
}

// IgnoreKind drops tokens of the given kind from results. It must not be
// called while files are being processed.
func (e *Engine) IgnoreKind(kind string) {
	e.ignoredKinds[kind] = true
}

// Kinds returns the token kinds in priority order.
func (e *Engine) Kinds() []string {
	return e.registry.IDs()
}

func (e *Engine) tokenize(source []byte) tt.Result {
	var result tt.Result
	err := e.registry.Analyze(source, func(loc lexer.Location, kind string, span lexer.Span) error {
		result.Tokens = append(result.Tokens, tt.Token{
			Kind:   kind,
			Lexeme: span.Text(source),
			Start:  loc,
		})
		return nil
	}, nil)

	if se, ok := lexer.AsSyntaxError(err); ok {
		result.Issues = append(result.Issues, tt.Issue{
			Rule:    tt.RuleUnmatchedInput,
			Message: unmatchedMessage(se),
			Start:   se.Loc,
		})
	}
	return result
}

func unmatchedMessage(se *lexer.SyntaxError) string {
	if se.Near == "" {
		return "no token definition matches"
	}
	return fmt.Sprintf("no token definition matches near %q", se.Near)
}

func (e *Engine) filter(result tt.Result) tt.Result {
	if len(e.ignoredKinds) == 0 {
		return result
	}
	tokens := make([]tt.Token, 0, len(result.Tokens))
	for _, tok := range result.Tokens {
		if !e.ignoredKinds[tok.Kind] {
			tokens = append(tokens, tok)
		}
	}
	result.Tokens = tokens
	return result
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// NewSourceCode splits content into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
