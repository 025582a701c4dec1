package lexer

import (
	"fmt"
	"strings"
)

// Engine compiles pattern text into a reusable Pattern.
type Engine interface {
	Compile(expr string) (Pattern, error)
}

// Pattern is a compiled matcher.
type Pattern interface {
	// MatchAt reports whether the pattern matches starting exactly at pos
	// and, if so, the end offset (exclusive) of the match.
	MatchAt(input []byte, pos int) (end int, ok bool)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(expr string) (Pattern, error)

func (f EngineFunc) Compile(expr string) (Pattern, error) { return f(expr) }

// EngineByName resolves the engine names accepted in configuration files.
func EngineByName(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "re2", "regexp":
		return RE2, nil
	case "regexp2", "backtracking":
		return NewBacktracking(), nil
	case "literal":
		return Literal, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
