package lexer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is wrapped by every DefinitionError.
	ErrInvalidPattern = errors.New("invalid token pattern")
	// ErrNoMatch is wrapped by every SyntaxError.
	ErrNoMatch = errors.New("no token definition matches")
	// ErrUnknownEngine is returned by EngineByName.
	ErrUnknownEngine = errors.New("unknown pattern engine")

	errNilPattern = errors.New("engine returned a nil pattern")
)

// DefinitionError reports a pattern that failed to compile at definition
// time.
type DefinitionError struct {
	Index int    // position the definition would have taken in the registry
	ID    any    // identifier of the rejected definition
	Expr  string // pattern text
	Err   error  // error from the engine
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("definition %d (%v): %s %q: %v", e.Index, e.ID, ErrInvalidPattern, e.Expr, e.Err)
}

func (e *DefinitionError) Unwrap() []error { return []error{ErrInvalidPattern, e.Err} }

// SyntaxError reports an input position where no definition matches.
type SyntaxError struct {
	Loc  Location
	Near string // remaining input up to the end of the line
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("line %d col %d: %s", e.Loc.Line, e.Loc.Column, ErrNoMatch)
	}
	return fmt.Sprintf("line %d col %d: %s near %q", e.Loc.Line, e.Loc.Column, ErrNoMatch, e.Near)
}

func (e *SyntaxError) Unwrap() error { return ErrNoMatch }

func newSyntaxError(input []byte, loc Location) *SyntaxError {
	return &SyntaxError{Loc: loc, Near: restOfLine(input, loc.Offset)}
}

func restOfLine(input []byte, pos int) string {
	if pos >= len(input) {
		return ""
	}
	end := pos
	for end < len(input) && input[end] != '\n' && input[end] != '\r' {
		end++
	}
	return string(input[pos:end])
}
