package lexer

import (
	"errors"
	"strings"
)

// Token is a matched lexeme with its identifier and location.
type Token[ID comparable] struct {
	ID     ID
	Lexeme string
	Loc    Location
	Span   Span
}

// Tokenize collects every token of input. At the first unmatched position
// it returns the tokens collected so far and a *SyntaxError.
func (r *Registry[ID]) Tokenize(input []byte) ([]Token[ID], error) {
	var tokens []Token[ID]
	err := r.Analyze(input, func(loc Location, id ID, span Span) error {
		tokens = append(tokens, Token[ID]{
			ID:     id,
			Lexeme: span.Text(input),
			Loc:    loc,
			Span:   span,
		})
		return nil
	}, nil)
	return tokens, err
}

// TokenizeString is Tokenize over a string.
func (r *Registry[ID]) TokenizeString(input string) ([]Token[ID], error) {
	return r.Tokenize([]byte(input))
}

// Filter returns the tokens whose identifier is not listed in skip. The
// input slice is not modified.
func Filter[ID comparable](tokens []Token[ID], skip ...ID) []Token[ID] {
	if len(skip) == 0 {
		return tokens
	}
	drop := make(map[ID]struct{}, len(skip))
	for _, id := range skip {
		drop[id] = struct{}{}
	}
	out := make([]Token[ID], 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := drop[tok.ID]; !ok {
			out = append(out, tok)
		}
	}
	return out
}

var escaper = strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`)

// Escape makes control characters in a lexeme visible for display.
func Escape(lexeme string) string {
	return escaper.Replace(lexeme)
}

// AsSyntaxError returns the *SyntaxError wrapped by err, if any.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
