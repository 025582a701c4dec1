package lexer

import (
	"bytes"
	"errors"
)

// Literal compiles patterns that match their own text exactly.
var Literal Engine = literalEngine{}

type literalEngine struct{}

func (literalEngine) Compile(expr string) (Pattern, error) {
	if expr == "" {
		return nil, errors.New("empty literal")
	}
	return literalPattern(expr), nil
}

type literalPattern []byte

func (p literalPattern) MatchAt(input []byte, pos int) (int, bool) {
	if pos > len(input) || !bytes.HasPrefix(input[pos:], p) {
		return pos, false
	}
	return pos + len(p), true
}
