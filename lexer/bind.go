package lexer

// binder is implemented by patterns that prepare the input once per scan
// instead of on every MatchAt call.
type binder interface {
	bind(input []byte, s *scanInput) Pattern
}

// scanInput holds per-scan conversions of the input shared by all patterns
// of a registry.
type scanInput struct {
	input []byte
	runes *runeInput
}

func (s *scanInput) decoded() *runeInput {
	if s.runes == nil {
		s.runes = decodeRunes(s.input)
	}
	return s.runes
}

// bind returns the patterns of r in priority order, prepared for input.
func (r *Registry[ID]) bind(input []byte) []Pattern {
	s := &scanInput{input: input}
	patterns := make([]Pattern, len(r.entries))
	for i, e := range r.entries {
		if b, ok := e.pattern.(binder); ok {
			patterns[i] = b.bind(input, s)
			continue
		}
		patterns[i] = e.pattern
	}
	return patterns
}
