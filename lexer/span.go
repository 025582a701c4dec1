package lexer

// Span is the half-open byte range [Start, End) of a lexeme in the input
// buffer. It does not own any data; the buffer must outlive it.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) Empty() bool { return s.End <= s.Start }

// Bytes returns the lexeme as a sub-slice of input. The result aliases
// input and must be copied if it is retained after input is modified.
func (s Span) Bytes(input []byte) []byte {
	return input[s.Start:s.End:s.End]
}

// Text returns a copy of the lexeme.
func (s Span) Text(input []byte) string {
	return string(input[s.Start:s.End])
}
