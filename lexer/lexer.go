package lexer

// MatchFunc receives each token in scan order. span indexes into the input
// passed to Analyze. A non-nil error stops the scan and is returned by
// Analyze.
type MatchFunc[ID comparable] func(loc Location, id ID, span Span) error

// ErrorFunc receives the location of an input position no definition
// matches. A non-nil error stops the scan and is returned by Analyze.
//
// Returning nil does not skip anything: the cursor stays where it is and the
// same position is tried again, which loops forever unless the callback
// eventually returns an error.
type ErrorFunc func(loc Location) error

// Analyze scans input from the start and calls onMatch for every token and
// onError for every position where no definition matches. It returns nil
// once the whole input is consumed, or the first error returned by a
// callback. A nil onMatch discards tokens; a nil onError stops the scan with
// a *SyntaxError.
//
// Callbacks run synchronously on the calling goroutine and may panic; no
// state outlives the call, so the registry stays usable afterwards.
func (r *Registry[ID]) Analyze(input []byte, onMatch MatchFunc[ID], onError ErrorFunc) error {
	if onError == nil {
		onError = func(loc Location) error { return newSyntaxError(input, loc) }
	}

	patterns := r.bind(input)
	t := newTracker()
	cursor := 0
	for cursor < len(input) {
		loc := t.at(cursor)

		i, span := match(patterns, input, cursor)
		if i < 0 {
			if err := onError(loc); err != nil {
				return err
			}
			continue
		}

		if onMatch != nil {
			if err := onMatch(loc, r.entries[i].id, span); err != nil {
				return err
			}
		}
		t.advance(input, span.Start, span.End)
		cursor = span.End
	}
	return nil
}

// AnalyzeString is Analyze over a string.
func (r *Registry[ID]) AnalyzeString(input string, onMatch MatchFunc[ID], onError ErrorFunc) error {
	return r.Analyze([]byte(input), onMatch, onError)
}

// match returns the index of the first pattern matching a non-empty
// lexeme at cursor, with its span. It returns -1 and an empty span at
// cursor when nothing matches.
func match(patterns []Pattern, input []byte, cursor int) (int, Span) {
	for i, p := range patterns {
		end, ok := p.MatchAt(input, cursor)
		if !ok || end <= cursor || end > len(input) {
			continue
		}
		return i, Span{Start: cursor, End: end}
	}
	return -1, Span{Start: cursor, End: cursor}
}
