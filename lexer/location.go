package lexer

import "fmt"

// Location is a position in the input. Line and Column are 1-based, Offset
// is the 0-based byte offset from the start of the buffer. Column counts
// bytes from the start of the line.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, col %d", l.Line, l.Column)
}

// IsValid reports whether l was produced by a scan.
func (l Location) IsValid() bool {
	return l.Line >= 1 && l.Column >= 1 && l.Offset >= 0
}

// tracker maintains line state across a scan. It is only advanced over
// consumed input.
type tracker struct {
	line      int
	lineStart int // offset of the first byte of the current line
}

func newTracker() tracker {
	return tracker{line: 1}
}

func (t *tracker) at(cursor int) Location {
	return Location{
		Line:   t.line,
		Column: 1 + cursor - t.lineStart,
		Offset: cursor,
	}
}

// advance accounts for the newlines in input[start:end].
func (t *tracker) advance(input []byte, start, end int) {
	for i := start; i < end; i++ {
		if input[i] == '\n' {
			t.line++
			t.lineStart = i + 1
		}
	}
}
