package internal

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/lexer"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()
	result := tt.Result{Tokens: []tt.Token{
		{Kind: "FUNCTION", Lexeme: "function", Start: lexer.Location{Line: 1, Column: 1}},
		{Kind: "NEWLINE", Lexeme: "\n", Start: lexer.Location{Line: 1, Column: 9, Offset: 8}},
		{Kind: "WHITESPACE", Lexeme: "\t", Start: lexer.Location{Line: 2, Column: 1, Offset: 9}},
	}}

	expected := "Line 1, col 1: FUNCTION 'function'\n" +
		"Line 1, col 9: NEWLINE '\\n'\n" +
		"Line 2, col 1: WHITESPACE '\\t'\n"
	assert.Equal(t, expected, FormatTokens(result))
}

func TestFormatIssuesWithArrows(t *testing.T) {
	t.Parallel()
	source := NewSourceCode([]byte("function Foo\n\tBar ?x\n"))
	issues := []tt.Issue{{
		Rule:     tt.RuleUnmatchedInput,
		Filename: "a.script",
		Message:  `no token definition matches near "?x"`,
		Start:    lexer.Location{Line: 2, Column: 6, Offset: 18},
	}}

	expected := "error: unmatched-input\n" +
		" --> a.script:2:6\n" +
		"  |\n" +
		"2 | " + strings.Repeat(" ", 8) + "Bar ?x\n" +
		"  | " + strings.Repeat(" ", 12) + "^ no token definition matches near \"?x\"\n\n"
	assert.Equal(t, expected, FormatIssuesWithArrows(issues, source))
}

func TestFormatIssuesWithoutSource(t *testing.T) {
	t.Parallel()
	issues := []tt.Issue{{
		Rule:    tt.RuleUnmatchedInput,
		Message: "no token definition matches",
		Start:   lexer.Location{Line: 1, Column: 1},
	}}

	out := FormatIssuesWithArrows(issues, nil)
	assert.Contains(t, out, " --> 1:1\n")
	assert.Contains(t, out, "^ no token definition matches")
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line     string
		column   int
		expected int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"\tx", 2, 8},
		{"ab\tx", 4, 8},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, calculateVisualColumn(tc.line, tc.column), "%q col %d", tc.line, tc.column)
	}
}
