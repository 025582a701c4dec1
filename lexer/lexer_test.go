package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kind int

const (
	kindComment kind = iota
	kindFunction
	kindIdentifier
	kindInteger
	kindComma
	kindLBrace
	kindRBrace
	kindWhitespace
	kindNewline
)

func scriptRegistry(t *testing.T) *Registry[kind] {
	t.Helper()
	reg, err := NewRegistry(RE2,
		Definition[kind]{kindComment, `//.*\n`},
		Definition[kind]{kindFunction, `function`},
		Definition[kind]{kindIdentifier, `[a-zA-Z_][a-zA-Z0-9_]*`},
		Definition[kind]{kindInteger, `[0-9]+`},
		Definition[kind]{kindComma, `,`},
		Definition[kind]{kindLBrace, `{`},
		Definition[kind]{kindRBrace, `}`},
		Definition[kind]{kindWhitespace, `[ \t]+`},
		Definition[kind]{kindNewline, `\r?\n+`},
	)
	require.NoError(t, err)
	return reg
}

type event struct {
	loc    Location
	id     kind
	lexeme string
}

func collect(t *testing.T, reg *Registry[kind], input string) ([]event, []Location, error) {
	t.Helper()
	var (
		events []event
		errs   []Location
	)
	buf := []byte(input)
	err := reg.Analyze(buf, func(loc Location, id kind, span Span) error {
		events = append(events, event{loc: loc, id: id, lexeme: span.Text(buf)})
		return nil
	}, func(loc Location) error {
		errs = append(errs, loc)
		return &SyntaxError{Loc: loc}
	})
	return events, errs, err
}

func TestAnalyze_Script(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	events, errs, err := collect(t, reg, "function Foo\n{\n  Bar 1,2\n}\n")
	require.NoError(t, err)
	assert.Empty(t, errs)

	expected := []event{
		{Location{1, 1, 0}, kindFunction, "function"},
		{Location{1, 9, 8}, kindWhitespace, " "},
		{Location{1, 10, 9}, kindIdentifier, "Foo"},
		{Location{1, 13, 12}, kindNewline, "\n"},
		{Location{2, 1, 13}, kindLBrace, "{"},
		{Location{2, 2, 14}, kindNewline, "\n"},
		{Location{3, 1, 15}, kindWhitespace, "  "},
		{Location{3, 3, 17}, kindIdentifier, "Bar"},
		{Location{3, 6, 20}, kindWhitespace, " "},
		{Location{3, 7, 21}, kindInteger, "1"},
		{Location{3, 8, 22}, kindComma, ","},
		{Location{3, 9, 23}, kindInteger, "2"},
		{Location{3, 10, 24}, kindNewline, "\n"},
		{Location{4, 1, 25}, kindRBrace, "}"},
		{Location{4, 2, 26}, kindNewline, "\n"},
	}
	assert.Equal(t, expected, events)
}

func TestAnalyze_Priority(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		defs     []Definition[string]
		input    string
		expected []string
	}{
		{
			name: "keyword before identifier",
			defs: []Definition[string]{
				{"KEYWORD", `function`},
				{"IDENT", `[a-z]+`},
			},
			input:    "function",
			expected: []string{"KEYWORD"},
		},
		{
			name: "identifier before keyword shadows it",
			defs: []Definition[string]{
				{"IDENT", `[a-z]+`},
				{"KEYWORD", `function`},
			},
			input:    "function",
			expected: []string{"IDENT"},
		},
		{
			name: "first match wins over longer match",
			defs: []Definition[string]{
				{"INTEGER", `[0-9]+`},
				{"FLOAT", `[0-9]+\.[0-9]*`},
				{"DOT", `\.`},
			},
			input:    "1.5",
			expected: []string{"INTEGER", "DOT", "INTEGER"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg, err := NewRegistry(RE2, tt.defs...)
			require.NoError(t, err)

			var got []string
			err = reg.AnalyzeString(tt.input, func(_ Location, id string, _ Span) error {
				got = append(got, id)
				return nil
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAnalyze_ZeroLengthMatchIsSkipped(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(RE2,
		Definition[string]{"XS", `x*`},
		Definition[string]{"LETTER", `[a-z]`},
	)
	require.NoError(t, err)

	tokens, err := reg.TokenizeString("xxab")
	require.NoError(t, err)

	var ids []string
	for _, tok := range tokens {
		ids = append(ids, tok.ID)
		assert.Greater(t, tok.Span.Len(), 0)
	}
	assert.Equal(t, []string{"XS", "LETTER", "LETTER"}, ids)
}

func TestAnalyze_Progress(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)
	input := []byte("// header\nfunction Main\n{\n\tCall 10, 20\n}\n")

	next := 0
	var last Location
	err := reg.Analyze(input, func(loc Location, _ kind, span Span) error {
		assert.Equal(t, next, span.Start)
		assert.Equal(t, loc.Offset, span.Start)
		assert.Greater(t, span.Len(), 0)
		assert.GreaterOrEqual(t, loc.Offset, last.Offset)
		assert.GreaterOrEqual(t, loc.Line, last.Line)
		next = span.End
		last = loc
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, len(input), next)
}

func TestAnalyze_MultiLineToken(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(RE2,
		Definition[string]{"BLOCK", `/\*(?s:.*?)\*/`},
		Definition[string]{"IDENT", `[a-z]+`},
		Definition[string]{"SPACE", ` +`},
	)
	require.NoError(t, err)

	tokens, err := reg.TokenizeString("a /* x\ny\nz */ b")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, "BLOCK", tokens[2].ID)
	assert.Equal(t, Location{Line: 1, Column: 3, Offset: 2}, tokens[2].Loc)
	assert.Equal(t, Location{Line: 3, Column: 5, Offset: 13}, tokens[3].Loc)
	assert.Equal(t, Location{Line: 3, Column: 6, Offset: 14}, tokens[4].Loc)
}

func TestAnalyze_ColumnResetsAfterNewline(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(RE2,
		Definition[string]{"WORD", `[a-z]+`},
		Definition[string]{"NL", `\n+`},
	)
	require.NoError(t, err)

	tokens, err := reg.TokenizeString("abc\n\n\nde")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Location{Line: 4, Column: 1, Offset: 6}, tokens[2].Loc)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	calls := 0
	err := reg.Analyze(nil, func(Location, kind, Span) error {
		calls++
		return nil
	}, func(Location) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestAnalyze_StuckOnFailure(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(RE2, Definition[string]{"WORD", `[a-z]+`})
	require.NoError(t, err)

	errStop := errors.New("stop")
	var (
		matched []string
		failed  []Location
	)
	input := []byte("ab?cd")
	err = reg.Analyze(input, func(_ Location, _ string, span Span) error {
		matched = append(matched, span.Text(input))
		return nil
	}, func(loc Location) error {
		failed = append(failed, loc)
		if len(failed) < 3 {
			return nil
		}
		return errStop
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, []string{"ab"}, matched)
	want := Location{Line: 1, Column: 3, Offset: 2}
	assert.Equal(t, []Location{want, want, want}, failed)
}

func TestAnalyze_MatchCallbackAborts(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	errStop := errors.New("enough")
	calls := 0
	err := reg.AnalyzeString("function Foo", func(Location, kind, Span) error {
		calls++
		return errStop
	}, nil)
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)
}

func TestAnalyze_PanicUnwinds(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	assert.PanicsWithValue(t, "bail", func() {
		_ = reg.AnalyzeString("Foo ?", nil, func(Location) error {
			panic("bail")
		})
	})

	// the registry holds no scan state and stays usable
	tokens, err := reg.TokenizeString("Foo")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, kindIdentifier, tokens[0].ID)
}

func TestAnalyze_DefaultErrorHandler(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	err := reg.AnalyzeString("function Foo\n  @bad here\n", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)

	se, ok := AsSyntaxError(err)
	require.True(t, ok)
	assert.Equal(t, Location{Line: 2, Column: 3, Offset: 15}, se.Loc)
	assert.Equal(t, "@bad here", se.Near)
	assert.Equal(t, `line 2 col 3: no token definition matches near "@bad here"`, se.Error())
}

func TestTokenize_KeepsTokensBeforeError(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	tokens, err := reg.TokenizeString("Foo 1 #")
	require.Error(t, err)

	var ids []kind
	for _, tok := range tokens {
		ids = append(ids, tok.ID)
	}
	assert.Equal(t, []kind{kindIdentifier, kindWhitespace, kindInteger, kindWhitespace}, ids)
	assert.Equal(t, "Foo", tokens[0].Lexeme)
}

func TestFilter(t *testing.T) {
	t.Parallel()
	reg := scriptRegistry(t)

	tokens, err := reg.TokenizeString("Foo 1,\n2")
	require.NoError(t, err)

	filtered := Filter(tokens, kindWhitespace, kindNewline)
	var lexemes []string
	for _, tok := range filtered {
		lexemes = append(lexemes, tok.Lexeme)
	}
	assert.Equal(t, []string{"Foo", "1", ",", "2"}, lexemes)
	assert.Len(t, tokens, 6)
	assert.Equal(t, tokens, Filter(tokens))
}

func TestEscape(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `a\tb\r\n`, Escape("a\tb\r\n"))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestSpanAndLocation(t *testing.T) {
	t.Parallel()
	input := []byte("ab\ncd")

	s := Span{Start: 3, End: 5}
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Empty())
	assert.Equal(t, "cd", s.Text(input))
	assert.Equal(t, []byte("cd"), s.Bytes(input))
	assert.Equal(t, 2, cap(s.Bytes(input)))
	assert.True(t, Span{Start: 3, End: 3}.Empty())

	loc := Location{Line: 2, Column: 1, Offset: 3}
	assert.Equal(t, "line 2, col 1", loc.String())
	assert.True(t, loc.IsValid())
	assert.False(t, Location{}.IsValid())
}
