package lexer

import (
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// BacktrackingOption configures NewBacktracking.
type BacktrackingOption func(*backtrackingEngine)

// WithOptions sets the regexp2 compile options, e.g. regexp2.IgnoreCase.
func WithOptions(opts regexp2.RegexOptions) BacktrackingOption {
	return func(e *backtrackingEngine) { e.opts = opts }
}

// WithMatchTimeout bounds the time spent on a single match attempt. A match
// that times out counts as no match.
func WithMatchTimeout(d time.Duration) BacktrackingOption {
	return func(e *backtrackingEngine) { e.timeout = d }
}

// NewBacktracking returns an Engine backed by regexp2, a backtracking
// engine supporting lookaround and backreferences.
//
// regexp2 works on runes. The input is decoded once per scan; an invalid
// UTF-8 byte decodes to one rune, so offsets always map back to the bytes
// of the original buffer.
func NewBacktracking(opts ...BacktrackingOption) Engine {
	e := &backtrackingEngine{opts: regexp2.None}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type backtrackingEngine struct {
	opts    regexp2.RegexOptions
	timeout time.Duration
}

func (e *backtrackingEngine) Compile(expr string) (Pattern, error) {
	re, err := regexp2.Compile(`\G(?:`+expr+`)`, e.opts)
	if err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}
	return backtrackingPattern{re: re}, nil
}

type backtrackingPattern struct {
	re *regexp2.Regexp
}

// MatchAt decodes input on every call. Scans go through bind instead.
func (p backtrackingPattern) MatchAt(input []byte, pos int) (int, bool) {
	return p.matchRunes(decodeRunes(input), pos)
}

func (p backtrackingPattern) bind(_ []byte, s *scanInput) Pattern {
	return boundBacktracking{p: p, runes: s.decoded()}
}

func (p backtrackingPattern) matchRunes(ri *runeInput, pos int) (int, bool) {
	start, ok := ri.runeIndex(pos)
	if !ok {
		return pos, false
	}
	m, err := p.re.FindRunesMatchStartingAt(ri.runes, start)
	if err != nil || m == nil {
		return pos, false
	}
	return ri.offsets[m.Index+m.Length], true
}

// boundBacktracking is a backtrackingPattern tied to one decoded input.
type boundBacktracking struct {
	p     backtrackingPattern
	runes *runeInput
}

func (b boundBacktracking) MatchAt(_ []byte, pos int) (int, bool) {
	return b.p.matchRunes(b.runes, pos)
}

// runeInput is a buffer decoded into runes with the byte offset of every
// rune boundary.
type runeInput struct {
	runes   []rune
	offsets []int // offsets[i] is the byte offset of runes[i]; one extra for the end
	index   []int // index[b] is the rune starting at byte b, or -1 inside a rune
}

func decodeRunes(input []byte) *runeInput {
	ri := &runeInput{
		runes:   make([]rune, 0, len(input)),
		offsets: make([]int, 0, len(input)+1),
		index:   make([]int, len(input)+1),
	}
	for pos := 0; pos < len(input); {
		r, size := utf8.DecodeRune(input[pos:])
		ri.index[pos] = len(ri.runes)
		for i := pos + 1; i < pos+size; i++ {
			ri.index[i] = -1
		}
		ri.runes = append(ri.runes, r)
		ri.offsets = append(ri.offsets, pos)
		pos += size
	}
	ri.index[len(input)] = len(ri.runes)
	ri.offsets = append(ri.offsets, len(input))
	return ri
}

func (ri *runeInput) runeIndex(pos int) (int, bool) {
	if pos < 0 || pos >= len(ri.index) || ri.index[pos] < 0 {
		return 0, false
	}
	return ri.index[pos], true
}
