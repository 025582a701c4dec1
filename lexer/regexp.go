package lexer

import "regexp"

// RE2 compiles patterns with package regexp.
var RE2 Engine = re2Engine{}

type re2Engine struct{}

func (re2Engine) Compile(expr string) (Pattern, error) {
	// \A pins the match to the start of the slice handed to MatchAt.
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return nil, err
	}
	return re2Pattern{re: re}, nil
}

type re2Pattern struct {
	re *regexp.Regexp
}

func (p re2Pattern) MatchAt(input []byte, pos int) (int, bool) {
	if pos > len(input) {
		return pos, false
	}
	loc := p.re.FindIndex(input[pos:])
	if loc == nil {
		return pos, false
	}
	return pos + loc[1], true
}
