package types

import "github.com/gnolang/luthor/lexer"

// RuleUnmatchedInput names issues raised for input no token matches.
const RuleUnmatchedInput = "unmatched-input"

// Token is a token of a processed file.
type Token struct {
	Kind   string         `json:"kind"`
	Lexeme string         `json:"lexeme"`
	Start  lexer.Location `json:"start"`
}

// Issue is a problem found while tokenizing a file.
type Issue struct {
	Rule     string         `json:"rule"`
	Filename string         `json:"filename"`
	Message  string         `json:"message"`
	Start    lexer.Location `json:"start"`
}

// Result is the outcome of tokenizing one file. Tokens delivered before an
// issue are kept.
type Result struct {
	Filename string  `json:"filename"`
	Tokens   []Token `json:"tokens"`
	Issues   []Issue `json:"issues,omitempty"`
}

// HasIssues reports whether r carries any issue.
func (r Result) HasIssues() bool { return len(r.Issues) > 0 }
