// Package lexer splits a resident input buffer into typed tokens using an
// ordered list of (identifier, pattern) definitions.
//
// At every cursor position the definitions are tried in the order they were
// registered, and the first pattern that matches exactly at the cursor with a
// non-empty lexeme wins. There is no longest-match rule: callers encode
// disambiguation through ordering, e.g. keywords before a generic identifier.
//
//	b := lexer.NewBuilder[Kind](lexer.RE2)
//	b.MustDefine(Function, `function`)
//	b.MustDefine(Ident, `[a-zA-Z_][a-zA-Z0-9_]*`)
//	b.MustDefine(Space, `[ \t\n]+`)
//	reg := b.Build()
//
//	err := reg.Analyze(src, onMatch, onError)
//
// An unmatched position is reported to the error callback and the cursor is
// not advanced. The callback must return a non-nil error to stop the scan;
// returning nil makes Analyze retry the same position forever.
//
// The pattern dialect is pluggable through the Engine interface. RE2 uses
// package regexp, NewBacktracking uses github.com/dlclark/regexp2 and
// Literal matches exact strings.
package lexer
