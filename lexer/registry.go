package lexer

// Definition pairs a token identifier with its pattern text.
type Definition[ID comparable] struct {
	ID   ID
	Expr string
}

type entry[ID comparable] struct {
	id      ID
	expr    string
	pattern Pattern
}

// Builder accumulates definitions. Patterns are compiled as they are
// defined, so an invalid pattern is rejected before any scan can start.
type Builder[ID comparable] struct {
	engine  Engine
	entries []entry[ID]
}

// NewBuilder returns a Builder compiling patterns with engine. A nil
// engine means RE2.
func NewBuilder[ID comparable](engine Engine) *Builder[ID] {
	if engine == nil {
		engine = RE2
	}
	return &Builder[ID]{engine: engine}
}

// Define compiles expr and appends it with the lowest priority so far.
// On error nothing is appended.
func (b *Builder[ID]) Define(id ID, expr string) error {
	p, err := b.engine.Compile(expr)
	if err != nil {
		return &DefinitionError{Index: len(b.entries), ID: id, Expr: expr, Err: err}
	}
	if p == nil {
		return &DefinitionError{Index: len(b.entries), ID: id, Expr: expr, Err: errNilPattern}
	}
	b.entries = append(b.entries, entry[ID]{id: id, expr: expr, pattern: p})
	return nil
}

// MustDefine is like Define but panics on error.
func (b *Builder[ID]) MustDefine(id ID, expr string) *Builder[ID] {
	if err := b.Define(id, expr); err != nil {
		panic(err)
	}
	return b
}

// Len returns the number of definitions accepted so far.
func (b *Builder[ID]) Len() int { return len(b.entries) }

// Build returns a Registry holding a snapshot of the current definitions.
// Later calls to Define do not affect it.
func (b *Builder[ID]) Build() *Registry[ID] {
	entries := make([]entry[ID], len(b.entries))
	copy(entries, b.entries)
	return &Registry[ID]{entries: entries}
}

// Registry is an immutable, priority-ordered set of compiled definitions.
// It is safe for concurrent scans as long as the engine's patterns are.
type Registry[ID comparable] struct {
	entries []entry[ID]
}

// NewRegistry compiles defs in order. It fails on the first invalid one.
func NewRegistry[ID comparable](engine Engine, defs ...Definition[ID]) (*Registry[ID], error) {
	b := NewBuilder[ID](engine)
	for _, d := range defs {
		if err := b.Define(d.ID, d.Expr); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Len returns the number of definitions.
func (r *Registry[ID]) Len() int { return len(r.entries) }

// IDs returns the identifiers in priority order.
func (r *Registry[ID]) IDs() []ID {
	ids := make([]ID, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.id
	}
	return ids
}

// Definitions returns the definitions in priority order.
func (r *Registry[ID]) Definitions() []Definition[ID] {
	defs := make([]Definition[ID], len(r.entries))
	for i, e := range r.entries {
		defs[i] = Definition[ID]{ID: e.id, Expr: e.expr}
	}
	return defs
}
