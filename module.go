package anvil

// Module is the top-level immutable artifact produced by a successful
// parse: namespace, provenance, merged module-level attributes, the
// ordered statement list, and a key→value index built in statement
// order. Once constructed it is never mutated, so it is safe to share
// by reference across goroutines without synchronization.
type Module struct {
	namespace  string
	sourceID   string
	dialect    Dialect
	attrs      []Attribute
	statements []*Assignment
	keys       []string
	index      map[string]Value
}

func (m *Module) Namespace() string        { return m.namespace }
func (m *Module) Source() string           { return m.sourceID }
func (m *Module) Dialect() Dialect         { return m.dialect }
func (m *Module) Attributes() []Attribute  { return append([]Attribute(nil), m.attrs...) }
func (m *Module) Statements() []*Assignment {
	out := make([]*Assignment, len(m.statements))
	copy(out, m.statements)
	return out
}

// buildModule assembles a Module from a flat statement list, for both the
// root module and every nested Object value. It reports nothing: a
// duplicated top-level key is left out of the index after its first
// occurrence, and composite invariants are not re-checked here (IsValid
// does that on request).
func buildModule(namespace, sourceID string, dialect Dialect, moduleAttrs []Attribute, statements []*Assignment) *Module {
	m := &Module{
		namespace:  namespace,
		sourceID:   sourceID,
		dialect:    dialect,
		attrs:      moduleAttrs,
		statements: statements,
		index:      make(map[string]Value, len(statements)),
	}
	for _, stmt := range statements {
		if _, exists := m.index[stmt.Key]; exists {
			// Later duplicates are rejected rather than overwriting; the
			// parser-level caller is responsible for surfacing
			// DuplicateTopLevelKey as a ParseIssue. The index simply
			// keeps the first occurrence.
			continue
		}
		m.index[stmt.Key] = stmt.Value
		m.keys = append(m.keys, stmt.Key)
	}
	return m
}

// duplicateTopLevelKeys reports, in order, every statement key whose
// first occurrence was not at its own index — i.e. the later
// occurrences of a top-level duplicate.
func duplicateTopLevelKeys(statements []*Assignment) []string {
	seen := map[string]bool{}
	var dups []string
	for _, stmt := range statements {
		if seen[stmt.Key] {
			dups = append(dups, stmt.Key)
			continue
		}
		seen[stmt.Key] = true
	}
	return dups
}

// validateValueTree recursively re-checks object key uniqueness and
// tuple arity beneath v. It repeats checks the parser already performs;
// the parse path itself does not call it.
func validateValueTree(v Value) bool {
	switch val := v.(type) {
	case *ObjectValue:
		seen := map[string]bool{}
		for _, stmt := range val.module.statements {
			if seen[stmt.Key] {
				return false
			}
			seen[stmt.Key] = true
			if !validateValueTree(stmt.Value) {
				return false
			}
		}
		return true
	case *ArrayValue:
		for _, e := range val.Elements {
			if !validateValueTree(e) {
				return false
			}
		}
		return true
	case *TupleValue:
		if len(val.Elements) < 2 {
			return false
		}
		for _, e := range val.Elements {
			if !validateValueTree(e) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsValid checks top-level key uniqueness and runs the module's own tree
// through validateValueTree, for callers that construct a tree outside
// the normal parser path (e.g. tests). Parsing does not call it; the
// parser rejects these cases with its own ParseIssues.
func (m *Module) IsValid() bool {
	if len(duplicateTopLevelKeys(m.statements)) > 0 {
		return false
	}
	for _, stmt := range m.statements {
		if !validateValueTree(stmt.Value) {
			return false
		}
	}
	return true
}
