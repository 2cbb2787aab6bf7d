// Package anvil parses a hierarchical, human-authored configuration
// language (".aml"/".asl") into an immutable tagged-value tree.
//
// A hand-written recursive-descent parser (see parser.go) walks a source
// cursor (cursor.go) and produces Statements holding Values drawn from a
// closed variant algebra (value.go). The result is assembled into a
// Module (module.go), exposed to callers through a small lookup façade
// (lookup.go).
//
// There is no parser generator and no runtime expression evaluator:
// every production in the grammar is recognized by a dedicated function,
// and every value is fully materialized before ParseString/ParseFile/
// ParseReader return.
package anvil
