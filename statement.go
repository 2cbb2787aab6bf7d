package anvil

import "strings"

// Assignment is a single top-level or object-field statement:
// "key (: parent)? (@[ attrs ])? := value ,?".
type Assignment struct {
	Key    string
	Attrs  []Attribute
	Value  Value
	Parent string // "" when no ": Parent" was present

	span Span
}

func (a *Assignment) Identifier() string { return a.Key }

func (a *Assignment) Span() Span { return a.span }

// String renders the assignment in native syntax, e.g. `key @[tag] := 1`.
func (a *Assignment) String() string {
	var b strings.Builder
	b.WriteString(a.Key)
	if a.Parent != "" {
		b.WriteString(": ")
		b.WriteString(a.Parent)
	}
	if len(a.Attrs) > 0 {
		b.WriteString(" ")
		b.WriteString(formatAttributeBlock(a.Attrs))
	}
	b.WriteString(" := ")
	b.WriteString(formatValue(a.Value, 0))
	return b.String()
}
