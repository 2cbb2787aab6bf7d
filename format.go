package anvil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// AsFormattedString renders the module in canonical native syntax, one
// statement per line, for debugging.
func (m *Module) AsFormattedString() string {
	var b strings.Builder
	if len(m.attrs) > 0 {
		b.WriteString(formatAttributeBlock(m.attrs))
		b.WriteString("\n")
	}
	for _, stmt := range m.statements {
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	return b.String()
}

func formatAttributeBlock(attrs []Attribute) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("@[")
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Key)
		if a.HasValue() {
			b.WriteString("=")
			b.WriteString(formatValue(a.Value, 0))
		}
	}
	b.WriteString("]")
	return b.String()
}

func formatValue(v Value, depth int) string {
	if v == nil {
		return "null"
	}
	switch val := v.(type) {
	case *NullValue:
		return "null"
	case *BooleanValue:
		return strconv.FormatBool(val.Value)
	case *NumericValue:
		if val.IsFloat() {
			f, _ := val.AsDouble()
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		i, _ := val.AsLong()
		return strconv.FormatInt(i, 10)
	case *StringValue:
		return strconv.Quote(val.Value)
	case *BareValue:
		return val.Value
	case *BlobValue:
		if val.Value.Tag != "" {
			return fmt.Sprintf("@%s`%s`", val.Value.Tag, val.Value.Content)
		}
		return fmt.Sprintf("`%s`", val.Value.Content)
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = formatValue(e, depth+1)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *TupleValue:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = formatValue(e, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ObjectValue:
		var b strings.Builder
		b.WriteString("{ ")
		for i, stmt := range val.module.statements {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(stmt.String())
		}
		b.WriteString(" }")
		return b.String()
	default:
		return fmt.Sprintf("<unknown:%T>", v)
	}
}

// ToMap converts the module into plain Go values (map[string]any,
// []any, string, int64, float64, bool, nil) suitable for re-encoding
// with encoding/json or goccy/go-yaml.
func (m *Module) ToMap() map[string]any {
	out := make(map[string]any, len(m.statements))
	for _, stmt := range m.statements {
		out[stmt.Key] = valueToNative(stmt.Value)
	}
	return out
}

func valueToNative(v Value) any {
	switch val := v.(type) {
	case *NullValue:
		return nil
	case *BooleanValue:
		return val.Value
	case *NumericValue:
		if val.IsFloat() {
			f, _ := val.AsDouble()
			return f
		}
		i, _ := val.AsLong()
		return i
	case *StringValue:
		return val.Value
	case *BareValue:
		return val.Value
	case *BlobValue:
		return val.Value.Content
	case *ArrayValue:
		out := make([]any, len(val.Elements))
		for i, e := range val.Elements {
			out[i] = valueToNative(e)
		}
		return out
	case *TupleValue:
		out := make([]any, len(val.Elements))
		for i, e := range val.Elements {
			out[i] = valueToNative(e)
		}
		return out
	case *ObjectValue:
		return val.module.ToMap()
	default:
		return nil
	}
}

// FormatJSON writes the module as JSON via encoding/json.
func (m *Module) FormatJSON(indent int) ([]byte, error) {
	if indent > 0 {
		return json.MarshalIndent(m.ToMap(), "", strings.Repeat(" ", indent))
	}
	return json.Marshal(m.ToMap())
}

// FormatYAML writes the module as YAML via goccy/go-yaml, mirroring the
// flow-vs-block choice on whether indent is zero.
func (m *Module) FormatYAML(ctx context.Context, indent int) ([]byte, error) {
	if indent <= 0 {
		return yaml.MarshalContext(ctx, m.ToMap(), yaml.Flow(true))
	}
	return yaml.MarshalContext(ctx, m.ToMap(), yaml.Indent(indent))
}
