// Package shape inspects the declared Go shape of operation types.
// Field names follow the json tag of each exported struct field, falling back
// to the Go field name, so that builder keys, decoding, and validation paths
// all agree on one naming scheme.
package shape

import (
	"reflect"
	"strings"
)

// Field describes one declared field of an operation struct.
type Field struct {
	Name  string
	Index int
}

// Fields lists the declared fields of t in declaration order.
// Pointer types are dereferenced; non-struct types declare no fields.
func Fields(t reflect.Type) []Field {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, ok := FieldName(sf)
		if !ok {
			continue
		}
		fields = append(fields, Field{Name: name, Index: i})
	}
	return fields
}

// FieldName resolves the key a struct field is addressed by.
// It reports false for fields excluded with a `json:"-"` tag.
func FieldName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return sf.Name, true
}

// Defaults snapshots the non-zero declared fields of v.
// A field holding its zero value is treated as carrying no default.
func Defaults(v reflect.Value) map[string]any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return map[string]any{}
		}
		v = v.Elem()
	}

	out := make(map[string]any)
	for _, f := range Fields(v.Type()) {
		fv := v.Field(f.Index)
		if fv.IsZero() {
			continue
		}
		out[f.Name] = fv.Interface()
	}
	return out
}

// Names returns the declared field names of t as a set.
func Names(t reflect.Type) map[string]struct{} {
	fields := Fields(t)
	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		names[f.Name] = struct{}{}
	}
	return names
}

// SplitNamespace turns a validator namespace such as "CreateOrder.items[0].sku"
// into path segments relative to the root struct: ["items", "0", "sku"].
// Map keys and slice indices become their own segments; bracket contents are
// taken verbatim, so a map key may contain dots.
func SplitNamespace(ns string) []string {
	segments := []string{}

	i := nameEnd(ns, 0)
	for i < len(ns) {
		switch ns[i] {
		case '.':
			end := nameEnd(ns, i+1)
			if end > i+1 {
				segments = append(segments, ns[i+1:end])
			}
			i = end
		case '[':
			closing := strings.IndexByte(ns[i+1:], ']')
			if closing < 0 {
				return append(segments, ns[i+1:])
			}
			segments = append(segments, ns[i+1:i+1+closing])
			i += closing + 2
		default:
			end := nameEnd(ns, i)
			segments = append(segments, ns[i:end])
			i = end
		}
	}
	return segments
}

// nameEnd returns the index of the first '.' or '[' at or after start.
func nameEnd(ns string, start int) int {
	for i := start; i < len(ns); i++ {
		if ns[i] == '.' || ns[i] == '[' {
			return i
		}
	}
	return len(ns)
}
