package placeholders

import "fmt"

// Value is something a placeholder can be replaced with: a Literal, a
// Nested template, or a Resolver callback. The set is closed.
type Value interface {
	resolve(name string, data map[string]Value) string
}

// Literal is a fixed replacement text.
type Literal struct {
	text string
}

// String returns a Literal for s.
func String(s string) Value { return Literal{text: s} }

// Any returns a Literal holding the display form of v.
func Any(v any) Value { return Literal{text: fmt.Sprint(v)} }

// Text returns the replacement text.
func (l Literal) Text() string { return l.text }

func (l Literal) resolve(string, map[string]Value) string { return l.text }

// Nested is a template rendered in place of a placeholder. It is rendered
// with the same effective data as the outer template, layered over its own
// values. The composition graph must be acyclic.
type Nested struct {
	tpl *Template
}

// Nest returns a Nested value for t.
func Nest(t *Template) Value {
	if t == nil {
		return nil
	}
	return Nested{tpl: t}
}

// Template returns the wrapped template.
func (n Nested) Template() *Template { return n.tpl }

func (n Nested) resolve(_ string, data map[string]Value) string {
	return n.tpl.RenderWith(data)
}

// Resolver computes a replacement from the placeholder name. It is called
// lazily at render time, only for placeholders present in the source.
type Resolver func(name string) string

// Func returns a Resolver value for f.
func Func(f func(name string) string) Value {
	if f == nil {
		return nil
	}
	return Resolver(f)
}

func (r Resolver) resolve(name string, _ map[string]Value) string { return r(name) }

// ValueOf converts a host value into a Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return nil
	case Value:
		return x
	case *Template:
		return Nest(x)
	case string:
		return String(x)
	case func(string) string:
		return Func(x)
	case func() string:
		if x == nil {
			return nil
		}
		return Func(func(string) string { return x() })
	case fmt.Stringer:
		return String(x.String())
	default:
		return Any(x)
	}
}

// Values converts a map of host values with ValueOf.
func Values(m map[string]any) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		if val := ValueOf(v); val != nil {
			out[k] = val
		}
	}
	return out
}

// Strings converts a map of strings into Literal values.
func Strings(m map[string]string) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = String(v)
	}
	return out
}

// isEmpty reports whether v should be treated as "no value".
func isEmpty(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Literal:
		return x.text == ""
	case Nested:
		return x.tpl == nil
	case Resolver:
		return x == nil
	}
	return false
}
