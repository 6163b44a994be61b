package definitions

import (
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// Build creates a Template from the definition. The definition's own pattern,
// when set, takes precedence over a pattern given in opts. Nested templates
// are built with the same options.
func (d *Definition) Build(opts ...placeholders.Option) (*placeholders.Template, error) {
	return build(d.Source, d.Pattern, d.Data, d.Match, opts)
}

// Build creates the nested Template.
func (n *NestedDef) Build(opts ...placeholders.Option) (*placeholders.Template, error) {
	return build(n.Template, n.Pattern, n.Data, n.Match, opts)
}

func build(source, pattern string, data map[string]ValueDef, match map[string]string, opts []placeholders.Option) (*placeholders.Template, error) {
	all := opts
	if pattern != "" {
		all = append(append([]placeholders.Option{}, opts...), placeholders.WithPattern(pattern))
	}

	t, err := placeholders.New(source, all...)
	if err != nil {
		return nil, &tplerrors.DefinitionError{Op: "build", Err: err}
	}
	if err := t.SetMatchMap(match, false); err != nil {
		return nil, &tplerrors.DefinitionError{Op: "build", Err: err}
	}

	values := make(map[string]placeholders.Value, len(data))
	for name, v := range data {
		if v.Nested == nil {
			values[name] = placeholders.String(v.Literal)
			continue
		}
		// Nested templates take the caller's options, not this level's pattern.
		nested, err := v.Nested.Build(opts...)
		if err != nil {
			return nil, err
		}
		values[name] = placeholders.Nest(nested)
	}
	t.SetDataMap(values, false)

	return t, nil
}

// FromTemplate captures a template's source, pattern, values and
// constraints as a definition. Resolver values cannot be stored and are
// skipped. A pattern equal to parentPattern is omitted.
func FromTemplate(t *placeholders.Template, parentPattern string) *Definition {
	def := &Definition{
		SchemaVersion: SchemaVersion,
		Source:        t.Source(),
		Data:          dataDefs(t),
		Match:         t.Constraints(),
	}
	if p := t.PatternString(); p != parentPattern {
		def.Pattern = p
	}
	if len(def.Match) == 0 {
		def.Match = nil
	}
	return def
}

func dataDefs(t *placeholders.Template) map[string]ValueDef {
	data := t.Data()
	if len(data) == 0 {
		return nil
	}

	out := make(map[string]ValueDef, len(data))
	for name, v := range data {
		switch x := v.(type) {
		case placeholders.Literal:
			out[name] = ValueDef{Literal: x.Text()}
		case placeholders.Nested:
			inner := FromTemplate(x.Template(), t.PatternString())
			out[name] = ValueDef{Nested: &NestedDef{
				Template: inner.Source,
				Pattern:  inner.Pattern,
				Data:     inner.Data,
				Match:    inner.Match,
			}}
		}
	}
	return out
}
