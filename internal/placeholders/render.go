package placeholders

import (
	"maps"
	"strings"
)

// Render substitutes the bound values into the source. Unbound
// placeholders are left verbatim. The template is not modified.
func (t *Template) Render() string {
	return t.substitute(t.effective(nil))
}

// RenderWith renders with extra layered over the bound values; extra wins.
func (t *Template) RenderWith(extra map[string]Value) string {
	return t.substitute(t.effective(extra))
}

// RenderPositional renders with values bound to placeholders in discovery
// order. Surplus values or placeholders are ignored.
func (t *Template) RenderPositional(values ...Value) string {
	return t.RenderWith(t.Associate(values))
}

// RenderStrict renders like RenderWith but fails with a *MissingError when
// any placeholder would be left unbound.
func (t *Template) RenderStrict(extra map[string]Value) (string, error) {
	data := t.effective(extra)
	var missing []string
	for _, tok := range t.tokens {
		if _, ok := data[tok.Name]; !ok {
			missing = append(missing, tok.Name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingError{MissingNames: missing}
	}
	return t.substitute(data), nil
}

// Associate zips positional values against the placeholder names in
// discovery order, truncating to the shorter of the two.
func (t *Template) Associate(values []Value) map[string]Value {
	n := min(len(values), len(t.tokens))
	m := make(map[string]Value, n)
	for i := 0; i < n; i++ {
		if values[i] != nil {
			m[t.tokens[i].Name] = values[i]
		}
	}
	return m
}

// Unbound returns the placeholder names that have no bound value.
func (t *Template) Unbound() []string {
	var names []string
	for _, tok := range t.tokens {
		if _, ok := t.values[tok.Name]; !ok {
			names = append(names, tok.Name)
		}
	}
	return names
}

// Resolve renders the template and makes the result its new source. With
// prune, values for names no longer present are dropped.
func (t *Template) Resolve(prune bool) *Template {
	t.SetSource(t.Render())
	if prune {
		for name := range t.values {
			if !t.Has(name) {
				t.opts.log.Debug("pruning value for %q", name)
				delete(t.values, name)
			}
		}
	}
	return t
}

func (t *Template) effective(extra map[string]Value) map[string]Value {
	data := maps.Clone(t.values)
	if data == nil {
		data = make(map[string]Value, len(extra))
	}
	for name, v := range extra {
		if v != nil {
			data[name] = v
		}
	}
	return data
}

// substitute replaces each placeholder literal in discovery order.
func (t *Template) substitute(data map[string]Value) string {
	result := t.text
	for _, tok := range t.tokens {
		v, ok := data[tok.Name]
		if !ok {
			continue
		}
		result = strings.ReplaceAll(result, tok.Literal, v.resolve(tok.Name, data))
	}
	return result
}
