package placeholders

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/logger"
)

func quiet() Option {
	return WithLogger(logger.New(io.Discard, logger.LevelDebug))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("{a}", WithPattern(`\{\w+\}`))
	require.Error(t, err)
	assert.True(t, tplerrors.IsInvalidPattern(err))

	pe, ok := tplerrors.AsPatternError(err)
	require.True(t, ok)
	assert.Equal(t, "pattern", pe.Kind)
}

func TestNew_InvalidDefaultConstraint(t *testing.T) {
	_, err := New("{a}", WithDefaultConstraint(`[`))
	require.Error(t, err)
	assert.True(t, tplerrors.IsInvalidConstraint(err))
}

func TestSetSource_Retokenizes(t *testing.T) {
	tpl := MustNew("{a} {b}", quiet())
	assert.Equal(t, []string{"a", "b"}, tpl.Names())

	tpl.SetSource("{c}")
	assert.Equal(t, []string{"c"}, tpl.Names())
	assert.Equal(t, "{c}", tpl.Source())
	assert.True(t, tpl.Has("c"))
	assert.False(t, tpl.Has("a"))
}

func TestSetData(t *testing.T) {
	tpl := MustNew("{a}", quiet())

	tpl.SetData("a", String("x")).SetData("unused", String("y"))
	assert.Len(t, tpl.Data(), 2)

	tpl.SetData("a", String(""))
	_, ok := tpl.Value("a")
	assert.False(t, ok, "empty value removes the binding")

	tpl.SetData("unused", nil)
	assert.Empty(t, tpl.Data())

	tpl.SetData("a", String("x")).UnsetData("a")
	assert.Empty(t, tpl.Data())
}

func TestSetDataMap(t *testing.T) {
	tpl := MustNew("{a} {b} {c}", quiet())
	tpl.SetData("a", String("1"))

	tpl.SetDataMap(map[string]Value{"b": String("2")}, true)
	assert.Equal(t, "1 2 {c}", tpl.Render())

	tpl.SetDataMap(map[string]Value{"b": String("two"), "c": String("3")}, true)
	assert.Equal(t, "1 two 3", tpl.Render())

	tpl.SetDataMap(map[string]Value{"c": String("3")}, false)
	assert.Equal(t, "{a} {b} 3", tpl.Render())
}

func TestData_ReturnsCopy(t *testing.T) {
	tpl := MustNew("{a}", quiet()).SetData("a", String("x"))
	data := tpl.Data()
	delete(data, "a")
	assert.Equal(t, "x", tpl.Render())
}

func TestSetMatch(t *testing.T) {
	tpl := MustNew("/user/{id}", quiet())

	require.NoError(t, tpl.SetMatch("id", `\d+`))
	assert.Equal(t, `\d+`, tpl.Constraint("id"))
	assert.Equal(t, DefaultConstraint, tpl.Constraint("other"))

	require.NoError(t, tpl.SetMatch("id", ""))
	assert.Empty(t, tpl.Constraints())
}

func TestSetMatch_RejectsBadFragments(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{"does not compile", `\d+(`},
		{"unbalanced close", `a)|(b`},
		{"capturing group", `(\d+)`},
		{"unterminated quote swallows the group", `\d+\Q`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := MustNew("/user/{id}", quiet())
			require.NoError(t, tpl.SetMatch("id", `\d+`))
			before, err := tpl.SourceRegex("/")
			require.NoError(t, err)

			err = tpl.SetMatch("id", tt.fragment)
			require.Error(t, err)
			assert.True(t, tplerrors.IsInvalidConstraint(err))

			// A failed call leaves the constraint and the cached regex alone.
			assert.Equal(t, `\d+`, tpl.Constraint("id"))
			after, err := tpl.SourceRegex("/")
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestSetMatch_NonCapturingGroupAllowed(t *testing.T) {
	tpl := MustNew("{size}", quiet())
	require.NoError(t, tpl.SetMatch("size", `(?:small|large)`))

	captures, ok := tpl.Match("large")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"size": "large"}, captures.Map())
}

func TestSetMatchMap_AllOrNothing(t *testing.T) {
	tpl := MustNew("{a}-{b}", quiet())
	require.NoError(t, tpl.SetMatch("a", `\d+`))

	err := tpl.SetMatchMap(map[string]string{"a": `[a-z]+`, "b": `(`}, true)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"a": `\d+`}, tpl.Constraints())

	require.NoError(t, tpl.SetMatchMap(map[string]string{"b": `[a-z]+`}, true))
	assert.Equal(t, map[string]string{"a": `\d+`, "b": `[a-z]+`}, tpl.Constraints())

	require.NoError(t, tpl.SetMatchMap(map[string]string{"b": `x`}, false))
	assert.Equal(t, map[string]string{"b": `x`}, tpl.Constraints())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   map[string]Value
		want   string
	}{
		{"no placeholders", "plain text", nil, "plain text"},
		{"single", "hello {name}", Strings(map[string]string{"name": "world"}), "hello world"},
		{"unbound left verbatim", "{a} {b}", Strings(map[string]string{"a": "1"}), "1 {b}"},
		{"repeated name", "{a} and {a}", Strings(map[string]string{"a": "x"}), "x and x"},
		{"dotted name", "{user.name}", Strings(map[string]string{"user.name": "ana"}), "ana"},
		{"prefix names do not collide", "{name} {name.first}", Strings(map[string]string{"name": "N", "name.first": "F"}), "N F"},
		{"numbers coerced", "{n} items", Values(map[string]any{"n": 3}), "3 items"},
		{"extra names ignored", "{a}", Strings(map[string]string{"a": "1", "zzz": "2"}), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := MustNew(tt.source, quiet())
			assert.Equal(t, tt.want, tpl.RenderWith(tt.data))
			// Rendering never mutates the source.
			assert.Equal(t, tt.source, tpl.Source())
		})
	}
}

func TestRender_NoDataLeavesPlaceholders(t *testing.T) {
	tpl := MustNew("{a}/{b}", quiet())
	assert.Equal(t, "{a}/{b}", tpl.Render())
	assert.Equal(t, "{a}/{b}", tpl.String())

	tpl.SetData("a", String("x"))
	assert.Equal(t, "x/{b}", tpl.RenderWith(map[string]Value{"c": String("ignored")}))
}

func TestRenderWith_ExtraWins(t *testing.T) {
	tpl := MustNew("{a}", quiet()).SetData("a", String("stored"))
	assert.Equal(t, "extra", tpl.RenderWith(map[string]Value{"a": String("extra")}))
	assert.Equal(t, "stored", tpl.Render())
}

func TestRenderPositional(t *testing.T) {
	tpl := MustNew("{a}-{b}", quiet())

	assert.Equal(t, "x-y", tpl.RenderPositional(String("x"), String("y")))
	assert.Equal(t, "x-{b}", tpl.RenderPositional(String("x")))
	assert.Equal(t, "x-y", tpl.RenderPositional(String("x"), String("y"), String("z")))
	assert.Equal(t, "{a}-{b}", tpl.RenderPositional())
}

func TestRenderPositional_FollowsDiscoveryOrder(t *testing.T) {
	tpl := MustNew("{b} {a} {b}", quiet())
	assert.Equal(t, "1 2 1", tpl.RenderPositional(String("1"), String("2")))
}

func TestRender_NestedTemplate(t *testing.T) {
	inner := MustNew("{first} {last}", quiet()).SetData("last", String("Doe"))
	outer := MustNew("Dear {name},", quiet()).SetData("name", Nest(inner))

	assert.Equal(t, "Dear {first} Doe,", outer.Render())
	// The outer data context reaches the nested template.
	assert.Equal(t, "Dear Jane Doe,", outer.RenderWith(map[string]Value{"first": String("Jane")}))
	assert.Equal(t, "Dear Jane Roe,", outer.RenderWith(Strings(map[string]string{"first": "Jane", "last": "Roe"})))
}

func TestRender_ResolverIsLazy(t *testing.T) {
	calls := map[string]int{}
	resolver := Func(func(name string) string {
		calls[name]++
		return "<" + name + ">"
	})

	tpl := MustNew("{a} {b}", quiet())
	tpl.SetData("a", resolver).SetData("absent", resolver)

	assert.Empty(t, calls, "resolvers are not called eagerly")
	assert.Equal(t, "<a> {b}", tpl.Render())
	assert.Equal(t, map[string]int{"a": 1}, calls)
}

func TestValueOf(t *testing.T) {
	nested := MustNew("{x}", quiet())

	assert.Nil(t, ValueOf(nil))
	assert.Equal(t, String("s"), ValueOf("s"))
	assert.Equal(t, String("42"), ValueOf(42))
	assert.Equal(t, String("true"), ValueOf(true))
	assert.Equal(t, Nest(nested), ValueOf(nested))
	assert.Equal(t, String("v"), ValueOf(String("v")))

	v := ValueOf(func() string { return "called" })
	require.NotNil(t, v)
	assert.Equal(t, "called", MustNew("{k}", quiet()).RenderWith(map[string]Value{"k": v}))

	named := ValueOf(func(name string) string { return name + "!" })
	assert.Equal(t, "k!", MustNew("{k}", quiet()).RenderWith(map[string]Value{"k": named}))
}

func TestRenderStrict(t *testing.T) {
	tpl := MustNew("{a} {b} {c}", quiet()).SetData("a", String("1"))

	_, err := tpl.RenderStrict(map[string]Value{"b": String("2")})
	require.Error(t, err)
	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"c"}, missing.Missing())

	out, err := tpl.RenderStrict(Strings(map[string]string{"b": "2", "c": "3"}))
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", out)
}

func TestUnbound(t *testing.T) {
	tpl := MustNew("{a} {b} {c}", quiet()).SetData("b", String("x"))
	assert.Equal(t, []string{"a", "c"}, tpl.Unbound())
}

func TestResolve(t *testing.T) {
	tpl := MustNew("{greeting}, {name}!", quiet())
	tpl.SetData("greeting", String("Hello")).SetData("other", String("kept"))

	tpl.Resolve(false)
	assert.Equal(t, "Hello, {name}!", tpl.Source())
	assert.Equal(t, []string{"name"}, tpl.Names())
	assert.Len(t, tpl.Data(), 2)

	tpl.SetData("name", String("Ana")).Resolve(true)
	assert.Equal(t, "Hello, Ana!", tpl.Source())
	assert.Empty(t, tpl.Names())
	assert.Empty(t, tpl.Data(), "prune drops values for names no longer present")
}

func TestResolve_ProgressivePasses(t *testing.T) {
	// A value may introduce placeholders handled by a later pass.
	tpl := MustNew("{path}", quiet())
	tpl.SetData("path", String("/users/{id}"))

	tpl.Resolve(true)
	assert.Equal(t, []string{"id"}, tpl.Names())

	tpl.SetData("id", String("7")).Resolve(true)
	assert.Equal(t, "/users/7", tpl.Source())
}

func TestChain_Independence(t *testing.T) {
	original := MustNew("{a} {b}", quiet())
	original.SetData("a", String("1"))
	require.NoError(t, original.SetMatch("b", `\d+`))

	chained := original.Chain(nil)
	assert.Equal(t, "1 {b}", chained.Source())
	assert.Equal(t, []string{"b"}, chained.Names())
	assert.Equal(t, original.Constraints(), chained.Constraints())
	assert.Equal(t, original.PatternString(), chained.PatternString())

	chained.SetSource("changed {x}").SetData("x", String("y")).Resolve(true)
	require.NoError(t, chained.SetMatch("b", `[a-z]`))

	assert.Equal(t, "{a} {b}", original.Source())
	assert.Equal(t, `\d+`, original.Constraint("b"))
	assert.Equal(t, "1", mustLiteral(t, original, "a"))
}

func TestChain_Override(t *testing.T) {
	original := MustNew("{a} {b}", quiet()).SetData("a", String("1"))
	chained := original.Chain(map[string]Value{"b": String("2")})
	assert.Equal(t, "1 2", chained.Source())
	assert.Equal(t, "1 {b}", original.Render())
}

func TestProperty(t *testing.T) {
	tpl := MustNew("/user/{id}", quiet()).SetData("id", String("7"))

	value, err := tpl.Property(PropertyValue)
	require.NoError(t, err)
	assert.Equal(t, "/user/7", value)

	source, err := tpl.Property(PropertySource)
	require.NoError(t, err)
	assert.Equal(t, "/user/{id}", source)

	regex, err := tpl.Property(PropertyRegex)
	require.NoError(t, err)
	assert.Equal(t, `/\/user\/(.*)/`, regex)

	_, err = tpl.Property("bogus")
	require.Error(t, err)
	assert.True(t, tplerrors.IsUnknownProperty(err))
}

func mustLiteral(t *testing.T, tpl *Template, name string) string {
	t.Helper()
	v, ok := tpl.Value(name)
	require.True(t, ok)
	lit, ok := v.(Literal)
	require.True(t, ok)
	return lit.Text()
}
