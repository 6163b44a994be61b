package definitions

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/tokentpl/internal/logger"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

func quiet() placeholders.Option {
	return placeholders.WithLogger(logger.New(io.Discard, logger.LevelQuiet))
}

func TestBuild(t *testing.T) {
	def, err := UnmarshalDefinition([]byte(`
source: "/user/{id}/{section}{footer}"
data:
  section: profile
  footer:
    template: " -- {org} --"
    data:
      org: acme
match:
  id: '\d+'
`))
	require.NoError(t, err)

	tpl, err := def.Build(quiet())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "section", "footer"}, tpl.Names())
	assert.Equal(t, "/user/{id}/profile -- acme --", tpl.Render())
	assert.Equal(t, `\d+`, tpl.Constraint("id"))

	captures, ok := tpl.Match("/user/7/settings")
	require.True(t, ok)
	assert.Equal(t, "7", captures.Map()["id"])
	assert.False(t, tpl.MatchString("/user/x/settings"))
}

func TestBuild_CustomPattern(t *testing.T) {
	def := &Definition{
		Source:  "/:org/:repo and {kept}",
		Pattern: `:(\w+)`,
		Data:    map[string]ValueDef{"org": {Literal: "acme"}},
	}

	tpl, err := def.Build(quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"org", "repo"}, tpl.Names())
	assert.Equal(t, "/acme/:repo and {kept}", tpl.Render())
}

func TestBuild_NestedUsesCallerPattern(t *testing.T) {
	def := &Definition{
		Source:  ":greeting",
		Pattern: `:(\w+)`,
		Data: map[string]ValueDef{
			"greeting": {Nested: &NestedDef{Template: "hello <who>"}},
			"who":      {Literal: "world"},
		},
	}

	tpl, err := def.Build(quiet(), placeholders.WithDelimiters("<", ">"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", tpl.Render())
}

func TestBuild_InvalidConstraint(t *testing.T) {
	def := &Definition{Source: "{a}", Match: map[string]string{"a": "("}}
	_, err := def.Build(quiet())
	assert.Error(t, err)
}

func TestFromTemplate(t *testing.T) {
	inner := placeholders.MustNew("-- {org} --", quiet())
	inner.SetData("org", placeholders.String("acme"))

	tpl := placeholders.MustNew("{a} {b} {c}{sig}", quiet())
	tpl.SetDataMap(map[string]placeholders.Value{
		"a":   placeholders.String("1"),
		"b":   placeholders.Func(func(string) string { return "lazy" }),
		"sig": placeholders.Nest(inner),
	}, false)
	require.NoError(t, tpl.SetMatch("c", `\w+`))

	def := FromTemplate(tpl, placeholders.DefaultPattern())
	assert.Equal(t, "{a} {b} {c}{sig}", def.Source)
	assert.Empty(t, def.Pattern)
	assert.Equal(t, map[string]string{"c": `\w+`}, def.Match)
	assert.Equal(t, ValueDef{Literal: "1"}, def.Data["a"])
	assert.NotContains(t, def.Data, "b", "resolvers are not stored")
	require.NotNil(t, def.Data["sig"].Nested)
	assert.Equal(t, "-- {org} --", def.Data["sig"].Nested.Template)

	rebuilt, err := def.Build(quiet())
	require.NoError(t, err)
	assert.Equal(t, "1 {b} {c}-- acme --", rebuilt.Render())
}
