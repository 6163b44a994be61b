package definitions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/testutil"
)

func TestUnmarshalDefinition_ValidMinimal(t *testing.T) {
	data := []byte(`
schema_version: 1
source: "/user/{id}"
`)

	def, err := UnmarshalDefinition(data)
	require.NoError(t, err)
	require.NotNil(t, def)

	assert.Equal(t, 1, def.SchemaVersion)
	assert.Equal(t, "/user/{id}", def.Source)
	assert.Empty(t, def.Data)
}

func TestUnmarshalDefinition_ValidFull(t *testing.T) {
	data := []byte(`
schema_version: 1
title: User route
description: Routes into the user area
source: "/user/{id}/{section}{footer}"
data:
  section: profile
  port: 8080
  footer:
    template: " -- {org} --"
    data:
      org: acme
match:
  id: '\d+'
`)

	def, err := UnmarshalDefinition(data)
	require.NoError(t, err)

	assert.Equal(t, "User route", def.Title)
	assert.Equal(t, "Routes into the user area", def.Description)
	assert.Equal(t, ValueDef{Literal: "profile"}, def.Data["section"])
	assert.Equal(t, ValueDef{Literal: "8080"}, def.Data["port"])

	footer := def.Data["footer"]
	require.NotNil(t, footer.Nested)
	assert.Equal(t, " -- {org} --", footer.Nested.Template)
	assert.Equal(t, "acme", footer.Nested.Data["org"].Literal)
	assert.Equal(t, map[string]string{"id": `\d+`}, def.Match)
}

func TestUnmarshalDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing source",
			yaml:    "schema_version: 1\ntitle: Nothing\n",
			wantErr: "source is required",
		},
		{
			name:    "future schema",
			yaml:    "schema_version: 9\nsource: x\n",
			wantErr: "unsupported schema_version",
		},
		{
			name:    "pattern without group",
			yaml:    "source: x\npattern: '\\{\\w+\\}'\n",
			wantErr: "invalid placeholder pattern",
		},
		{
			name:    "constraint with capturing group",
			yaml:    "source: '{id}'\nmatch:\n  id: '(\\d+)'\n",
			wantErr: "capturing groups",
		},
		{
			name:    "constraint that does not compile",
			yaml:    "source: '{id}'\nmatch:\n  id: '[0-9'\n",
			wantErr: "invalid constraint",
		},
		{
			name:    "nested without template",
			yaml:    "source: '{a}'\ndata:\n  a:\n    data: {b: c}\n",
			wantErr: "data a: nested template text is required",
		},
		{
			name:    "sequence value",
			yaml:    "source: '{a}'\ndata:\n  a: [1, 2]\n",
			wantErr: "scalar or a nested template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := UnmarshalDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, def)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, ok := tplerrors.AsDefinitionError(err)
			assert.True(t, ok)
		})
	}
}

func TestMarshalDefinition_RoundTrip(t *testing.T) {
	def := &Definition{
		SchemaVersion: SchemaVersion,
		Title:         "Greeting",
		Source:        "Hello {name}{sig}",
		Data: map[string]ValueDef{
			"name": {Literal: "Ana"},
			"sig":  {Nested: &NestedDef{Template: " from {org}", Data: map[string]ValueDef{"org": {Literal: "acme"}}}},
		},
		Match: map[string]string{"name": `[A-Z]\w+`},
	}

	data, err := MarshalDefinition(def)
	require.NoError(t, err)
	assert.Contains(t, string(data), "template:")

	back, err := UnmarshalDefinition(data)
	require.NoError(t, err)
	assert.Equal(t, def, back)
}

func TestLoadYAML(t *testing.T) {
	path := testutil.WriteDefinition(t, "source: 'hi {who}'\ndata:\n  who: there\n")

	def, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "hi {who}", def.Source)
}

func TestLoadYAML_NotFound(t *testing.T) {
	_, err := LoadYAML("/nonexistent/template.yaml")
	require.Error(t, err)
	assert.True(t, tplerrors.IsNotFound(err))
}

func TestLoadYAML_InvalidRecordsPath(t *testing.T) {
	path := testutil.WriteDefinition(t, "title: no source\n")

	_, err := LoadYAML(path)
	require.Error(t, err)
	de, ok := tplerrors.AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, path, de.Path)
	assert.True(t, tplerrors.IsInvalid(err))
}

func TestLoadYAMLReader(t *testing.T) {
	def, err := LoadYAMLReader(strings.NewReader("source: '{a}-{b}'\n"))
	require.NoError(t, err)
	assert.Equal(t, "{a}-{b}", def.Source)
}

func TestWriteYAML(t *testing.T) {
	path := testutil.WriteFile(t, testutil.TempDir(t), "out.yaml", "")
	def := &Definition{SchemaVersion: SchemaVersion, Source: "{x}"}

	require.NoError(t, WriteYAML(path, def))

	back, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, def, back)
}
