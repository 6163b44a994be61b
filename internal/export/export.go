// Package export renders a template analysis as Markdown, YAML, or JSON.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/chazuruo/tokentpl/internal/definitions"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// Format represents the export format.
type Format string

const (
	// FormatMarkdown exports as Markdown.
	FormatMarkdown Format = "md"
	// FormatYAML exports as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON exports as JSON.
	FormatJSON Format = "json"
)

// Report is the analysis of a template that gets exported.
type Report struct {
	Title        string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Source       string        `json:"source" yaml:"source"`
	Pattern      string        `json:"pattern" yaml:"pattern"`
	Regex        string        `json:"regex" yaml:"regex"`
	Rendered     string        `json:"rendered" yaml:"rendered"`
	Unbound      []string      `json:"unbound,omitempty" yaml:"unbound,omitempty"`
	Placeholders []Placeholder `json:"placeholders" yaml:"placeholders"`
}

// Placeholder describes one discovered placeholder.
type Placeholder struct {
	Name       string `json:"name" yaml:"name"`
	Literal    string `json:"literal" yaml:"literal"`
	Constraint string `json:"constraint" yaml:"constraint"`
	Kind       string `json:"kind" yaml:"kind"`
	Value      string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Value kinds reported for placeholders.
const (
	KindUnbound  = "unbound"
	KindLiteral  = "literal"
	KindNested   = "nested"
	KindResolver = "resolver"
)

// Analyze builds the report for t. def supplies the title and description
// and may be nil.
func Analyze(def *definitions.Definition, t *placeholders.Template, delimiter string) (*Report, error) {
	regex, err := t.SourceRegex(delimiter)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Source:   t.Source(),
		Pattern:  t.PatternString(),
		Regex:    regex,
		Rendered: t.Render(),
		Unbound:  t.Unbound(),
	}
	if def != nil {
		r.Title = def.Title
		r.Description = def.Description
	}

	for _, tok := range t.Tokens() {
		p := Placeholder{
			Name:       tok.Name,
			Literal:    tok.Literal,
			Constraint: t.Constraint(tok.Name),
			Kind:       KindUnbound,
		}
		if v, ok := t.Value(tok.Name); ok {
			p.Kind, p.Value = Describe(v)
		}
		r.Placeholders = append(r.Placeholders, p)
	}

	return r, nil
}

// Describe returns a value's kind and its display form. Resolvers are not
// called.
func Describe(v placeholders.Value) (kind, display string) {
	switch x := v.(type) {
	case placeholders.Literal:
		return KindLiteral, x.Text()
	case placeholders.Nested:
		return KindNested, x.Template().Source()
	case placeholders.Resolver:
		return KindResolver, "(computed)"
	}
	return KindUnbound, ""
}

// Exporter exports reports in various formats.
type Exporter struct {
	format   Format
	outPath  string
	template *template.Template
}

// Options contains export options.
type Options struct {
	Format         Format
	Out            string
	CustomTemplate string
}

// NewExporter creates a new exporter.
func NewExporter(opts Options) (*Exporter, error) {
	e := &Exporter{
		format:  opts.Format,
		outPath: opts.Out,
	}

	switch e.format {
	case FormatMarkdown, FormatYAML, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported format: %s", e.format)
	}

	// A custom template replaces the built-in encoding for any format
	if opts.CustomTemplate != "" || e.format == FormatMarkdown {
		tmpl, err := loadTemplate(opts.CustomTemplate)
		if err != nil {
			return nil, err
		}
		e.template = tmpl
	}

	return e, nil
}

// loadTemplate loads the custom template, or the built-in Markdown one.
func loadTemplate(customPath string) (*template.Template, error) {
	if customPath == "" {
		return template.New("export").Parse(builtinMarkdownTemplate)
	}

	path := customPath
	// Bare names are looked up in the user config directory (~/.config/tokentpl/templates/)
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			if homeDir, err := os.UserHomeDir(); err == nil {
				configPath := filepath.Join(homeDir, ".config", "tokentpl", "templates", filepath.Base(path))
				if _, err := os.Stat(configPath); err == nil {
					path = configPath
				}
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	return template.New(filepath.Base(path)).Parse(string(data))
}

// Export encodes a report. When the exporter has an output path other than
// "-", the result is also written there.
func (e *Exporter) Export(r *Report) (string, error) {
	var buf bytes.Buffer
	if err := e.encode(&buf, r); err != nil {
		return "", err
	}

	output := buf.String()

	// Write to file if outPath is specified
	if e.outPath != "" && e.outPath != "-" {
		if err := os.WriteFile(e.outPath, []byte(output), 0644); err != nil {
			return "", fmt.Errorf("writing output file: %w", err)
		}
	}

	return output, nil
}

// WritesFile reports whether Export writes to a file.
func (e *Exporter) WritesFile() bool {
	return e.outPath != "" && e.outPath != "-"
}

func (e *Exporter) encode(w io.Writer, r *Report) error {
	if e.template != nil {
		if err := e.template.Execute(w, r); err != nil {
			return fmt.Errorf("executing template: %w", err)
		}
		return nil
	}

	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format: %s", e.format)
}

// builtinMarkdownTemplate is the default Markdown template.
const builtinMarkdownTemplate = `# {{if .Title}}{{.Title}}{{else}}Template{{end}}
{{if .Description}}
{{.Description}}
{{end}}
## Source

` + "```" + `
{{.Source}}
` + "```" + `

## Placeholders
{{if .Placeholders}}
| Name | Literal | Constraint | Value |
|---|---|---|---|
{{range .Placeholders}}| {{.Name}} | ` + "`{{.Literal}}`" + ` | ` + "`{{.Constraint}}`" + ` | {{if eq .Kind "unbound"}}*unbound*{{else}}{{.Value}}{{end}} |
{{end}}{{else}}
None.
{{end}}
## Matching regex

` + "```" + `
{{.Regex}}
` + "```" + `

## Rendered

` + "```" + `
{{.Rendered}}
` + "```" + `

---
*Generated by tokentpl*
`
