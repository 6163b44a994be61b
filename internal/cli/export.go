package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/export"
)

// ExportOptions contains the options for the export command.
type ExportOptions struct {
	Source         string
	Format         string
	Out            string
	CustomTemplate string
	Delimiter      string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [definition]",
		Short: "Export a template analysis to various formats",
		Long: `Export a template's source, placeholders, constraints, matching regex and
rendered text.

Supported formats:
- md (default): Markdown
- yaml: YAML format
- json: JSON format

A custom text/template file given with --template replaces the built-in
output for any format. Bare template names are also looked up in
~/.config/tokentpl/templates/.

Examples:
  tokentpl export route.yaml                    # Export as Markdown to stdout
  tokentpl export route.yaml --format json      # Export as JSON
  tokentpl export route.yaml --out route.md     # Export to file
  tokentpl export route.yaml --template custom.tmpl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delimiter") {
				opts.Delimiter = env.Config.Match.Delimiter
			}
			arg, _ := splitArgs(args, opts.Source)
			return runExport(cmd.Context(), env, opts, arg)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "md", "output format (md, yaml, json)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "-", "output path (default: stdout)")
	cmd.Flags().StringVarP(&opts.CustomTemplate, "template", "t", "", "custom template file")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "/", "regex delimiter (default from config)")

	return cmd
}

func runExport(ctx context.Context, env *Env, opts *ExportOptions, arg string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}

	// Parse format
	format := export.Format(opts.Format)
	if format != export.FormatMarkdown && format != export.FormatYAML && format != export.FormatJSON {
		return fmt.Errorf("invalid format: %s (must be md, yaml, or json)", opts.Format)
	}

	exporter, err := export.NewExporter(export.Options{
		Format:         format,
		Out:            opts.Out,
		CustomTemplate: opts.CustomTemplate,
	})
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	report, err := export.Analyze(l.Definition, l.Template, opts.Delimiter)
	if err != nil {
		return err
	}

	output, err := exporter.Export(report)
	if err != nil {
		return fmt.Errorf("failed to export template: %w", err)
	}

	// Write output
	if exporter.WritesFile() {
		env.Log.Info("exported template to %s", opts.Out)
		return nil
	}
	fmt.Fprint(env.Out, output)
	return nil
}
