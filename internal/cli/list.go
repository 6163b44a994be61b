package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/export"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	Source string
	Format string
}

// NewListCommand creates the list command for listing a template's placeholders.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list [definition]",
		Short: "List a template's placeholders",
		Long: `List the placeholders of a template in the order they first appear,
with the literal text that matched, the constraint used for matching, and
the bound value.

Examples:
  tokentpl list route.yaml
  tokentpl list --source '/user/{id}/{section}' --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			arg, _ := splitArgs(args, opts.Source)
			return runList(cmd.Context(), env, opts, arg)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (text, json; default from config)")

	return cmd
}

func runList(ctx context.Context, env *Env, opts *ListOptions, arg string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}

	report, err := export.Analyze(l.Definition, l.Template, env.Config.Match.Delimiter)
	if err != nil {
		return err
	}

	switch format := outputFormat(env, opts.Format); format {
	case "json":
		if report.Placeholders == nil {
			report.Placeholders = []export.Placeholder{}
		}
		return writeJSON(env, report.Placeholders)
	case "text":
		printPlaceholderTable(env, report.Placeholders)
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
}

// printPlaceholderTable prints placeholders in table format.
func printPlaceholderTable(env *Env, rows []export.Placeholder) {
	if len(rows) == 0 {
		fmt.Fprintln(env.Out, "No placeholders found.")
		return
	}

	tbl := table.New("NAME", "LITERAL", "CONSTRAINT", "VALUE").WithWriter(env.Out)
	if env.Config.Output.Color && !IsNoTUI() {
		tbl.WithHeaderFormatter(headerFormatter)
	}

	for _, p := range rows {
		value := p.Value
		switch p.Kind {
		case export.KindUnbound:
			value = "-"
		case export.KindNested:
			value = "nested: " + p.Value
		}
		tbl.AddRow(p.Name, p.Literal, p.Constraint, value)
	}
	tbl.Print()

	fmt.Fprintf(env.Out, "\nTotal: %d placeholder(s)\n", len(rows))
}

var headerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("86")).
	Bold(true)

// headerFormatter renders table headers; padding is already in format.
func headerFormatter(format string, vals ...interface{}) string {
	return headerStyle.Render(fmt.Sprintf(format, vals...))
}
