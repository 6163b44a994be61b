package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/placeholders"
	"github.com/chazuruo/tokentpl/internal/tui"
)

// RenderOptions contains the options for the render command.
type RenderOptions struct {
	Source      string
	Set         []string
	Positional  []string
	Highlight   bool
	Interactive bool
	Strict      bool
	Format      string
}

// RenderResult is the JSON output of the render command.
type RenderResult struct {
	Rendered string   `json:"rendered"`
	Unbound  []string `json:"unbound"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render [definition]",
		Short: "Substitute values into a template",
		Long: `Render a template by substituting its bound values.

The definition can be a YAML file, "-" for stdin, or the name of a stored
definition. Use --source to render an inline template instead.

Values from --set win over the definition's data. --positional binds values
to placeholders in the order they first appear. Placeholders left without a
value stay in the output verbatim unless --strict is given.

Examples:
  tokentpl render route.yaml
  tokentpl render --source 'Hello {name}!' --set name=Ana
  tokentpl render --source '{a}-{b}' --positional 1 --positional 2
  tokentpl render route.yaml --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			arg, _ := splitArgs(args, opts.Source)
			return runRender(cmd.Context(), env, opts, arg)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inline template text")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "bind a value (name=value, repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Positional, "positional", "p", nil, "bind values in placeholder order (repeatable)")
	cmd.Flags().BoolVar(&opts.Highlight, "highlight", false, "highlight placeholders left unbound")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "prompt for unbound placeholders")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when a placeholder is left unbound")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (text, json; default from config)")

	return cmd
}

func runRender(ctx context.Context, env *Env, opts *RenderOptions, arg string) error {
	l, err := loadTemplate(ctx, env, arg, opts.Source)
	if err != nil {
		return err
	}
	t := l.Template

	extra, err := parseSet(opts.Set)
	if err != nil {
		return err
	}
	for name, v := range t.Associate(positional(opts.Positional)) {
		if _, set := extra[name]; !set {
			extra[name] = v
		}
	}
	t.SetDataMap(extra, true)

	if opts.Interactive {
		if IsNoTUI() {
			return errors.New("--interactive cannot be used with --no-tui")
		}
		answers, err := tui.PromptValues(t, tui.PromptOptions{Accessible: !isTerminal(env.In)})
		if err != nil {
			return err
		}
		t.SetDataMap(answers, true)
	}

	rendered := t.Render()
	if opts.Strict {
		if rendered, err = t.RenderStrict(nil); err != nil {
			return err
		}
	}

	switch format := outputFormat(env, opts.Format); format {
	case "json":
		return writeJSON(env, RenderResult{Rendered: rendered, Unbound: nonNil(t.Unbound())})
	case "text":
		if opts.Highlight && !IsNoTUI() {
			rendered = highlightUnbound(t, rendered)
		}
		fmt.Fprintln(env.Out, rendered)
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
}

// highlightUnbound marks every placeholder literal still present in rendered.
func highlightUnbound(t *placeholders.Template, rendered string) string {
	return tui.Highlight(rendered, tui.UnboundTokens(t))
}

// outputFormat returns the flag value, falling back to the configured format.
func outputFormat(env *Env, flag string) string {
	if flag != "" {
		return flag
	}
	return env.Config.Output.Format
}

func writeJSON(env *Env, v any) error {
	encoder := json.NewEncoder(env.Out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
