package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chazuruo/tokentpl/internal/definitions"
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// loaded is a template together with the definition it was built from.
type loaded struct {
	Definition *definitions.Definition
	Template   *placeholders.Template
	// Path is the definition file, empty for inline sources and stdin.
	Path string
}

// loadTemplate resolves a definition argument: "-" reads YAML from stdin,
// an existing path is read as a file, anything else is looked up in the
// definitions store. A non-empty inline source wins over the argument.
func loadTemplate(ctx context.Context, env *Env, arg, inline string) (*loaded, error) {
	var (
		def  *definitions.Definition
		path string
		err  error
	)

	switch {
	case inline != "":
		def = &definitions.Definition{SchemaVersion: definitions.SchemaVersion, Source: inline}
	case arg == "-":
		def, err = definitions.LoadYAMLReader(env.In)
	case arg == "":
		return nil, errors.New("a definition file, stored name, or --source is required")
	default:
		if _, statErr := os.Stat(arg); statErr == nil {
			path = arg
		} else {
			ref, findErr := env.Store.Find(ctx, arg)
			if findErr != nil {
				return nil, fmt.Errorf("%q is neither a file nor a stored definition: %w", arg, findErr)
			}
			path = ref.Path
		}
		def, err = definitions.LoadYAML(path)
	}
	if err != nil {
		return nil, err
	}

	opts := append(env.Config.TemplateOptions(), placeholders.WithLogger(env.Log))
	t, err := def.Build(opts...)
	if err != nil {
		return nil, err
	}

	env.Log.Debug("loaded %q with placeholders %v", t.Source(), t.Names())
	return &loaded{Definition: def, Template: t, Path: path}, nil
}

// snapshot captures the current template state as a definition, keeping
// the loaded definition's title, description and pattern.
func (l *loaded) snapshot(env *Env) *definitions.Definition {
	def := definitions.FromTemplate(l.Template, env.Config.PlaceholderPattern())
	def.Title = l.Definition.Title
	def.Description = l.Definition.Description
	if def.Pattern == "" {
		def.Pattern = l.Definition.Pattern
	}
	return def
}

// parseSet converts repeated key=value flags into values.
func parseSet(pairs []string) (map[string]placeholders.Value, error) {
	values := make(map[string]placeholders.Value, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: --set %q must have the form name=value", tplerrors.ErrInvalid, pair)
		}
		values[name] = placeholders.String(value)
	}
	return values, nil
}

// positional converts --positional flags into values.
func positional(args []string) []placeholders.Value {
	values := make([]placeholders.Value, len(args))
	for i, arg := range args {
		values[i] = placeholders.String(arg)
	}
	return values
}

// splitArgs separates the optional definition argument from the rest.
// With an inline source every argument is a trailing one.
func splitArgs(args []string, inline string) (string, []string) {
	if inline != "" || len(args) == 0 {
		return "", args
	}
	return args[0], args[1:]
}
