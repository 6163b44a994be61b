package definitions

import (
	"fmt"
	"io"
	"os"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// LoadYAML reads and unmarshals a definition from a YAML file.
//
// LoadYAML combines file reading with validation - it returns an error
// if the file cannot be read or if the definition content is invalid.
func LoadYAML(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &tplerrors.DefinitionError{Op: "load", Path: path, Err: tplerrors.ErrNotFound}
		}
		return nil, &tplerrors.DefinitionError{Op: "load", Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	def, err := UnmarshalDefinition(data)
	if err != nil {
		if de, ok := tplerrors.AsDefinitionError(err); ok {
			de.Path = path
		}
		return nil, err
	}
	return def, nil
}

// LoadYAMLReader unmarshals a definition from an io.Reader.
//
// LoadYAMLReader is useful for reading definitions from stdin.
func LoadYAMLReader(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &tplerrors.DefinitionError{Op: "read", Err: err}
	}
	return UnmarshalDefinition(data)
}

// WriteYAML marshals def and writes it to path.
func WriteYAML(path string, def *Definition) error {
	data, err := MarshalDefinition(def)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &tplerrors.DefinitionError{Op: "write", Path: path, Err: err}
	}
	return nil
}
