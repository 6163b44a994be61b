package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// Write validates cfg and writes it to path in TOML format. The file is
// written to a temporary sibling first and renamed into place, so a failed
// write leaves any existing config untouched.
func Write(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", tplerrors.ErrInvalid, err)}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to encode config: %w", err)}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	if err := tmp.Close(); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}
	return nil
}
