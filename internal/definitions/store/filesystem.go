package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chazuruo/tokentpl/internal/definitions"
	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/logger"
)

// FileSystemStore implements the Store interface using a flat directory of
// <name>.yaml files.
type FileSystemStore struct {
	dir string
	log *logger.Logger
}

// New creates a new FileSystemStore rooted at dir.
func New(dir string, log *logger.Logger) (*FileSystemStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("definitions dir cannot be empty")
	}
	if log == nil {
		log = logger.Default()
	}
	return &FileSystemStore{dir: dir, log: log}, nil
}

// Dir returns the store's root directory.
func (s *FileSystemStore) Dir() string { return s.dir }

// List returns definition references matching the given filter.
func (s *FileSystemStore) List(ctx context.Context, filter Filter) ([]Ref, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", tplerrors.ErrIO, err)
	}

	var refs []Ref
	search := strings.ToLower(filter.Search)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Skip directories
		if entry.IsDir() {
			continue
		}

		name, ok := definitionName(entry.Name())
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}

		ref, err := s.pathToRef(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Find returns the reference for a stored definition name.
func (s *FileSystemStore) Find(ctx context.Context, name string) (Ref, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return s.pathToRef(path)
		}
	}
	return Ref{}, fmt.Errorf("%w: no stored definition %q in %s", tplerrors.ErrNotFound, name, s.dir)
}

// Load reads a definition from the store by its reference.
func (s *FileSystemStore) Load(ctx context.Context, ref Ref) (*definitions.Definition, error) {
	return definitions.LoadYAML(ref.Path)
}

// Save writes a definition to the store.
func (s *FileSystemStore) Save(ctx context.Context, def *definitions.Definition, opts SaveOptions) (Ref, error) {
	if err := def.Validate(); err != nil {
		return Ref{}, &tplerrors.DefinitionError{Op: "save", Err: fmt.Errorf("%w: %w", tplerrors.ErrInvalid, err)}
	}

	// Generate name if not set
	name := opts.Name
	if name == "" {
		existing, err := s.names(ctx)
		if err != nil {
			return Ref{}, err
		}
		name = GenerateUniqueSlug(def.Title, existing)
		if opts.Force {
			name = GenerateUniqueSlug(def.Title, nil)
		}
	}

	path := filepath.Join(s.dir, name+".yaml")

	// Check if file exists and Force is not set
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return Ref{}, fmt.Errorf("%w: %s (use --force to overwrite)", tplerrors.ErrAlreadyExists, path)
	}

	// Create directory if needed
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Ref{}, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := definitions.WriteYAML(path, def); err != nil {
		return Ref{}, err
	}
	s.log.Debug("saved definition %q to %s", name, path)

	return Ref{
		Name:      name,
		Path:      path,
		UpdatedAt: time.Now(),
	}, nil
}

// Delete removes a definition from the store.
func (s *FileSystemStore) Delete(ctx context.Context, ref Ref) error {
	if err := os.Remove(ref.Path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", tplerrors.ErrNotFound, ref.Path)
		}
		return fmt.Errorf("failed to delete definition: %w", err)
	}
	return nil
}

// names returns the stored definition names.
func (s *FileSystemStore) names(ctx context.Context) ([]string, error) {
	refs, err := s.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names, nil
}

// pathToRef converts a file path to a Ref.
func (s *FileSystemStore) pathToRef(path string) (Ref, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Ref{}, err
	}
	name, _ := definitionName(filepath.Base(path))

	return Ref{
		Name:      name,
		Path:      path,
		UpdatedAt: info.ModTime(),
	}, nil
}

func definitionName(file string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimSuffix(file, ext), true
		}
	}
	return "", false
}
