// Package store persists template definitions in a directory.
package store

import (
	"context"

	"github.com/chazuruo/tokentpl/internal/definitions"
)

// Store defines the interface for definition persistence operations.
type Store interface {
	// List returns definition references matching the given filter.
	// If filter is empty, returns all definitions.
	List(ctx context.Context, filter Filter) ([]Ref, error)

	// Find returns the reference for a stored definition name.
	Find(ctx context.Context, name string) (Ref, error)

	// Load reads a definition from the store by its reference.
	Load(ctx context.Context, ref Ref) (*definitions.Definition, error)

	// Save writes a definition to the store.
	// Returns the reference to the saved definition.
	Save(ctx context.Context, def *definitions.Definition, opts SaveOptions) (Ref, error)

	// Delete removes a definition from the store.
	Delete(ctx context.Context, ref Ref) error
}

// SaveOptions contains options for saving a definition.
type SaveOptions struct {
	// Name is the stored name (defaults to the slug of the title).
	Name string

	// Force allows overwriting an existing definition if true.
	Force bool
}
