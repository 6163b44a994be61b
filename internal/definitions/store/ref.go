package store

import "time"

// Ref is a lightweight reference to a stored definition.
type Ref struct {
	// Name is the stored name, the file name without extension.
	Name string

	// Path is the full path to the definition file.
	Path string

	// UpdatedAt is the last modification time.
	UpdatedAt time.Time
}

// Filter defines criteria for filtering definitions.
type Filter struct {
	// Search matches case-insensitively against the stored name.
	Search string
}
