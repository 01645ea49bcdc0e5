package explorer

import "errors"

var (
	// ErrNodeNotFound means an id has no counterpart in the tree. For folder
	// listing entries this is inconsistent mock data.
	ErrNodeNotFound = errors.New("node not found in tree")
	// ErrItemNotFound means an id is not part of the current listing.
	ErrItemNotFound = errors.New("item not in current listing")
	// ErrEmptyTree means a navigator was built without any root.
	ErrEmptyTree = errors.New("tree has no roots")
	// ErrInvalidViewMode means an unsupported listing view was requested.
	ErrInvalidViewMode = errors.New("invalid view mode")
)
