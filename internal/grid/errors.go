package grid

import "errors"

// Setup errors. These are returned by NewColumnModel and New only;
// recomputation never fails.
var (
	ErrEmptyColumnID   = errors.New("column id must not be empty")
	ErrDuplicateColumn = errors.New("duplicate column id")
	ErrUnknownColumn   = errors.New("unknown column id")
)
