package interfaces

import "errors"

// Storage-level sentinel errors. Implementations translate driver errors
// into these so services never depend on a specific database driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
