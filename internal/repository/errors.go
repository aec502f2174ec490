package repository

import "errors"

// ErrNotFound is returned by writes that target a missing row.
var ErrNotFound = errors.New("not found")
