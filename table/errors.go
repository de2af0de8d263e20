package table

import "github.com/pkg/errors"

var (
	ErrColumnNotFound    = errors.New("column not found")
	ErrColumnNotSortable = errors.New("column not sortable")
	ErrColumnNotHideable = errors.New("column not hideable")
	ErrRowNotFound       = errors.New("row not found")
	ErrActionNotFound    = errors.New("action not found")
	ErrDuplicateRowID    = errors.New("duplicate row id")
	ErrInvalidOptions    = errors.New("invalid table options")
)
