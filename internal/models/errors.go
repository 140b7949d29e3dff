package models

import "errors"

// Storage level errors shared by every repository implementation.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrTxConflict          = errors.New("transaction conflict, retry")
	ErrInsufficientBalance = errors.New("credit balance would become negative")
	ErrInUse               = errors.New("record is referenced by other rows")
)
