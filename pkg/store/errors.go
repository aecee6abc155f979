package store

import "errors"

// Sentinel errors for the persistence layer (the PersistenceError family).
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrTransaction   = errors.New("transaction failed")
)
