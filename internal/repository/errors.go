package repository

import "errors"

// Errores neutros respecto al backend. Cada implementación traduce los
// errores de su motor (pgx, filesystem) a estos valores.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateFavorite = errors.New("favorite already exists")
)
