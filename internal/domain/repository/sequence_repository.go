package repository

import "context"

// DocumentSequenceRepository contador persistente por prefijo (p. ej. "ADJ-20240301").
type DocumentSequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor (el primero es 1).
	Next(ctx context.Context, prefix string) (int64, error)
}
