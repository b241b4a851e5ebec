package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.DocumentSequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores por prefijo (document_sequences).
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador; el upsert toma el lock de la fila hasta el commit.
func (r *SequenceRepo) Next(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, value) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return n, nil
}
