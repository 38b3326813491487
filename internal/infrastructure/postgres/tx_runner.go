package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el alta de materiales (secuencia + insert + movimiento inicial) en una sola transacción.
// Sobre una pgx.Tx abre un savepoint.
type TxRunner struct {
	db Querier
}

func NewTxRunner(db Querier) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	materials repository.MaterialRepository,
	sequences repository.SequenceRepository,
) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewMaterialRepository(tx), NewSequenceRepository(tx))
	})
}
