package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material y su historial (DIP).
// La implementación vive en infrastructure (PostgreSQL o memoria).
//
// GetByID, UpdateLedger y Delete devuelven domain.ErrNotFound si el material no existe.
type MaterialRepository interface {
	// Insert persiste un material nuevo con su historial inicial. Asigna ID si está vacío y
	// deja Version = 1. Código repetido → domain.ErrDuplicate.
	Insert(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// ListByCode devuelve todos los materiales con ese código (0, 1 o, por datos heredados, varios).
	ListByCode(ctx context.Context, code string) ([]*entity.Material, error)
	// List devuelve todos los materiales en orden estable (fecha de creación, luego ID).
	List(ctx context.Context) ([]*entity.Material, error)

	// UpdateLedger escribe cantidad e historial en una sola actualización condicionada a que la
	// versión almacenada sea expectedVersion. Si otro cliente escribió antes → domain.ErrConflict.
	// movements es el historial completo; solo se agregan los movimientos nuevos (append-only).
	UpdateLedger(ctx context.Context, id string, expectedVersion int64, quantity int64, movements []entity.Movement) error

	// Delete elimina el material y todo su historial como una unidad.
	Delete(ctx context.Context, id string) error
}

// SequenceRepository contador durable y atómico para la secuencia de códigos.
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor de la secuencia name (el primero es 1).
	Next(ctx context.Context, name string) (int64, error)
}
