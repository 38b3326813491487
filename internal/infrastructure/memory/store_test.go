package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func inbound(amount int64) entity.Movement {
	return entity.Movement{Kind: entity.MovementKindInbound, Amount: amount, Timestamp: time.Now(), Actor: "teste"}
}

func insert(t *testing.T, s *memory.Store, code string) *entity.Material {
	t.Helper()
	m := &entity.Material{Code: code, Name: "Material " + code, Type: "Geral"}
	require.NoError(t, s.Insert(context.Background(), m))
	return m
}

func TestInsert_AsignaIDYVersion(t *testing.T) {
	s := memory.New()
	m := insert(t, s, "M-GER-0001")

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, int64(1), m.Version)

	got, err := s.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "M-GER-0001", got.Code)
}

func TestInsert_CodigoDuplicado(t *testing.T) {
	s := memory.New()
	insert(t, s, "M-GER-0001")

	err := s.Insert(context.Background(), &entity.Material{Code: "M-GER-0001", Name: "Otro", Type: "Geral"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateLedger_VersionObsoletaEsConflicto(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	m := insert(t, s, "C-CON-0001")

	// Dos clientes leen la misma versión.
	a, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	b, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)

	require.NoError(t, s.UpdateLedger(ctx, a.ID, a.Version, 5, append(a.Movements, inbound(5))))
	err = s.UpdateLedger(ctx, b.ID, b.Version, 5, append(b.Movements, inbound(5)))
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, domain.IsRetryable(err))

	got, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Len(t, got.Movements, 1)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateLedger_NoPermiteAcortarHistorial(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	m := insert(t, s, "C-CON-0001")
	require.NoError(t, s.UpdateLedger(ctx, m.ID, 1, 5, []entity.Movement{inbound(5)}))

	err := s.UpdateLedger(ctx, m.ID, 2, 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateLedger_TrasBorradoEsNotFound(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	m := insert(t, s, "T-MED-0001")

	require.NoError(t, s.Delete(ctx, m.ID))
	err := s.UpdateLedger(ctx, m.ID, 1, 1, []entity.Movement{inbound(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, m.ID), domain.ErrNotFound)
}

func TestLecturasDevuelvenCopias(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	m := insert(t, s, "C-CON-0001")
	require.NoError(t, s.UpdateLedger(ctx, m.ID, 1, 5, []entity.Movement{inbound(5)}))

	got, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	got.Movements[0].Amount = 999
	got.Quantity = 999

	again, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Quantity)
	assert.Equal(t, int64(5), again.Movements[0].Amount)
}

func TestListConservaOrdenDeInsercion(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	a := insert(t, s, "A-GER-0001")
	b := insert(t, s, "B-GER-0002")
	c := insert(t, s, "C-GER-0003")
	require.NoError(t, s.Delete(ctx, b.ID))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	byCode, err := s.ListByCode(ctx, "C-GER-0003")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, c.ID, byCode[0].ID)
}

func TestRun_RollbackDeshaceAltaYSecuencia(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	boom := errors.New("falla")

	err := s.Run(ctx, func(materials repository.MaterialRepository, sequences repository.SequenceRepository) error {
		n, err := sequences.Next(ctx, "materials")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, materials.Insert(ctx, &entity.Material{Code: "X-GER-0001", Name: "X", Type: "Geral"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.Next(ctx, "materials")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRun_CommitConservaCambios(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	err := s.Run(ctx, func(materials repository.MaterialRepository, sequences repository.SequenceRepository) error {
		if _, err := sequences.Next(ctx, "materials"); err != nil {
			return err
		}
		return materials.Insert(ctx, &entity.Material{Code: "X-GER-0001", Name: "X", Type: "Geral"})
	})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := s.Next(ctx, "materials")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
