package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/inventory"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// GenerateCode
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateCode_MarteloGrande(t *testing.T) {
	code, err := inventory.GenerateCode("Martelo Grande", "Ferramenta Manual", 3)
	require.NoError(t, err)
	assert.Equal(t, "MG-FERMAN-0004", code)
}

func TestGenerateCode_Variantes(t *testing.T) {
	cases := []struct {
		name, typ string
		count     int64
		want      string
	}{
		{"parafuso", "fixação", 0, "P-FIX-0001"},
		{"  Chave   de  Fenda ", "Ferramenta", 41, "CDF-FER-0042"},
		{"Cabo", "EPI de uso", 9998, "C-EPIDEUSO-9999"},
		{"Luva", "Equipamento", 10000, "L-EQU-10001"},
		{"água sanitária", "limpeza", 6, "ÁS-LIM-0007"},
	}
	for _, c := range cases {
		got, err := inventory.GenerateCode(c.name, c.typ, c.count)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestGenerateCode_CamposVacios(t *testing.T) {
	_, err := inventory.GenerateCode("", "Ferramenta", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = inventory.GenerateCode("Martelo", "   ", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = inventory.GenerateCode("Martelo", "Ferramenta", -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_SalidaValida(t *testing.T) {
	history := []entity.Movement{{Kind: entity.MovementKindInbound, Amount: 10, Timestamp: t0, Actor: "ana@sbv.org"}}

	qty, next, err := inventory.Append(history, entity.MovementKindOutbound, 4, "ana@sbv.org", 10, t0.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(6), qty)
	require.Len(t, next, 2)
	assert.Equal(t, entity.MovementKindOutbound, next[1].Kind)
	assert.Equal(t, int64(4), next[1].Amount)
	assert.Equal(t, "ana@sbv.org", next[1].Actor)
	assert.Len(t, history, 1, "el historial original no debe cambiar")
}

func TestAppend_CantidadNoPositiva(t *testing.T) {
	history := []entity.Movement{{Kind: entity.MovementKindInbound, Amount: 5, Timestamp: t0, Actor: "a"}}
	for _, amount := range []int64{0, -1, -100} {
		qty, next, err := inventory.Append(history, entity.MovementKindInbound, amount, "a", 5, t0)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Equal(t, int64(5), qty)
		assert.Equal(t, history, next)
	}
}

func TestAppend_StockInsuficiente(t *testing.T) {
	history := []entity.Movement{{Kind: entity.MovementKindInbound, Amount: 3, Timestamp: t0, Actor: "a"}}

	qty, next, err := inventory.Append(history, entity.MovementKindOutbound, 5, "a", 3, t0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)

	assert.Equal(t, int64(3), qty)
	assert.Len(t, next, 1)
}

func TestAppend_TipoYActorInvalidos(t *testing.T) {
	_, _, err := inventory.Append(nil, "ajuste", 1, "a", 0, t0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = inventory.Append(nil, entity.MovementKindInbound, 1, "  ", 0, t0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAppend_TimestampNoDecreciente(t *testing.T) {
	history := []entity.Movement{{Kind: entity.MovementKindInbound, Amount: 1, Timestamp: t0, Actor: "a"}}
	_, next, err := inventory.Append(history, entity.MovementKindInbound, 1, "a", 1, t0.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, t0, next[1].Timestamp)
}

func TestAppend_NoComparteArreglo(t *testing.T) {
	history := make([]entity.Movement, 1, 10)
	history[0] = entity.Movement{Kind: entity.MovementKindInbound, Amount: 2, Timestamp: t0, Actor: "a"}

	_, a, err := inventory.Append(history, entity.MovementKindInbound, 1, "a", 2, t0)
	require.NoError(t, err)
	_, b, err := inventory.Append(history, entity.MovementKindOutbound, 1, "b", 2, t0)
	require.NoError(t, err)

	assert.Equal(t, entity.MovementKindInbound, a[1].Kind)
	assert.Equal(t, entity.MovementKindOutbound, b[1].Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Project / Verify
// ──────────────────────────────────────────────────────────────────────────────

// Cualquier secuencia construida solo con Append proyecta a la cantidad devuelta y nunca es negativa.
func TestProject_HistorialAceptadoNuncaNegativo(t *testing.T) {
	ops := []struct {
		kind   string
		amount int64
	}{
		{entity.MovementKindInbound, 10},
		{entity.MovementKindOutbound, 3},
		{entity.MovementKindOutbound, 8}, // rechazada
		{entity.MovementKindInbound, 2},
		{entity.MovementKindOutbound, 9},
		{entity.MovementKindOutbound, 1}, // rechazada
		{entity.MovementKindInbound, 0},  // rechazada
	}
	var (
		history []entity.Movement
		qty     int64
	)
	for i, op := range ops {
		newQty, next, err := inventory.Append(history, op.kind, op.amount, "a", qty, t0.Add(time.Duration(i)*time.Minute))
		if err != nil {
			continue
		}
		qty, history = newQty, next

		projected, err := inventory.Project(history)
		require.NoError(t, err)
		assert.Equal(t, qty, projected)
		assert.GreaterOrEqual(t, projected, int64(0))
	}
	assert.Equal(t, int64(0), qty)
	assert.Len(t, history, 4)
}

func TestProject_Idempotente(t *testing.T) {
	history := []entity.Movement{
		{Kind: entity.MovementKindInbound, Amount: 10},
		{Kind: entity.MovementKindOutbound, Amount: 3},
		{Kind: entity.MovementKindInbound, Amount: 2},
	}
	a, err := inventory.Project(history)
	require.NoError(t, err)
	b, err := inventory.Project(history)
	require.NoError(t, err)
	assert.Equal(t, int64(9), a)
	assert.Equal(t, a, b)
	assert.Equal(t, []int64{10, 7, 9}, inventory.RunningTotals(history))
}

func TestProject_HistorialVacio(t *testing.T) {
	qty, err := inventory.Project(nil)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestProject_AcumuladoNegativoEsCorrupcion(t *testing.T) {
	history := []entity.Movement{
		{Kind: entity.MovementKindInbound, Amount: 1},
		{Kind: entity.MovementKindOutbound, Amount: 2},
		{Kind: entity.MovementKindInbound, Amount: 5},
	}
	_, err := inventory.Project(history)
	require.ErrorIs(t, err, domain.ErrCorruption)

	var ce *domain.CorruptionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Position)
}

func TestVerify(t *testing.T) {
	m := &entity.Material{
		ID:       "m1",
		Quantity: 7,
		Movements: []entity.Movement{
			{Kind: entity.MovementKindInbound, Amount: 10},
			{Kind: entity.MovementKindOutbound, Amount: 3},
		},
	}
	assert.NoError(t, inventory.Verify(m))

	m.Quantity = 8
	err := inventory.Verify(m)
	require.ErrorIs(t, err, domain.ErrCorruption)
	var ce *domain.CorruptionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "m1", ce.MaterialID)
	assert.Equal(t, int64(8), ce.Stored)
	assert.Equal(t, int64(7), ce.Projected)
}
