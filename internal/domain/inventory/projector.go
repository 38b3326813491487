package inventory

import (
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Project pliega el historial en la cantidad actual: parte de 0, suma entradas y resta salidas
// en orden. Un acumulado negativo en cualquier punto indica historial corrupto y se reporta
// como CorruptionError (nunca se recorta a cero).
func Project(history []entity.Movement) (int64, error) {
	var qty int64
	for i, m := range history {
		qty += m.Delta()
		if qty < 0 {
			return qty, &domain.CorruptionError{Projected: qty, Position: i}
		}
	}
	return qty, nil
}

// RunningTotals devuelve la cantidad acumulada después de cada movimiento.
// No valida; usar Project antes si el historial no es confiable.
func RunningTotals(history []entity.Movement) []int64 {
	out := make([]int64, len(history))
	var qty int64
	for i, m := range history {
		qty += m.Delta()
		out[i] = qty
	}
	return out
}

// Verify comprueba que la cantidad almacenada del material coincide con la proyección de su historial.
func Verify(m *entity.Material) error {
	projected, err := Project(m.Movements)
	if err != nil {
		if ce, ok := err.(*domain.CorruptionError); ok {
			ce.MaterialID = m.ID
			ce.Stored = m.Quantity
		}
		return err
	}
	if projected != m.Quantity {
		return &domain.CorruptionError{MaterialID: m.ID, Stored: m.Quantity, Projected: projected, Position: -1}
	}
	return nil
}
