package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Append valida y agrega un movimiento al historial (servicio de dominio, sin estado).
//
// Reglas:
//   - amount <= 0 → ErrInvalidAmount
//   - kind desconocido o actor vacío → ErrValidation
//   - la cantidad resultante negativa → ErrInsufficientStock (InsufficientStockError)
//
// En error el historial recibido no se modifica. En éxito se devuelve un arreglo nuevo
// (nunca comparte memoria con history) con el movimiento al final, sellado con now.
// Si now es anterior al último movimiento se usa el timestamp de éste, para que el
// historial sea no decreciente.
//
// La atomicidad frente a la lectura de current es responsabilidad del llamador
// (el registro escribe con guarda de versión).
func Append(history []entity.Movement, kind string, amount int64, actor string, current int64, now time.Time) (int64, []entity.Movement, error) {
	if amount <= 0 {
		return current, history, domain.ErrInvalidAmount
	}
	if !entity.ValidMovementKind(kind) {
		return current, history, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, kind)
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return current, history, fmt.Errorf("%w: actor requerido", domain.ErrValidation)
	}

	mov := entity.Movement{Kind: kind, Amount: amount, Actor: actor, Timestamp: now}
	newQty := current + mov.Delta()
	if newQty < 0 {
		return current, history, &domain.InsufficientStockError{Available: current, Requested: amount}
	}

	if n := len(history); n > 0 && mov.Timestamp.Before(history[n-1].Timestamp) {
		mov.Timestamp = history[n-1].Timestamp
	}

	next := make([]entity.Movement, len(history), len(history)+1)
	copy(next, history)
	next = append(next, mov)
	return newQty, next, nil
}
