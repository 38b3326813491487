package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvalidAmount     = errors.New("cantidad inválida: debe ser un entero positivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual, reintente")
	ErrCorruption        = errors.New("inconsistencia detectada en el historial de movimientos")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")

	// ErrAmbiguousCode envuelve ErrNotFound: un código compartido por varios materiales
	// no resuelve a ninguno.
	ErrAmbiguousCode = fmt.Errorf("%w: código compartido por varios materiales", ErrNotFound)
)

// InsufficientStockError detalla una salida rechazada.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CorruptionError detalla una discrepancia entre la cantidad almacenada y la proyección del historial.
// Position es el índice del movimiento donde el acumulado se volvió negativo (-1 si no aplica).
type CorruptionError struct {
	MaterialID string
	Stored     int64
	Projected  int64
	Position   int
}

func (e *CorruptionError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("historial corrupto (material %s): acumulado negativo %d en el movimiento %d",
			e.MaterialID, e.Projected, e.Position)
	}
	return fmt.Sprintf("historial corrupto (material %s): cantidad almacenada %d, proyectada %d",
		e.MaterialID, e.Stored, e.Projected)
}

func (e *CorruptionError) Unwrap() error { return ErrCorruption }

// IsRetryable indica si la operación puede reintentarse (escritura optimista perdida).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
