package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementKindInbound  = "inbound"  // entrada
	MovementKindOutbound = "outbound" // salida
)

// Movement representa un cambio de cantidad de un material (entrada o salida).
// Amount siempre es positivo; el signo lo da Kind.
type Movement struct {
	Kind      string
	Amount    int64
	Timestamp time.Time
	Actor     string // usuario autenticado que registró el movimiento
}

// Delta devuelve el efecto con signo del movimiento sobre la cantidad.
func (m Movement) Delta() int64 {
	if m.Kind == MovementKindOutbound {
		return -m.Amount
	}
	return m.Amount
}

// ValidMovementKind indica si kind es un tipo de movimiento conocido.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindInbound || kind == MovementKindOutbound
}
