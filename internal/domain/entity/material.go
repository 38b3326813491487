package entity

import "time"

// Material representa un ítem físico rastreado en el almacén.
// Quantity es una proyección cacheada de Movements; nunca es la fuente de verdad.
// Version se incrementa en cada escritura y sirve de guarda para la concurrencia optimista.
type Material struct {
	ID        string
	Code      string // asignado una sola vez al registrar (ej: MG-FERMAN-0004)
	Name      string
	Type      string
	Location  string
	Requester string
	EntryDate *time.Time // fecha de entrada informada por el usuario (solo fecha)
	Notes     string
	ImageURL  string
	Quantity  int64
	Movements []Movement // append-only, orden cronológico
	Version   int64
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LastMovement devuelve el último movimiento registrado o nil si no hay historial.
func (m *Material) LastMovement() *Movement {
	if len(m.Movements) == 0 {
		return nil
	}
	return &m.Movements[len(m.Movements)-1]
}

// Clone devuelve una copia profunda (el historial no comparte arreglo con el original).
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	if m.EntryDate != nil {
		d := *m.EntryDate
		c.EntryDate = &d
	}
	c.Movements = append([]Movement(nil), m.Movements...)
	return &c
}
