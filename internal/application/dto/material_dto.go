package dto

import (
	"encoding/json"
	"time"
)

// CreateMaterialRequest body para POST /api/materials.
// InitialQuantity es opcional; vacío o 0 registra el material sin movimientos.
type CreateMaterialRequest struct {
	Name            string      `json:"name" validate:"required"`
	Type            string      `json:"type" validate:"required"`
	Location        string      `json:"location"`
	Requester       string      `json:"requester"`
	EntryDate       string      `json:"entry_date"` // YYYY-MM-DD
	Notes           string      `json:"notes"`
	ImageURL        string      `json:"image_url"`
	InitialKind     string      `json:"initial_kind,omitempty"` // inbound (defecto) | outbound
	InitialQuantity json.Number `json:"initial_quantity,omitempty"`
}

// RecordMovementRequest body para POST /api/materials/:id/movements.
type RecordMovementRequest struct {
	Kind   string      `json:"kind" validate:"required,oneof=inbound outbound"`
	Amount json.Number `json:"amount" validate:"required"`
}

// MovementResponse un movimiento del historial.
type MovementResponse struct {
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
}

// MaterialResponse salida de un material con su historial.
type MaterialResponse struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Location  string             `json:"location"`
	Requester string             `json:"requester"`
	EntryDate string             `json:"entry_date,omitempty"`
	Notes     string             `json:"notes"`
	ImageURL  string             `json:"image_url,omitempty"`
	Quantity  int64              `json:"quantity"`
	Movements []MovementResponse `json:"movements"`
	Version   int64              `json:"version"`
	CreatedBy string             `json:"created_by"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// MaterialListResponse resultado de listado o búsqueda.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// IntegrityResponse resultado de GET /api/materials/:id/integrity.
type IntegrityResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Stored     int64  `json:"stored_quantity"`
	Projected  int64  `json:"projected_quantity"`
	Consistent bool   `json:"consistent"`
	Detail     string `json:"detail,omitempty"`
}

// ImageUploadResponse salida de POST /api/uploads/images.
type ImageUploadResponse struct {
	URL string `json:"url"`
}
