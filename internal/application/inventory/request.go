package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/inventory"
)

// DateLayout formato de entry_date en la API y en los reportes.
const DateLayout = "2006-01-02"

// CreateFromRequest adapta el request HTTP al alta del registro. actor viene del token.
func (r *Registry) CreateFromRequest(ctx context.Context, actor string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	amount, err := parseQuantity(in.InitialQuantity, true)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrValidation)
	}
	var entryDate *time.Time
	if s := strings.TrimSpace(in.EntryDate); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: entry_date debe tener formato AAAA-MM-DD", domain.ErrValidation)
		}
		entryDate = &d
	}
	m, err := r.Create(ctx, CreateMaterialInput{
		Name:          in.Name,
		Type:          in.Type,
		Location:      in.Location,
		Requester:     in.Requester,
		EntryDate:     entryDate,
		Notes:         in.Notes,
		ImageURL:      in.ImageURL,
		InitialKind:   in.InitialKind,
		InitialAmount: amount,
		Actor:         actor,
	})
	if err != nil {
		return nil, err
	}
	return ToMaterialResponse(m), nil
}

// RecordMovementFromRequest adapta el request HTTP a RecordMovement.
func (r *Registry) RecordMovementFromRequest(ctx context.Context, materialID, actor string, in dto.RecordMovementRequest) (*dto.MaterialResponse, error) {
	amount, err := parseQuantity(in.Amount, false)
	if err != nil {
		return nil, err
	}
	m, err := r.RecordMovement(ctx, RecordMovementInput{
		MaterialID: materialID,
		Kind:       strings.TrimSpace(in.Kind),
		Amount:     amount,
		Actor:      actor,
	})
	if err != nil {
		return nil, err
	}
	return ToMaterialResponse(m), nil
}

// IntegrityReport ejecuta CheckIntegrity y lo presenta como DTO.
// Una inconsistencia no es error del endpoint: se informa en el cuerpo.
func (r *Registry) IntegrityReport(ctx context.Context, id string) (*dto.IntegrityResponse, error) {
	m, err := r.CheckIntegrity(ctx, id)
	if m == nil {
		return nil, err
	}
	projected := inventory.RunningTotals(m.Movements)
	out := &dto.IntegrityResponse{ID: m.ID, Code: m.Code, Stored: m.Quantity, Consistent: err == nil}
	if n := len(projected); n > 0 {
		out.Projected = projected[n-1]
	}
	if err != nil {
		out.Detail = err.Error()
	}
	return out, nil
}

// parseQuantity interpreta un número JSON como entero. allowEmpty trata el vacío como 0.
func parseQuantity(n json.Number, allowEmpty bool) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		if allowEmpty {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: cantidad requerida", domain.ErrValidation)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: la cantidad debe ser un número entero", domain.ErrValidation)
	}
	return v, nil
}

// ToMaterialResponse convierte la entidad al DTO de salida.
func ToMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	out := &dto.MaterialResponse{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Type:      m.Type,
		Location:  m.Location,
		Requester: m.Requester,
		Notes:     m.Notes,
		ImageURL:  m.ImageURL,
		Quantity:  m.Quantity,
		Movements: make([]dto.MovementResponse, 0, len(m.Movements)),
		Version:   m.Version,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.EntryDate != nil {
		out.EntryDate = m.EntryDate.Format(DateLayout)
	}
	for _, mv := range m.Movements {
		out.Movements = append(out.Movements, dto.MovementResponse{
			Kind:      mv.Kind,
			Amount:    mv.Amount,
			Timestamp: mv.Timestamp,
			Actor:     mv.Actor,
		})
	}
	return out
}

// ToMaterialListResponse convierte un listado.
func ToMaterialListResponse(list []*entity.Material, query string) *dto.MaterialListResponse {
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Total: len(items), Query: query},
	}
}
