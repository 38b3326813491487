package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// SequenceMaterials nombre de la secuencia durable usada para los códigos de material.
const SequenceMaterials = "materials"

// DefaultMaxRetries reintentos ante ErrConflict si la configuración no indica otro valor.
const DefaultMaxRetries = 3

// RegistryConfig parámetros del registro de materiales.
type RegistryConfig struct {
	// MaxRetries reintentos de RecordMovement cuando la escritura optimista pierde la carrera.
	// 0 = sin reintentos (el conflicto llega al llamador). Negativo = DefaultMaxRetries.
	MaxRetries int
	// Clock reloj para sellar movimientos; nil = time.Now.
	Clock func() time.Time
}

// Registry es el único componente que toca el estado persistido de los materiales.
// Genera códigos, arma el historial con el libro de movimientos y escribe cantidad + historial
// juntos con guarda de versión.
type Registry struct {
	txRunner   TxRunner
	repo       repository.MaterialRepository
	log        *logger.Logger
	maxRetries int
	now        func() time.Time
}

// NewRegistry construye el registro. repo se usa para lecturas y escrituras fuera de la transacción de alta.
func NewRegistry(txRunner TxRunner, repo repository.MaterialRepository, log *logger.Logger, cfg RegistryConfig) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Registry{
		txRunner:   txRunner,
		repo:       repo,
		log:        log.Component("registry"),
		maxRetries: cfg.MaxRetries,
		now:        cfg.Clock,
	}
}

// CreateMaterialInput datos de alta de un material.
// InitialKind vacío equivale a entrada. InitialAmount 0 registra el material sin movimientos.
type CreateMaterialInput struct {
	Name          string
	Type          string
	Location      string
	Requester     string
	EntryDate     *time.Time
	Notes         string
	ImageURL      string
	InitialKind   string
	InitialAmount int64
	Actor         string
}

// Create valida el alta, arma el historial inicial, reserva la secuencia y persiste el material
// en una sola transacción.
func (r *Registry) Create(ctx context.Context, in CreateMaterialInput) (*entity.Material, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Actor = strings.TrimSpace(in.Actor)
	if in.Name == "" || in.Type == "" {
		return nil, fmt.Errorf("%w: nombre y tipo son requeridos", domain.ErrValidation)
	}
	if in.Actor == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrValidation)
	}
	if in.InitialAmount < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrValidation)
	}
	if in.InitialKind == "" {
		in.InitialKind = entity.MovementKindInbound
	}
	if !entity.ValidMovementKind(in.InitialKind) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.InitialKind)
	}

	now := r.now()
	m := &entity.Material{
		Name:      in.Name,
		Type:      in.Type,
		Location:  strings.TrimSpace(in.Location),
		Requester: strings.TrimSpace(in.Requester),
		EntryDate: in.EntryDate,
		Notes:     in.Notes,
		ImageURL:  in.ImageURL,
		CreatedBy: in.Actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.InitialAmount > 0 {
		qty, history, err := inventory.Append(nil, in.InitialKind, in.InitialAmount, in.Actor, 0, now)
		if err != nil {
			return nil, err
		}
		m.Quantity, m.Movements = qty, history
	}

	err := r.txRunner.Run(ctx, func(materials repository.MaterialRepository, sequences repository.SequenceRepository) error {
		seq, err := sequences.Next(ctx, SequenceMaterials)
		if err != nil {
			return err
		}
		code, err := inventory.GenerateCode(m.Name, m.Type, seq-1)
		if err != nil {
			return err
		}
		m.Code = code
		return materials.Insert(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	r.log.ForMaterial(m.ID, m.Code).Info().
		Int64("quantity", m.Quantity).
		Str("actor", in.Actor).
		Msg("material registrado")
	return m, nil
}

// Get obtiene un material con su historial.
func (r *Registry) Get(ctx context.Context, id string) (*entity.Material, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrValidation)
	}
	return r.repo.GetByID(ctx, id)
}

// List devuelve todos los materiales en el orden del registro.
func (r *Registry) List(ctx context.Context) ([]*entity.Material, error) {
	return r.repo.List(ctx)
}

// Search filtra por subcadena en nombre o código, sin distinguir mayúsculas ni acentos compuestos
// (plegado Unicode). Consulta vacía devuelve todo. Conserva el orden del registro.
func (r *Registry) Search(ctx context.Context, query string) ([]*entity.Material, error) {
	all, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	fold := cases.Fold()
	q := fold.String(query)
	out := make([]*entity.Material, 0, len(all))
	for _, m := range all {
		if strings.Contains(fold.String(m.Name), q) || strings.Contains(fold.String(m.Code), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// FindByCode resuelve un código a un único material.
// Ninguno → ErrNotFound; varios → ErrAmbiguousCode (que también es ErrNotFound).
func (r *Registry) FindByCode(ctx context.Context, code string) (*entity.Material, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: código requerido", domain.ErrValidation)
	}
	list, err := r.repo.ListByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return list[0], nil
	default:
		r.log.Warn().Str("code", code).Int("matches", len(list)).Msg("código ambiguo")
		return nil, domain.ErrAmbiguousCode
	}
}

// Delete elimina el material y su historial.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id requerido", domain.ErrValidation)
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.log.ForMaterial(id, "").Info().Msg("material eliminado")
	return nil
}

// RecordMovementInput solicitud estructurada de movimiento (reemplaza la captura interactiva de cantidad).
type RecordMovementInput struct {
	MaterialID string
	Kind       string
	Amount     int64
	Actor      string
}

// RecordMovement lee el estado actual, aplica el libro de movimientos y escribe cantidad e historial
// en una sola actualización condicionada a la versión leída. Si otro cliente escribió en medio
// (ErrConflict) se relee y reintenta hasta maxRetries veces; después el conflicto llega al llamador.
// Ningún error deja escrituras parciales.
func (r *Registry) RecordMovement(ctx context.Context, in RecordMovementInput) (*entity.Material, error) {
	if strings.TrimSpace(in.MaterialID) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !entity.ValidMovementKind(in.Kind) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.Kind)
	}
	if strings.TrimSpace(in.Actor) == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrValidation)
	}

	for attempt := 0; ; attempt++ {
		m, err := r.repo.GetByID(ctx, in.MaterialID)
		if err != nil {
			return nil, err
		}
		if err := inventory.Verify(m); err != nil {
			r.log.ForMaterial(m.ID, m.Code).Error().Err(err).Msg("historial inconsistente")
			return nil, err
		}

		qty, history, err := inventory.Append(m.Movements, in.Kind, in.Amount, in.Actor, m.Quantity, r.now())
		if err != nil {
			return nil, err
		}

		err = r.repo.UpdateLedger(ctx, m.ID, m.Version, qty, history)
		if err == nil {
			m.Quantity, m.Movements, m.Version = qty, history, m.Version+1
			m.UpdatedAt = history[len(history)-1].Timestamp
			r.log.ForMaterial(m.ID, m.Code).Info().
				Str("kind", in.Kind).
				Int64("amount", in.Amount).
				Int64("quantity", qty).
				Str("actor", in.Actor).
				Msg("movimiento registrado")
			return m, nil
		}
		if !domain.IsRetryable(err) || attempt >= r.maxRetries {
			return nil, err
		}
		r.log.ForMaterial(m.ID, m.Code).Warn().
			Int64("version", m.Version).
			Int("attempt", attempt+1).
			Msg("escritura concurrente detectada, reintentando")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(err, ctxErr)
		}
	}
}

// CheckIntegrity compara la cantidad almacenada con la proyección del historial.
func (r *Registry) CheckIntegrity(ctx context.Context, id string) (*entity.Material, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inventory.Verify(m); err != nil {
		r.log.ForMaterial(m.ID, m.Code).Error().Err(err).Msg("historial inconsistente")
		return m, err
	}
	return m, nil
}
