package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, code, name, type, location, requester, entry_date, notes, image_url,
	quantity, version, created_by, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
// El historial vive en material_movements, ordenado por position.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Insert persiste el material con versión 1 y su historial inicial.
func (r *MaterialRepo) Insert(ctx context.Context, m *entity.Material) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Version = 1
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO materials (` + materialColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		_, err := tx.Exec(ctx, query,
			m.ID, m.Code, m.Name, m.Type, m.Location, m.Requester, m.EntryDate, m.Notes, m.ImageURL,
			m.Quantity, m.Version, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			if isDuplicateCode(err) {
				return fmt.Errorf("%w: código %s", domain.ErrDuplicate, m.Code)
			}
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: id %s", domain.ErrDuplicate, m.ID)
			}
			return fmt.Errorf("insert material: %w", err)
		}
		return insertMovements(ctx, tx, m.ID, 0, m.Movements)
	})
	if err != nil {
		m.Version = 0
	}
	return err
}

// GetByID obtiene el material con su historial. ErrNotFound si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	list, err := r.query(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

// ListByCode todos los materiales con ese código (normalmente 0 o 1).
func (r *MaterialRepo) ListByCode(ctx context.Context, code string) ([]*entity.Material, error) {
	return r.query(ctx, `SELECT `+materialColumns+` FROM materials WHERE code = $1 ORDER BY created_at, id`, code)
}

// List todos los materiales en orden de alta.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	return r.query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY created_at, id`)
}

// UpdateLedger escribe cantidad e historial solo si la versión almacenada sigue siendo expectedVersion.
// Los movimientos ya persistidos no se reescriben: se insertan los que están después de ellos.
func (r *MaterialRepo) UpdateLedger(ctx context.Context, id string, expectedVersion, quantity int64, movements []entity.Movement) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE materials SET quantity = $3, version = version + 1, updated_at = $4
			WHERE id = $1 AND version = $2`,
			id, expectedVersion, quantity, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("update material ledger: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM materials WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("check material: %w", err)
			}
			if !exists {
				return domain.ErrNotFound
			}
			return domain.ErrConflict
		}

		var stored int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM material_movements WHERE material_id = $1`, id).Scan(&stored); err != nil {
			return fmt.Errorf("count movements: %w", err)
		}
		if len(movements) < stored {
			return fmt.Errorf("%w: el historial solo admite agregados", domain.ErrValidation)
		}
		return insertMovements(ctx, tx, id, stored, movements[stored:])
	})
}

// Delete elimina el material; el historial cae por ON DELETE CASCADE.
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// query ejecuta un SELECT de materiales y carga el historial de todos en una segunda consulta.
func (r *MaterialRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	byID := make(map[string]*entity.Material)
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(
			&m.ID, &m.Code, &m.Name, &m.Type, &m.Location, &m.Requester, &m.EntryDate, &m.Notes, &m.ImageURL,
			&m.Quantity, &m.Version, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	mrows, err := r.q.Query(ctx, `
		SELECT material_id, kind, amount, ts, actor
		FROM material_movements WHERE material_id = ANY($1::uuid[])
		ORDER BY material_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var materialID string
		var mv entity.Movement
		if err := mrows.Scan(&materialID, &mv.Kind, &mv.Amount, &mv.Timestamp, &mv.Actor); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m, ok := byID[materialID]; ok {
			m.Movements = append(m.Movements, mv)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

// insertMovements agrega movimientos a partir de la posición from, en un solo batch.
func insertMovements(ctx context.Context, tx pgx.Tx, materialID string, from int, movements []entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, mv := range movements {
		batch.Queue(`
			INSERT INTO material_movements (material_id, position, kind, amount, ts, actor)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			materialID, from+i, mv.Kind, mv.Amount, mv.Timestamp, mv.Actor,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range movements {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert movement: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}
