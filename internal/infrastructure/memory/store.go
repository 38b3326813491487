// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
//
// Misma semántica que el adaptador PostgreSQL: versión por material con escritura condicional,
// historial solo de agregados, secuencia durable mientras viva el proceso y transacciones
// (TxRunner) con rollback de altas y secuencias.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*Store)(nil)
	_ repository.SequenceRepository = (*Store)(nil)
	_ inventory.TxRunner            = (*Store)(nil)
)

// Store guarda materiales, historial y secuencias protegidos por un RWMutex.
// Lecturas y escrituras devuelven/guardan copias: nadie fuera del store comparte sus arreglos.
type Store struct {
	mu        sync.RWMutex
	materials map[string]*entity.Material
	order     []string // orden de inserción (orden estable del registro)
	sequences map[string]int64
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		materials: make(map[string]*entity.Material),
		sequences: make(map[string]int64),
	}
}

// Run ejecuta fn con el store bloqueado; si fn falla se deshacen altas y avances de secuencia.
func (s *Store) Run(_ context.Context, fn func(
	materials repository.MaterialRepository,
	sequences repository.SequenceRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txView{s: s, seqBefore: make(map[string]int64)}
	if err := fn(tx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) Insert(_ context.Context, m *entity.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(m)
}

func (s *Store) GetByID(_ context.Context, id string) (*entity.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Store) ListByCode(_ context.Context, code string) ([]*entity.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(m *entity.Material) bool { return m.Code == code }), nil
}

func (s *Store) List(_ context.Context) ([]*entity.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(nil), nil
}

func (s *Store) UpdateLedger(_ context.Context, id string, expectedVersion int64, quantity int64, movements []entity.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLedgerLocked(id, expectedVersion, quantity, movements)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[name]++
	return s.sequences[name], nil
}

// ── Operaciones con el lock tomado ────────────────────────────────────────────

func (s *Store) insertLocked(m *entity.Material) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, ok := s.materials[m.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range s.materials {
		if existing.Code == m.Code {
			return domain.ErrDuplicate
		}
	}
	m.Version = 1
	s.materials[m.ID] = m.Clone()
	s.order = append(s.order, m.ID)
	return nil
}

func (s *Store) getLocked(id string) (*entity.Material, error) {
	m, ok := s.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Store) listLocked(match func(*entity.Material) bool) []*entity.Material {
	out := make([]*entity.Material, 0, len(s.order))
	for _, id := range s.order {
		m := s.materials[id]
		if match == nil || match(m) {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (s *Store) updateLedgerLocked(id string, expectedVersion int64, quantity int64, movements []entity.Movement) error {
	m, ok := s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Version != expectedVersion {
		return domain.ErrConflict
	}
	if len(movements) < len(m.Movements) {
		return fmt.Errorf("%w: el historial solo admite agregados", domain.ErrValidation)
	}
	m.Quantity = quantity
	m.Movements = append([]entity.Movement(nil), movements...)
	m.Version++
	m.UpdatedAt = time.Now()
	return nil
}

func (s *Store) deleteLocked(id string) error {
	if _, ok := s.materials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.materials, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ── Vista transaccional ───────────────────────────────────────────────────────

// txView opera sobre el store ya bloqueado por Run y registra lo necesario para deshacer.
type txView struct {
	s         *Store
	inserted  []string
	seqBefore map[string]int64
}

func (t *txView) Insert(_ context.Context, m *entity.Material) error {
	if err := t.s.insertLocked(m); err != nil {
		return err
	}
	t.inserted = append(t.inserted, m.ID)
	return nil
}

func (t *txView) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return t.s.getLocked(id)
}

func (t *txView) ListByCode(_ context.Context, code string) ([]*entity.Material, error) {
	return t.s.listLocked(func(m *entity.Material) bool { return m.Code == code }), nil
}

func (t *txView) List(_ context.Context) ([]*entity.Material, error) {
	return t.s.listLocked(nil), nil
}

func (t *txView) UpdateLedger(_ context.Context, id string, expectedVersion int64, quantity int64, movements []entity.Movement) error {
	return t.s.updateLedgerLocked(id, expectedVersion, quantity, movements)
}

func (t *txView) Delete(_ context.Context, id string) error {
	return t.s.deleteLocked(id)
}

func (t *txView) Next(_ context.Context, name string) (int64, error) {
	if _, seen := t.seqBefore[name]; !seen {
		t.seqBefore[name] = t.s.sequences[name]
	}
	t.s.sequences[name]++
	return t.s.sequences[name], nil
}

// rollback deshace altas y secuencias. Actualizaciones y bajas dentro de la vista no se usan
// en transacciones del registro y no se deshacen.
func (t *txView) rollback() {
	for _, id := range t.inserted {
		_ = t.s.deleteLocked(id)
	}
	for name, v := range t.seqBefore {
		t.s.sequences[name] = v
	}
}
