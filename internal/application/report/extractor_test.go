package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	appinventory "github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const actor = "almoxarife@sbv.org"

func newRegistry() *appinventory.Registry {
	store := memory.New()
	return appinventory.NewRegistry(store, store, logger.Nop(), appinventory.RegistryConfig{})
}

func move(t *testing.T, r *appinventory.Registry, id, kind string, amount int64) {
	t.Helper()
	_, err := r.RecordMovement(context.Background(), appinventory.RecordMovementInput{
		MaterialID: id, Kind: kind, Amount: amount, Actor: actor,
	})
	require.NoError(t, err)
}

// fakeExporter registra lo recibido y devuelve un contenido fijo.
type fakeExporter struct {
	stock   *dto.StockReport
	history *dto.HistoryReport
}

func (f *fakeExporter) ContentType() string { return "text/plain" }
func (f *fakeExporter) Extension() string   { return ".txt" }

func (f *fakeExporter) ExportStock(_ context.Context, r *dto.StockReport) ([]byte, error) {
	f.stock = r
	return []byte("stock"), nil
}

func (f *fakeExporter) ExportHistory(_ context.Context, r *dto.HistoryReport) ([]byte, error) {
	f.history = r
	return []byte("history"), nil
}

// staticSource fuente fija para casos que el store en memoria no produce.
type staticSource struct {
	list []*entity.Material
	err  error
}

func (s staticSource) List(context.Context) ([]*entity.Material, error) { return s.list, nil }
func (s staticSource) FindByCode(context.Context, string) (*entity.Material, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list[0], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// CurrentStock
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_UnaFilaPorMaterial(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	entry := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	a, err := r.Create(ctx, appinventory.CreateMaterialInput{
		Name: "Martelo Grande", Type: "Ferramenta Manual", Location: "Prateleira 3",
		EntryDate: &entry, InitialAmount: 10, Actor: actor,
	})
	require.NoError(t, err)
	_, err = r.Create(ctx, appinventory.CreateMaterialInput{Name: "Luva", Type: "EPI", Actor: actor})
	require.NoError(t, err)
	move(t, r, a.ID, entity.MovementKindOutbound, 4)

	rep, err := report.NewExtractor(r, nil, logger.Nop()).CurrentStock(ctx)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	assert.Equal(t, "MG-FERMAN-0001", rep.Rows[0].Code)
	assert.Equal(t, int64(6), rep.Rows[0].Quantity)
	assert.Equal(t, "Prateleira 3", rep.Rows[0].Location)
	assert.Equal(t, "2025-03-10", rep.Rows[0].EntryDate)
	assert.Equal(t, "L-EPI-0002", rep.Rows[1].Code)
	assert.Zero(t, rep.Rows[1].Quantity)
}

func TestCurrentStock_CorrupcionAbortaReporte(t *testing.T) {
	bad := &entity.Material{
		ID: "1", Code: "X-GER-0001", Quantity: 3,
		Movements: []entity.Movement{{Kind: entity.MovementKindInbound, Amount: 5}},
	}
	_, err := report.NewExtractor(staticSource{list: []*entity.Material{bad}}, nil, nil).CurrentStock(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruption)
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementHistory_SaldoAcumulado(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	m, err := r.Create(ctx, appinventory.CreateMaterialInput{Name: "Cimento", Type: "Construção", InitialAmount: 10, Actor: actor})
	require.NoError(t, err)
	move(t, r, m.ID, entity.MovementKindOutbound, 3)
	move(t, r, m.ID, entity.MovementKindInbound, 2)

	rep, err := report.NewExtractor(r, nil, nil).MovementHistory(ctx, m.Code)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)

	balances := []int64{rep.Rows[0].Balance, rep.Rows[1].Balance, rep.Rows[2].Balance}
	assert.Equal(t, []int64{10, 7, 9}, balances)
	assert.Equal(t, entity.MovementKindOutbound, rep.Rows[1].Kind)
	assert.Equal(t, int64(3), rep.Rows[1].Amount)
	assert.Equal(t, actor, rep.Rows[2].Actor)
	assert.Equal(t, int64(9), rep.Quantity)
	assert.False(t, rep.Rows[2].Timestamp.Before(rep.Rows[1].Timestamp))
}

func TestMovementHistory_CodigoInexistenteOAmbiguo(t *testing.T) {
	ctx := context.Background()

	_, err := report.NewExtractor(newRegistry(), nil, nil).MovementHistory(ctx, "NADA-0001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = report.NewExtractor(staticSource{err: domain.ErrAmbiguousCode}, nil, nil).MovementHistory(ctx, "X-GER-0001")
	assert.ErrorIs(t, err, domain.ErrAmbiguousCode)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDocuments_UsanExporterDelFormato(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	m, err := r.Create(ctx, appinventory.CreateMaterialInput{Name: "Cimento", Type: "Construção", InitialAmount: 10, Actor: actor})
	require.NoError(t, err)

	exp := &fakeExporter{}
	x := report.NewExtractor(r, map[string]report.Exporter{"txt": exp}, nil)

	doc, err := x.StockDocument(ctx, "TXT")
	require.NoError(t, err)
	assert.Equal(t, []byte("stock"), doc.Data)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Regexp(t, `^estoque_\d{8}_\d{6}\.txt$`, doc.Filename)
	require.NotNil(t, exp.stock)
	assert.Len(t, exp.stock.Rows, 1)

	doc, err = x.HistoryDocument(ctx, m.Code, "txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("history"), doc.Data)
	assert.Contains(t, doc.Filename, m.Code)
	require.NotNil(t, exp.history)

	_, err = x.StockDocument(ctx, "xlsx")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
