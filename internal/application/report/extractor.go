// Package report arma los reportes de stock actual e historial de movimientos
// y los entrega en JSON o a través de un Exporter.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	appinventory "github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// FormatJSON formato por defecto; lo serializa la capa HTTP.
const FormatJSON = "json"

// Document reporte ya exportado, listo para descargar.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Extractor produce reportes de solo lectura sobre el registro.
type Extractor struct {
	source    MaterialSource
	exporters map[string]Exporter
	log       *logger.Logger
	now       func() time.Time
}

// NewExtractor construye el extractor. exporters se indexa por formato ("csv", "pdf").
func NewExtractor(source MaterialSource, exporters map[string]Exporter, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	if exporters == nil {
		exporters = map[string]Exporter{}
	}
	return &Extractor{source: source, exporters: exporters, log: log.Component("report"), now: time.Now}
}

// CurrentStock una fila por material, sin historial. Un material con cantidad distinta
// a la proyección de su historial aborta el reporte con ErrCorruption.
func (e *Extractor) CurrentStock(ctx context.Context) (*dto.StockReport, error) {
	list, err := e.source.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.StockReport{GeneratedAt: e.now(), Rows: make([]dto.StockRow, 0, len(list))}
	for _, m := range list {
		if err := inventory.Verify(m); err != nil {
			e.log.ForMaterial(m.ID, m.Code).Error().Err(err).Msg("reporte de stock: historial inconsistente")
			return nil, err
		}
		out.Rows = append(out.Rows, stockRow(m))
	}
	return out, nil
}

// MovementHistory historial del único material con ese código, con el saldo después de cada movimiento.
func (e *Extractor) MovementHistory(ctx context.Context, code string) (*dto.HistoryReport, error) {
	m, err := e.source.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := inventory.Verify(m); err != nil {
		e.log.ForMaterial(m.ID, m.Code).Error().Err(err).Msg("reporte de historial: historial inconsistente")
		return nil, err
	}

	balances := inventory.RunningTotals(m.Movements)
	out := &dto.HistoryReport{
		GeneratedAt: e.now(),
		Code:        m.Code,
		Name:        m.Name,
		Quantity:    m.Quantity,
		Rows:        make([]dto.HistoryRow, 0, len(m.Movements)),
	}
	for i, mv := range m.Movements {
		out.Rows = append(out.Rows, dto.HistoryRow{
			Kind:      mv.Kind,
			Amount:    mv.Amount,
			Timestamp: mv.Timestamp,
			Actor:     mv.Actor,
			Balance:   balances[i],
		})
	}
	return out, nil
}

// StockDocument exporta CurrentStock en el formato pedido.
func (e *Extractor) StockDocument(ctx context.Context, format string) (*Document, error) {
	exp, err := e.exporter(format)
	if err != nil {
		return nil, err
	}
	r, err := e.CurrentStock(ctx)
	if err != nil {
		return nil, err
	}
	data, err := exp.ExportStock(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("report: exportar stock: %w", err)
	}
	name := "estoque_" + r.GeneratedAt.Format("20060102_150405") + exp.Extension()
	return &Document{Data: data, ContentType: exp.ContentType(), Filename: name}, nil
}

// HistoryDocument exporta MovementHistory en el formato pedido.
func (e *Extractor) HistoryDocument(ctx context.Context, code, format string) (*Document, error) {
	exp, err := e.exporter(format)
	if err != nil {
		return nil, err
	}
	r, err := e.MovementHistory(ctx, code)
	if err != nil {
		return nil, err
	}
	data, err := exp.ExportHistory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("report: exportar historial: %w", err)
	}
	name := "historico_" + r.Code + "_" + r.GeneratedAt.Format("20060102_150405") + exp.Extension()
	return &Document{Data: data, ContentType: exp.ContentType(), Filename: name}, nil
}

func (e *Extractor) exporter(format string) (Exporter, error) {
	exp, ok := e.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: formato de reporte %q no soportado", domain.ErrValidation, format)
	}
	return exp, nil
}

func stockRow(m *entity.Material) dto.StockRow {
	row := dto.StockRow{
		Code:      m.Code,
		Name:      m.Name,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Location:  m.Location,
		Requester: m.Requester,
		Notes:     m.Notes,
		ImageURL:  m.ImageURL,
	}
	if m.EntryDate != nil {
		row.EntryDate = m.EntryDate.Format(appinventory.DateLayout)
	}
	return row
}
