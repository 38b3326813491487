// Package export serializa los reportes de estoque a archivos descargables (CSV y PDF).
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

var _ report.Exporter = (*CSVExporter)(nil)

const timestampLayout = "02/01/2006 15:04"

// CSVExporter escribe CSV separado por ';' para que Excel en pt-BR lo abra sin asistente.
// Con Windows-1252 (defecto) los acentos se ven bien en Excel; UTF8 deja el texto sin convertir.
type CSVExporter struct {
	enc encoding.Encoding
}

// NewCSVExporter construye el exportador. utf8 desactiva la conversión a Windows-1252.
func NewCSVExporter(utf8 bool) *CSVExporter {
	if utf8 {
		return &CSVExporter{}
	}
	return &CSVExporter{enc: charmap.Windows1252}
}

func (e *CSVExporter) ContentType() string {
	if e.enc == nil {
		return "text/csv; charset=utf-8"
	}
	return "text/csv; charset=windows-1252"
}

func (e *CSVExporter) Extension() string { return ".csv" }

func (e *CSVExporter) ExportStock(_ context.Context, r *dto.StockReport) ([]byte, error) {
	records := [][]string{{"Código", "Nome", "Tipo", "Quantidade", "Local", "Solicitante", "Data de entrada", "Observações", "Imagem"}}
	for _, row := range r.Rows {
		records = append(records, []string{
			row.Code,
			row.Name,
			row.Type,
			strconv.FormatInt(row.Quantity, 10),
			row.Location,
			row.Requester,
			row.EntryDate,
			row.Notes,
			row.ImageURL,
		})
	}
	return e.write(records)
}

func (e *CSVExporter) ExportHistory(_ context.Context, r *dto.HistoryReport) ([]byte, error) {
	records := [][]string{
		{"Código", r.Code, "Nome", r.Name, "Quantidade", strconv.FormatInt(r.Quantity, 10)},
		{"Tipo", "Quantidade", "Data", "Usuário", "Saldo"},
	}
	for _, row := range r.Rows {
		records = append(records, []string{
			kindLabel(row.Kind),
			strconv.FormatInt(row.Amount, 10),
			row.Timestamp.Format(timestampLayout),
			row.Actor,
			strconv.FormatInt(row.Balance, 10),
		})
	}
	return e.write(records)
}

func (e *CSVExporter) write(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	var w *csv.Writer
	var tw *transform.Writer
	if e.enc != nil {
		// Caracteres fuera de Windows-1252 se reemplazan en lugar de abortar la exportación.
		tw = transform.NewWriter(&buf, encoding.ReplaceUnsupported(e.enc.NewEncoder()))
		w = csv.NewWriter(tw)
	} else {
		w = csv.NewWriter(&buf)
	}
	w.Comma = ';'
	w.UseCRLF = true

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: escribir registros: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return nil, fmt.Errorf("csv: convertir codificación: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func kindLabel(kind string) string {
	switch kind {
	case entity.MovementKindInbound:
		return "Entrada"
	case entity.MovementKindOutbound:
		return "Saída"
	}
	return kind
}
