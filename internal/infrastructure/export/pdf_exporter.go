package export

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

var _ report.Exporter = (*PDFExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PDFExporter genera los reportes en A4 con Maroto v2.
//
//	┌─────────────────────────────────────────────┐
//	│  HEADER: organización + título │ fecha       │
//	│  ─────────────────────────────────────────  │
//	│  TABLA: una fila por material / movimiento  │
//	│  ─────────────────────────────────────────  │
//	│  TOTAL                                      │
//	└─────────────────────────────────────────────┘
type PDFExporter struct {
	organization string
}

// NewPDFExporter construye el exportador. organization aparece en el encabezado.
func NewPDFExporter(organization string) *PDFExporter {
	return &PDFExporter{organization: organization}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }
func (e *PDFExporter) Extension() string   { return ".pdf" }

func (e *PDFExporter) ExportStock(_ context.Context, r *dto.StockReport) ([]byte, error) {
	m := e.newDocument("Relatório de Estoque")
	m.AddRows(e.headerRow("RELATÓRIO DE ESTOQUE", r.GeneratedAt.Format(timestampLayout)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeader([]column{
		{"Código", 2, align.Left},
		{"Nome", 4, align.Left},
		{"Tipo", 2, align.Left},
		{"Local", 2, align.Left},
		{"Qtd.", 2, align.Right},
	}))
	var total int64
	for _, s := range r.Rows {
		total += s.Quantity
		m.AddRows(tableRow([]cell{
			{s.Code, 2, align.Left},
			{s.Name, 4, align.Left},
			{s.Type, 2, align.Left},
			{nonEmpty(s.Location, "—"), 2, align.Left},
			{strconv.FormatInt(s.Quantity, 10), 2, align.Right},
		}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(fmt.Sprintf("%d materiais", len(r.Rows)), "Total em estoque: "+formatThousands(total)))
	return generate(m)
}

func (e *PDFExporter) ExportHistory(_ context.Context, r *dto.HistoryReport) ([]byte, error) {
	m := e.newDocument("Histórico de Movimentações " + r.Code)
	m.AddRows(e.headerRow("HISTÓRICO DE MOVIMENTAÇÕES", r.GeneratedAt.Format(timestampLayout)))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(r.Code+"  ·  "+r.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeader([]column{
		{"Data", 3, align.Left},
		{"Tipo", 2, align.Left},
		{"Qtd.", 2, align.Right},
		{"Saldo", 2, align.Right},
		{"Usuário", 3, align.Left},
	}))
	for _, h := range r.Rows {
		amount := strconv.FormatInt(h.Amount, 10)
		if h.Kind == entity.MovementKindOutbound {
			amount = "-" + amount
		}
		m.AddRows(tableRow([]cell{
			{h.Timestamp.Format(timestampLayout), 3, align.Left},
			{kindLabel(h.Kind), 2, align.Left},
			{amount, 2, align.Right},
			{strconv.FormatInt(h.Balance, 10), 2, align.Right},
			{h.Actor, 3, align.Left},
		}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(fmt.Sprintf("%d movimentações", len(r.Rows)), "Saldo atual: "+formatThousands(r.Quantity)))
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (e *PDFExporter) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(e.organization, true).
		Build()
	return maroto.New(cfg)
}

// headerRow: organización + título (izq) y fecha de generación (der).
func (e *PDFExporter) headerRow(title, generatedAt string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(e.organization, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New(generatedAt, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

type cell = column

func tableHeader(cols []column) core.Row {
	r := row.New(8)
	for _, c := range cols {
		r = r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func tableRow(cells []cell) core.Row {
	r := row.New(6)
	for _, c := range cells {
		r = r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return r
}

func summaryRow(left, right string) core.Row {
	return row.New(10).Add(
		col.New(6).Add(text.New(left, props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(6).Add(text.New(right, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000", -1000 → "-1.000"
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
