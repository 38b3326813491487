package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// ReportHandler expone los reportes de stock e historial en JSON, CSV o PDF.
type ReportHandler struct {
	extractor *report.Extractor
}

// NewReportHandler construye el handler.
func NewReportHandler(extractor *report.Extractor) *ReportHandler {
	return &ReportHandler{extractor: extractor}
}

// Stock godoc
// @Summary      Reporte de stock actual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        format  query  string  false  "json (defecto) | csv | pdf"
// @Success      200  {object}  dto.StockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	format := requestedFormat(c)
	if format == report.FormatJSON {
		out, err := h.extractor.CurrentStock(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	doc, err := h.extractor.StockDocument(c.Context(), format)
	if err != nil {
		return respondError(c, err)
	}
	return sendDocument(c, doc)
}

// History godoc
// @Summary      Historial de movimientos de un material
// @Description  Una fila por movimiento con el saldo después de aplicarlo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        code    path   string  true   "Código del material"
// @Param        format  query  string  false  "json (defecto) | csv | pdf"
// @Success      200  {object}  dto.HistoryReport
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reports/history/{code} [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	code := c.Params("code")
	format := requestedFormat(c)
	if format == report.FormatJSON {
		out, err := h.extractor.MovementHistory(c.Context(), code)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	doc, err := h.extractor.HistoryDocument(c.Context(), code, format)
	if err != nil {
		return respondError(c, err)
	}
	return sendDocument(c, doc)
}

func requestedFormat(c *fiber.Ctx) string {
	f := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if f == "" {
		return report.FormatJSON
	}
	return f
}

func sendDocument(c *fiber.Ctx, doc *report.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Send(doc.Data)
}
