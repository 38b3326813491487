package report

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MaterialSource lecturas que necesita el extractor. Lo implementa inventory.Registry.
type MaterialSource interface {
	List(ctx context.Context) ([]*entity.Material, error)
	FindByCode(ctx context.Context, code string) (*entity.Material, error)
}

// Exporter serializa los reportes a un formato de archivo (CSV, PDF).
type Exporter interface {
	ContentType() string
	Extension() string
	ExportStock(ctx context.Context, r *dto.StockReport) ([]byte, error)
	ExportHistory(ctx context.Context, r *dto.HistoryReport) ([]byte, error)
}
