package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la reserva de secuencia y el alta del material se confirmen juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materials repository.MaterialRepository,
		sequences repository.SequenceRepository,
	) error) error
}

// BlobStore almacena binarios (imágenes de materiales) y devuelve la URL pública.
// El registro solo guarda esa URL; no depende de otra cosa del almacenamiento.
type BlobStore interface {
	Store(ctx context.Context, data []byte, name string) (url string, err error)
}

// ImageOptimizer normaliza la imagen antes de almacenarla (redimensiona y re-codifica).
// Devuelve los bytes resultantes y la extensión que les corresponde (ej: ".jpg").
type ImageOptimizer interface {
	Optimize(data []byte) ([]byte, string, error)
}
