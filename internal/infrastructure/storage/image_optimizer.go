package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

var _ inventory.ImageOptimizer = (*ImageOptimizer)(nil)

const (
	defaultMaxSide = 1280
	jpegQuality    = 75
)

// ImageOptimizer reduce la foto al lado máximo configurado y la re-codifica como JPEG.
// Corrige la orientación EXIF de las fotos de celular.
type ImageOptimizer struct {
	maxSide int
}

// NewImageOptimizer construye el optimizador. maxSide <= 0 usa 1280 px.
func NewImageOptimizer(maxSide int) *ImageOptimizer {
	if maxSide <= 0 {
		maxSide = defaultMaxSide
	}
	return &ImageOptimizer{maxSide: maxSide}
}

func (o *ImageOptimizer) Optimize(data []byte) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decodificar imagen: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > o.maxSide || b.Dy() > o.maxSide {
		img = imaging.Fit(img, o.maxSide, o.maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("codificar jpeg: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}
