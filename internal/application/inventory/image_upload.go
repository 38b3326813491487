package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
)

// ErrStorageUnavailable el almacenamiento de imágenes no está configurado.
var ErrStorageUnavailable = errors.New("almacenamiento de imágenes no configurado")

// ImageUploadUseCase prepara y almacena la foto de un material antes del alta.
// El cliente recibe la URL y la envía como image_url al registrar.
type ImageUploadUseCase struct {
	store     BlobStore
	optimizer ImageOptimizer
	maxBytes  int64
	now       func() time.Time
}

// NewImageUploadUseCase construye el caso de uso. optimizer puede ser nil (se guarda el original).
func NewImageUploadUseCase(store BlobStore, optimizer ImageOptimizer, maxBytes int64) *ImageUploadUseCase {
	return &ImageUploadUseCase{store: store, optimizer: optimizer, maxBytes: maxBytes, now: time.Now}
}

// Upload valida tamaño y tipo, optimiza y guarda bajo materiais/<unixms>_<nombre>.
func (uc *ImageUploadUseCase) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if uc.store == nil {
		return "", ErrStorageUnavailable
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: archivo vacío", domain.ErrValidation)
	}
	if uc.maxBytes > 0 && int64(len(data)) > uc.maxBytes {
		return "", fmt.Errorf("%w: la imagen supera %d bytes", domain.ErrValidation, uc.maxBytes)
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: el archivo no es una imagen (%s)", domain.ErrValidation, ct)
	}

	name := sanitizeFilename(filename)
	if uc.optimizer != nil {
		optimized, ext, err := uc.optimizer.Optimize(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		data = optimized
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}

	key := fmt.Sprintf("materiais/%d_%s", uc.now().UnixMilli(), name)
	return uc.store.Store(ctx, data, key)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "imagem"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '/' || r == '\\' || r == '?' || r == '#':
			return -1
		}
		return r
	}, name)
}
