package inventory_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
)

type fakeBlobStore struct {
	key  string
	data []byte
}

func (f *fakeBlobStore) Store(_ context.Context, data []byte, name string) (string, error) {
	f.key, f.data = name, data
	return "https://cdn.test/" + name, nil
}

type fakeOptimizer struct{}

func (fakeOptimizer) Optimize(data []byte) ([]byte, string, error) {
	return append([]byte("opt:"), data[:4]...), ".jpg", nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestUpload_OptimizaYGuardaConClaveSaneada(t *testing.T) {
	store := &fakeBlobStore{}
	uc := appinventory.NewImageUploadUseCase(store, fakeOptimizer{}, 1<<20)

	url, err := uc.Upload(context.Background(), "../fotos/Martelo Grande.png", tinyPNG(t))
	require.NoError(t, err)

	assert.Regexp(t, `^materiais/\d+_Martelo_Grande\.jpg$`, store.key)
	assert.Equal(t, "https://cdn.test/"+store.key, url)
	assert.True(t, bytes.HasPrefix(store.data, []byte("opt:")))
}

func TestUpload_SinOptimizadorGuardaOriginal(t *testing.T) {
	store := &fakeBlobStore{}
	data := tinyPNG(t)
	_, err := appinventory.NewImageUploadUseCase(store, nil, 0).Upload(context.Background(), "foto.png", data)
	require.NoError(t, err)
	assert.Equal(t, data, store.data)
	assert.Regexp(t, `_foto\.png$`, store.key)
}

func TestUpload_Rechazos(t *testing.T) {
	ctx := context.Background()
	store := &fakeBlobStore{}

	_, err := appinventory.NewImageUploadUseCase(store, nil, 10).Upload(ctx, "foto.png", tinyPNG(t))
	assert.ErrorIs(t, err, domain.ErrValidation, "supera el tamaño máximo")

	_, err = appinventory.NewImageUploadUseCase(store, nil, 0).Upload(ctx, "nota.txt", []byte("texto plano"))
	assert.ErrorIs(t, err, domain.ErrValidation, "no es imagen")

	_, err = appinventory.NewImageUploadUseCase(store, nil, 0).Upload(ctx, "vacio.png", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = appinventory.NewImageUploadUseCase(nil, nil, 0).Upload(ctx, "foto.png", tinyPNG(t))
	assert.ErrorIs(t, err, appinventory.ErrStorageUnavailable)
}
