// Package storage implementa el almacenamiento de imágenes de materiales:
// bucket de Google Cloud Storage y optimización previa con imaging.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

var _ inventory.BlobStore = (*GCSStore)(nil)

const uploadTimeout = 2 * time.Minute

// GCSConfig parámetros del bucket.
// Credentials acepta el JSON de la cuenta de servicio o la ruta al archivo; vacío usa las credenciales por defecto.
type GCSConfig struct {
	Bucket      string
	CDNDomain   string
	Credentials string
}

// GCSStore sube objetos públicos a un bucket de GCS.
type GCSStore struct {
	client    *gcs.Client
	bucket    string
	cdnDomain string
}

// NewGCSStore crea el cliente de storage.
func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("storage: bucket requerido")
	}
	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	if creds := strings.TrimSpace(cfg.Credentials); creds != "" {
		if strings.HasPrefix(creds, "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
		} else {
			opts = append(opts, option.WithCredentialsFile(creds))
		}
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: crear cliente: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, cdnDomain: cfg.CDNDomain}, nil
}

// Store escribe data en la clave name y devuelve su URL pública.
func (s *GCSStore) Store(ctx context.Context, data []byte, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if ct := ContentTypeForKey(name); ct != "" {
		w.ContentType = ct
	}
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: escribir %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar %q: %w", name, err)
	}
	return PublicURL(s.bucket, s.cdnDomain, name), nil
}

// Close libera el cliente.
func (s *GCSStore) Close() error { return s.client.Close() }

// PublicURL URL de lectura del objeto: por CDN si está configurado, si no la URL pública de GCS.
func PublicURL(bucket, cdnDomain, key string) string {
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimSuffix(cdnDomain, "/"), key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

// ContentTypeForKey deduce el content-type por extensión; "" si no es una imagen conocida.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	}
	return ""
}
