// Package storage implementa el adaptador de imágenes sobre un almacenamiento S3 compatible (MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/fabric-stock-api/internal/application/ports"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/pkg/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Folder espacio fijo donde se publican las imágenes de categorías.
const Folder = "fabric-categories"

// ObjectStore es la parte del cliente MinIO que usa el uploader.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioStore adapta *minio.Client (PutObject recibe io.Reader) a ObjectStore.
type minioStore struct {
	mc *minio.Client
}

func (s minioStore) PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return s.mc.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

var _ ports.ImageUploader = (*MinioImageUploader)(nil)

// MinioImageUploader redimensiona la imagen a 300 px de ancho y la sube a MinIO.
type MinioImageUploader struct {
	store     ObjectStore
	bucket    string
	publicURL string
}

// NewMinioClient crea el cliente MinIO a partir de la configuración.
func NewMinioClient(cfg config.StorageConfig) (*minio.Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente minio: %w", err)
	}
	return mc, nil
}

// EnsureBucket crea el bucket si no existe.
func EnsureBucket(ctx context.Context, mc *minio.Client, bucket string) error {
	exists, err := mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("consultar bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("crear bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// NewMinioImageUploader construye el uploader sobre un cliente MinIO ya creado.
func NewMinioImageUploader(mc *minio.Client, cfg config.StorageConfig) *MinioImageUploader {
	return newImageUploader(minioStore{mc: mc}, cfg.Bucket, cfg.PublicBaseURL())
}

func newImageUploader(store ObjectStore, bucket, publicURL string) *MinioImageUploader {
	return &MinioImageUploader{
		store:     store,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload redimensiona y publica la imagen; devuelve su URL pública.
// Un archivo que no es imagen es un error del cliente (ErrInvalidInput);
// un fallo del almacenamiento es ErrUpstream.
func (u *MinioImageUploader) Upload(ctx context.Context, file ports.ImageFile) (string, error) {
	img, err := resize(file.Reader)
	if err != nil {
		return "", domain.Invalid("la imagen no es válida: " + err.Error())
	}

	key := fmt.Sprintf("%s/%s.%s", Folder, uuid.NewString(), img.Ext)
	_, err = u.store.PutObject(ctx, u.bucket, key, bytes.NewReader(img.Data), int64(len(img.Data)), minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", domain.Upstream("no se pudo subir la imagen", err)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, key), nil
}

// DisabledImageUploader se usa cuando no hay almacenamiento configurado:
// toda subida falla con ErrUpstream y las categorías sin imagen siguen funcionando.
type DisabledImageUploader struct{}

var _ ports.ImageUploader = DisabledImageUploader{}

// Upload siempre falla.
func (DisabledImageUploader) Upload(context.Context, ports.ImageFile) (string, error) {
	return "", domain.Upstream("almacenamiento de imágenes no configurado", nil)
}
