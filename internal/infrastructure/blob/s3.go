package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/pkg/config"
)

var _ ports.BlobStore = (*S3Store)(nil)

// S3Store guarda ficheros en un bucket S3 (o compatible: MinIO, RustFS).
type S3Store struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

// NewS3Store construye el adaptador con las credenciales por defecto del entorno (AWS_*).
// Con S3Endpoint se usa direccionamiento path-style.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3: S3_BUCKET es obligatorio")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		uploader:  manager.NewUploader(client),
		bucket:    cfg.S3Bucket,
		publicURL: publicBase(cfg, region),
	}, nil
}

// Put sube el fichero con clave <uuid>/<name> y devuelve la clave.
func (s *S3Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := uuid.New().String() + "/" + path.Base(name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3: subir %s: %w", key, err)
	}
	return key, nil
}

// URL devuelve <base pública>/<clave>.
func (s *S3Store) URL(key string) string {
	return s.publicURL + "/" + key
}

// publicBase S3_PUBLIC_URL si está definido; si no, endpoint path-style o virtual-hosted de AWS.
func publicBase(cfg config.StorageConfig, region string) string {
	switch {
	case cfg.S3PublicURL != "":
		return strings.TrimRight(cfg.S3PublicURL, "/")
	case cfg.S3Endpoint != "":
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, region)
	}
}
