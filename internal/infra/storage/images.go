package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/alpha-clean/internal/config"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

// S3API é o subconjunto do cliente S3 usado aqui.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client monta o cliente com credenciais estáticas. S3_ENDPOINT
// permite apontar para MinIO/R2 (path style).
func NewS3Client(cfg *config.Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretKey,
			"",
		)
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type ImageStore struct {
	client        S3API
	bucket        string
	region        string
	publicBaseURL string
	logger        *logging.Logger
}

func NewImageStore(client S3API, cfg *config.Config, logger *logging.Logger) *ImageStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImageStore{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		logger:        logger,
	}
}

func (s *ImageStore) Enabled() bool {
	return s != nil && s.client != nil && s.bucket != ""
}

// UploadServiceImage converte para WebP e grava em services/<id>/<uuid>.webp.
// Devolve a URL pública.
func (s *ImageStore) UploadServiceImage(ctx context.Context, serviceID uint, r io.Reader) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("storage: image upload not configured")
	}

	data, err := ToWebP(r, MaxImageWidth)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("services/%d/%s.webp", serviceID, uuid.NewString())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}

	s.logger.Info("service image uploaded", "service_id", serviceID, "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

// DeleteByURL remove o objeto de uma URL gerada por PublicURL. URLs de
// outra origem são ignoradas.
func (s *ImageStore) DeleteByURL(ctx context.Context, url string) error {
	if !s.Enabled() || url == "" {
		return nil
	}

	prefix := s.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := strings.TrimPrefix(url, prefix)

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("storage: s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *ImageStore) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
