package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nyius/HouseMarketplace/internal/port/storage"
	"go.uber.org/zap"
)

type MinioStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucketName)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, existsErr)
		}
	}
	logger.Info("MinioStorage: bucket ready", zap.String("endpoint", endpoint), zap.String("bucket", bucketName))

	return &MinioStorage{client: client, bucket: bucketName, logger: logger}, nil
}

// progressReader reports bytes as they are consumed by the uploader.
type progressReader struct {
	r           io.Reader
	key         string
	total       int64
	transferred int64
	onProgress  storage.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.transferred += int64(n)
		if p.onProgress != nil {
			p.onProgress(storage.Progress{Key: p.key, Transferred: p.transferred, Total: p.total})
		}
	}
	return n, err
}

// Upload stores the object and returns its public URL. Failures are mapped
// onto the storage error classes so the caller can tell an expired
// credential from a cancelled submission.
func (s *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, onProgress storage.ProgressFunc) (string, error) {
	reader := &progressReader{r: r, key: key, total: size, onProgress: onProgress}

	info, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("MinioStorage.Upload: PutObject failed",
			zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", classifyUploadError(ctx, key, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), info.Bucket, info.Key)
	s.logger.Debug("MinioStorage.Upload: object stored",
		zap.String("key", info.Key), zap.Int64("size", info.Size), zap.String("url", fileURL))
	return fileURL, nil
}

func classifyUploadError(ctx context.Context, key string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("upload of %s: %w", key, storage.ErrCancelled)
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("upload of %s: %w", key, storage.ErrUnauthorized)
	}
	return fmt.Errorf("upload of %s failed: %w", key, err)
}
