package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/insightcrew/relata/pkg/config"
)

const minioSetupTimeout = 10 * time.Second

// TranscriptArchive stores raw transcript text in object storage so a
// conversation record can link back to its source. Archival is optional;
// the analysis flow works without it.
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive connects to object storage and ensures the bucket
// exists.
func NewTranscriptArchive(cfg *config.StorageConfig) (*TranscriptArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), minioSetupTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &TranscriptArchive{client: client, bucket: cfg.BucketName}, nil
}

// UploadTranscript stores transcript text under transcripts/<id>.txt and
// returns the object path.
func (a *TranscriptArchive) UploadTranscript(ctx context.Context, id, text string) (string, error) {
	objectName := fmt.Sprintf("transcripts/%s.txt", id)
	reader := strings.NewReader(text)

	_, err := a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(text)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return objectName, nil
}
