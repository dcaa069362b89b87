package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"freight-backend/internal/config"
	"freight-backend/internal/models"
)

// Uploader stores raw file buffers in object storage and hands back
// retrievable URLs. No retry is performed at this layer; retry, if any,
// is the caller's responsibility.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (string, error)
	UploadAll(ctx context.Context, files []models.EvidenceFile, folder string) ([]string, error)
}

// S3Storage uploads to an S3-compatible bucket (Cloudflare R2 in production).
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})

	return &S3Storage{
		client:        client,
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload stores a single buffer under folder/<timestamp>-<name> and returns
// its public URL.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	key := fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixNano(), sanitizeFilename(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s failed: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// UploadAll uploads a batch concurrently. The whole batch fails if any
// single upload fails; no partial-success list is returned.
func (s *S3Storage) UploadAll(ctx context.Context, files []models.EvidenceFile, folder string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f models.EvidenceFile) {
			defer wg.Done()
			urls[i], errs[i] = s.Upload(ctx, f.Data, f.Filename, folder)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// sanitizeFilename strips path separators and whitespace so user-supplied
// names cannot escape the target folder.
func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return name
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
