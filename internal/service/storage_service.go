package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	cfg "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/pkg/utils"
)

// StorageService keeps generated artifacts in Cloudflare R2.
type StorageService struct {
	config cfg.Config
}

func NewStorageService(cfg cfg.Config) *StorageService {
	return &StorageService{config: cfg}
}

func (r *StorageService) R2Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		log.Fatal(err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	})
}

// Store uploads a local artifact under the given prefix and returns
// its object key. The content type is sniffed from the bytes, not the
// file name.
func (r *StorageService) Store(ctx context.Context, localPath, prefix string) (string, error) {
	file, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}

	kind, _ := filetype.Match(file)
	extension := strings.TrimPrefix(filepath.Ext(localPath), ".")
	contentType := "application/octet-stream"
	if kind != filetype.Unknown {
		contentType = kind.MIME.Value
		extension = kind.Extension
	}

	key, err := utils.StorageKey(prefix, extension)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	r2Client := r.R2Client()

	_, err = r2Client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return key, nil
}

// Prune deletes artifacts older than the cutoff. Runs from the weekly
// storage maintenance task.
func (r *StorageService) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	r2Client := r.R2Client()

	deleted := 0
	var continuation *string
	for {
		page, err := r2Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.config.R2.BucketName),
			ContinuationToken: continuation,
		})
		if err != nil {
			slog.Info(err.Error())
			return deleted, err
		}

		for _, object := range page.Contents {
			if object.LastModified == nil || object.LastModified.After(olderThan) {
				continue
			}
			_, err := r2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(r.config.R2.BucketName),
				Key:    object.Key,
			})
			if err != nil {
				slog.Info(err.Error())
				continue
			}
			deleted++
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		continuation = page.NextContinuationToken
	}

	return deleted, nil
}
