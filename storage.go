package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore is where supplement images live. Save stores the bytes under a
// fresh random name (keeping the original extension) and returns that name;
// the name is what goes in the supplements.image_url column. Delete removes
// a stored object and is a no-op for names that no longer exist.
type ImageStore interface {
	Save(ctx context.Context, ext string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// newImageStore selects an ImageStore from config: local disk by default,
// S3 when IMAGE_STORE=s3.
func newImageStore(ctx context.Context, cfg config) (ImageStore, error) {
	switch cfg.ImageStore {
	case "", "disk":
		return newDiskImageStore(cfg.UploadDir)
	case "s3":
		return newS3ImageStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q (want disk or s3)", cfg.ImageStore)
	}
}

// imageExt extracts a lowercase extension from an uploaded filename,
// defaulting to .jpg when there isn't one.
func imageExt(uploadedName string) string {
	ext := strings.ToLower(filepath.Ext(uploadedName))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}

/* ─── Local disk ──────────────────────────────────────────────────────── */

// diskImageStore writes images into a local directory, which the server
// mounts at /uploads.
type diskImageStore struct {
	dir string
}

func newDiskImageStore(dir string) (*diskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskImageStore{dir: dir}, nil
}

func (s *diskImageStore) Save(_ context.Context, ext string, data []byte) (string, error) {
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

func (s *diskImageStore) Delete(_ context.Context, name string) error {
	// filepath.Base guards against path traversal in stored names.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

/* ─── S3 ──────────────────────────────────────────────────────────────── */

// s3ImageStore keeps images in an S3 (or S3-compatible) bucket under a
// supplements/ prefix.
type s3ImageStore struct {
	client *s3.Client
	bucket string
}

func newS3ImageStore(ctx context.Context, cfg config) (*s3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})
	return &s3ImageStore{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *s3ImageStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	key := "supplements/" + uuid.New().String() + ext
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("put image: %w", err)
	}
	return key, nil
}

func (s *s3ImageStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &name,
	})
	return err
}
