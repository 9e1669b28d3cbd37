package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/foodgram/backend/config"
)

// Store persists uploads and returns the URL they are served from.
type Store interface {
	Save(ctx context.Context, key string, u *Upload) (string, error)
	Delete(ctx context.Context, url string) error
}

// DiskStore writes files under Root and serves them from BaseURL.
type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DiskStore) Save(ctx context.Context, key string, u *Upload) (string, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(path, u.Data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.BaseURL+"/")
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// S3Store uploads images to a bucket.
type S3Store struct {
	cfg *config.S3Config
}

func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) Save(ctx context.Context, key string, u *Upload) (string, error) {
	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(u.Data),
		ContentType: aws.String(u.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.cfg.PublicBaseURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.cfg.PublicBaseURL+"/")
	if !ok {
		return nil
	}
	_, err := s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
