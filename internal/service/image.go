package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageStore persists a decoded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

// S3ImageStore uploads recipe images to S3.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName), nil
}

// LocalImageStore writes recipe images under a media directory for
// deployments without S3.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: baseURL}
}

func (s *LocalImageStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", err
	}

	return strings.TrimSuffix(s.baseURL, "/") + "/" + fileName, nil
}

// ImageService decodes the base64 image transport format and hands the
// bytes to the configured store.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// DecodeAndStore accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 string, verifies the payload is a decodable image and
// stores it. The returned URL goes on the recipe.
func (s *ImageService) DecodeAndStore(ctx context.Context, payload string) (string, error) {
	encoded := payload
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &ValidationError{Field: "image", Message: "invalid base64 payload"}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &ValidationError{Field: "image", Message: "payload is not a valid image"}
	}
	if format == "jpeg" {
		format = "jpg"
	}

	return s.store.Save(ctx, data, format)
}
