package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/types"
)

const recipeImagePrefix = "recipes/images"

// MaxImageSize bounds decoded recipe images.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3ImageStore uploads recipe images to the configured bucket
type S3ImageStore struct {
	s3  *config.S3Config
	log *logger.Logger
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(s3Config *config.S3Config, log *logger.Logger) *S3ImageStore {
	return &S3ImageStore{
		s3:  s3Config,
		log: log.With("service", "S3ImageStore", "bucket", s3Config.BucketName),
	}
}

// Save stores the image under a random key and returns its URL.
func (s *S3ImageStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", types.NewFieldError(types.ErrInvalidField, "image", "unsupported image type %s", contentType)
	}
	key := path.Join(recipeImagePrefix, uuid.NewString()+ext)

	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.s3.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	s.log.Debug("image uploaded", "key", key, "bytes", len(data))
	return s.s3.ObjectURL(key), nil
}

// Delete removes an image previously returned by Save.
func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.s3.ObjectURL(""))
	if key == "" || key == ref {
		return fmt.Errorf("image %q is not stored in bucket %s", ref, s.s3.BucketName)
	}

	_, err := s.s3.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from S3: %w", err)
	}

	s.log.Debug("image deleted", "key", key)
	return nil
}

// DecodeDataURI parses "data:image/<fmt>;base64,<payload>" and returns the
// bytes with their sniffed content type.
func DecodeDataURI(raw string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, "", types.NewFieldError(types.ErrInvalidField, "image", "image must be a base64 data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", types.NewFieldError(types.ErrInvalidField, "image", "image is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", types.NewFieldError(types.ErrInvalidField, "image", "image is empty")
	}
	if len(data) > MaxImageSize {
		return nil, "", types.NewFieldError(types.ErrInvalidField, "image", "image exceeds %d bytes", MaxImageSize)
	}

	contentType := http.DetectContentType(data)
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, "", types.NewFieldError(types.ErrInvalidField, "image", "unsupported image type %s", contentType)
	}
	return data, contentType, nil
}
