package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
)

const MaxImageSize = 5 << 20

var ErrStorageDisabled = errors.New("image storage is not configured")

// UploadImage sniffs the payload, rejects anything that is not an image and
// stores it under a random name.
func (s *CatalogService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.upload_image")

	if s.Storage == nil {
		return "", ErrStorageDisabled
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %w", ErrValidation)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("file larger than %d bytes: %w", MaxImageSize, ErrValidation)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		l.Warn("upload_rejected", "mime", mt.String())
		return "", fmt.Errorf("unsupported content type %s: %w", mt.String(), ErrValidation)
	}

	name := uuid.NewString() + mt.Extension()
	url, err := s.Storage.Upload(ctx, name, mt.String(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		l.Error("upload_failed", "error", err)
		return "", err
	}
	return url, nil
}
