package services

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/models"
)

var uploadSlots = map[string]bool{"image1": true, "image2": true, "image3": true}

// UploadService relays reference photos from the browser into the private
// images bucket.
type UploadService struct {
	store  ObjectStore
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time
}

func NewUploadService(store ObjectStore, cfg *config.Config, logger zerolog.Logger) *UploadService {
	return &UploadService{store: store, cfg: cfg, logger: logger, now: time.Now}
}

type UploadInput struct {
	Slot        string
	Filename    string
	ContentType string
	Data        []byte
}

// Upload stores the file and returns a signed URL whose last path segment is
// the object name. That URL is the handle clients pass to the orchestrators.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*models.UploadResponse, error) {
	if len(in.Data) == 0 {
		return nil, apperr.Validation("No file provided")
	}

	slot := strings.TrimSpace(in.Slot)
	if slot == "" {
		slot = "image1"
	}
	if !uploadSlots[slot] {
		return nil, apperr.Validation("Invalid slot %q, expected image1, image2 or image3", slot)
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(in.Data).String()
	}

	name := uploadObjectName(slot, uploadExtension(in.Filename, in.Data), s.now())
	if err := s.store.Upload(s.cfg.ImagesBucket, name, in.Data, contentType, false); err != nil {
		return nil, apperr.Storage("Failed to upload image", err)
	}

	signed, err := s.store.SignedURL(s.cfg.ImagesBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, apperr.Storage("Failed to generate signed URL", err)
	}

	s.logger.Info().
		Str("object", name).
		Str("slot", slot).
		Int("bytes", len(in.Data)).
		Msg("upload stored")

	return &models.UploadResponse{URL: signed}, nil
}
