package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/gemini"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/supabase"
)

const (
	MaxImages = 3

	DefaultImagePrompt = "Create a heartfelt, photorealistic image of these two people warmly embracing each other in a tender hug, showing genuine affection and connection. Natural lighting, emotional scene."

	imageProvider = "gemini"
)

// ImageService turns one to three uploaded photos into a generated hug image.
type ImageService struct {
	generator ImageGenerator
	store     ObjectStore
	jobs      JobStore
	cfg       *config.Config
	logger    zerolog.Logger
	now       func() time.Time
}

// NewImageService accepts a nil generator when no Gemini key is configured;
// requests then fail with a configuration error.
func NewImageService(generator ImageGenerator, store ObjectStore, jobs JobStore, cfg *config.Config, logger zerolog.Logger) *ImageService {
	return &ImageService{
		generator: generator,
		store:     store,
		jobs:      jobs,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ImageService) CreateImage(ctx context.Context, req models.CreateImageRequest) (*models.CreateImageResponse, error) {
	if len(req.ImageURLs) == 0 {
		return nil, apperr.Validation("At least one image is required")
	}
	if len(req.ImageURLs) > MaxImages {
		return nil, apperr.Validation("Maximum %d images allowed (Gemini limitation)", MaxImages)
	}

	names := make([]string, len(req.ImageURLs))
	for i, handle := range req.ImageURLs {
		names[i] = supabase.ObjectName(handle)
		if names[i] == "" {
			return nil, apperr.Validation("Image %d has an empty URL", i+1)
		}
	}

	if s.generator == nil {
		return nil, apperr.Configuration("Gemini API key not configured. Please set GEMINI_API_KEY.")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = DefaultImagePrompt
	}

	inputs, err := s.downloadInputs(ctx, names)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("images", len(inputs)).Msg("generating image")

	generated, err := s.generator.GenerateImage(ctx, prompt, inputs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	name := imageObjectName(now)
	if err := s.store.Upload(s.cfg.ImagesBucket, name, generated.Data, "image/png", false); err != nil {
		return nil, apperr.Storage("Failed to upload image", err)
	}

	signed, err := s.store.SignedURL(s.cfg.ImagesBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, apperr.Storage("Failed to generate signed URL", err)
	}

	job := &models.ImageJob{
		Provider:     imageProvider,
		Prompt:       prompt,
		Status:       models.StatusCompleted,
		ImageURL:     &signed,
		StoragePath:  &name,
		GenerationID: fmt.Sprintf("gemini_%d", now.UnixMilli()),
	}
	handles := []**string{&job.Image1URL, &job.Image2URL, &job.Image3URL}
	for i, handle := range req.ImageURLs {
		*handles[i] = models.StringPtr(handle)
	}

	record, err := s.jobs.InsertImageJob(ctx, job)
	if err != nil {
		return nil, apperr.Storage("Failed to save image record to database", err)
	}

	s.logger.Info().Str("record_id", record.ID).Str("object", name).Msg("image generated")

	return &models.CreateImageResponse{
		Success:  true,
		ImageURL: signed,
		RecordID: record.ID,
		Message:  "Image generated successfully with Gemini!",
	}, nil
}

// downloadInputs fetches every reference photo with service credentials.
// All downloads finish before the provider is called.
func (s *ImageService) downloadInputs(ctx context.Context, names []string) ([]gemini.InputImage, error) {
	inputs := make([]gemini.InputImage, len(names))

	g, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			data, err := s.store.Download(s.cfg.ImagesBucket, name)
			if err != nil {
				return apperr.Storage(fmt.Sprintf("Failed to download %s", name), err)
			}
			inputs[i] = gemini.InputImage{MIMEType: imageMIMEType(name, data), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}
