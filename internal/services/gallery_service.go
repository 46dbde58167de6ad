package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/models"
)

// resignConcurrency caps parallel signing calls per gallery request.
const resignConcurrency = 8

// GalleryService reads recent jobs and refreshes their signed URLs, which
// expire after the configured TTL.
type GalleryService struct {
	store  ObjectStore
	jobs   JobStore
	cfg    *config.Config
	logger zerolog.Logger
}

func NewGalleryService(store ObjectStore, jobs JobStore, cfg *config.Config, logger zerolog.Logger) *GalleryService {
	return &GalleryService{store: store, jobs: jobs, cfg: cfg, logger: logger}
}

func (s *GalleryService) ListImages(ctx context.Context) ([]models.ImageJob, error) {
	images, err := s.jobs.ListImageJobs(ctx, s.cfg.GalleryLimit)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch images", err)
	}

	var g errgroup.Group
	g.SetLimit(resignConcurrency)
	for i := range images {
		g.Go(func() error {
			s.resignImage(&images[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Storage("Failed to refresh image urls", err)
	}

	if images == nil {
		images = []models.ImageJob{}
	}
	return images, nil
}

func (s *GalleryService) ListVideos(ctx context.Context) ([]models.VideoJob, error) {
	videos, err := s.jobs.ListVideoJobs(ctx, s.cfg.GalleryLimit)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch videos", err)
	}

	var g errgroup.Group
	g.SetLimit(resignConcurrency)
	for i := range videos {
		g.Go(func() error {
			s.resignVideo(&videos[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Storage("Failed to refresh video urls", err)
	}

	if videos == nil {
		videos = []models.VideoJob{}
	}
	return videos, nil
}

// GetImage loads one image for the share page with a fresh URL.
func (s *GalleryService) GetImage(ctx context.Context, id string) (*models.ImageJob, error) {
	image, err := s.jobs.GetImageJob(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, apperr.Storage("Failed to fetch image", err)
	}
	s.resignImage(image)
	return image, nil
}

// resignImage leaves the row untouched when it cannot be signed.
func (s *GalleryService) resignImage(image *models.ImageJob) {
	if image.Status != models.StatusCompleted {
		return
	}
	name := handleName(image.StoragePath, image.ImageURL)
	if name == "" {
		return
	}

	signed, err := s.store.SignedURL(s.cfg.ImagesBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("record_id", image.ID).Msg("failed to re-sign image")
		return
	}
	image.ImageURL = &signed
}

func (s *GalleryService) resignVideo(video *models.VideoJob) {
	if video.Status != models.StatusCompleted {
		return
	}
	name := handleName(video.StoragePath, video.VideoURL)
	if name == "" {
		return
	}

	signed, err := s.store.SignedURL(s.cfg.VideosBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("record_id", video.ID).Msg("failed to re-sign video")
		return
	}
	video.VideoURL = &signed
}
