package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/models"
)

// StorageService copies finished videos from the provider into our own
// bucket, since provider links expire.
type StorageService struct {
	provider VideoProvider
	store    ObjectStore
	jobs     JobStore
	cfg      *config.Config
	logger   zerolog.Logger
	now      func() time.Time
}

func NewStorageService(provider VideoProvider, store ObjectStore, jobs JobStore, cfg *config.Config, logger zerolog.Logger) *StorageService {
	return &StorageService{
		provider: provider,
		store:    store,
		jobs:     jobs,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// ArchiveVideo downloads req.VideoURL, stores it under a name derived from the
// provider job id and records the durable URL on the job. The record write is
// conditional, so an already archived job keeps its first durable URL.
func (s *StorageService) ArchiveVideo(ctx context.Context, req models.ArchiveVideoRequest) (*models.ArchiveVideoResponse, error) {
	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		return nil, apperr.Validation("Video URL required")
	}
	if s.provider == nil {
		return nil, apperr.Configuration("OpenAI API key not configured. Please set OPENAI_API_KEY.")
	}

	logger := s.logger.With().Str("video_id", req.VideoID).Logger()

	data, err := s.provider.Download(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("bytes", len(data)).Msg("video downloaded")

	name := videoObjectName(req.VideoID, s.now())
	if err := s.store.Upload(s.cfg.VideosBucket, name, data, "video/mp4", true); err != nil {
		return nil, apperr.Storage("Failed to upload video", err)
	}

	signed, err := s.store.SignedURL(s.cfg.VideosBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, apperr.Storage("Failed to generate secure video URL", err)
	}

	s.recordArchive(ctx, logger, req, models.VideoArchive{
		VideoURL:    signed,
		StoragePath: name,
		OpenAIURL:   videoURL,
	})

	return &models.ArchiveVideoResponse{
		Success:     true,
		SupabaseURL: signed,
		OriginalURL: videoURL,
		Message:     "Video stored successfully",
	}, nil
}

// recordArchive never fails the archive: the object is already stored and
// the gallery can re-sign it later.
func (s *StorageService) recordArchive(ctx context.Context, logger zerolog.Logger, req models.ArchiveVideoRequest, archive models.VideoArchive) {
	recordID := req.RecordID
	if recordID == "" && req.VideoID != "" {
		job, err := s.jobs.GetVideoJobByVideoID(ctx, req.VideoID)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				logger.Warn().Err(err).Msg("failed to look up video record")
			}
			return
		}
		recordID = job.ID
	}
	if recordID == "" {
		return
	}

	applied, err := s.jobs.CompleteVideoArchive(ctx, recordID, archive)
	if err != nil {
		logger.Error().Err(err).Str("record_id", recordID).Msg("failed to record video archive")
		return
	}
	if !applied {
		logger.Info().Str("record_id", recordID).Msg("video record already archived, left unchanged")
	}
}
