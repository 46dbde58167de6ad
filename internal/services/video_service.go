package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/lock"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/supabase"
)

const (
	DefaultVideoPrompt = "Two people warmly embracing each other in a heartfelt hug, showing genuine affection and connection. Cinematic lighting, emotional scene, high quality video."

	// archiveLockTTL bounds how long a crashed holder can block other polls.
	archiveLockTTL = 5 * time.Minute
)

// VideoService starts video jobs and advances them on each client poll.
type VideoService struct {
	provider VideoProvider
	store    ObjectStore
	jobs     JobStore
	archiver *StorageService
	resolver *ResultResolver
	locker   lock.Locker
	cfg      *config.Config
	logger   zerolog.Logger
}

// NewVideoService accepts a nil provider when no OpenAI key is configured;
// requests then fail with a configuration error.
func NewVideoService(
	provider VideoProvider,
	store ObjectStore,
	jobs JobStore,
	archiver *StorageService,
	locker lock.Locker,
	cfg *config.Config,
	logger zerolog.Logger,
) *VideoService {
	baseURL := cfg.SoraBaseURL
	if provider != nil {
		baseURL = provider.BaseURL()
	}
	return &VideoService{
		provider: provider,
		store:    store,
		jobs:     jobs,
		archiver: archiver,
		resolver: NewResultResolver(baseURL, cfg.SoraContentFallback),
		locker:   locker,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *VideoService) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.CreateVideoResponse, error) {
	if strings.TrimSpace(req.Image1URL) == "" || strings.TrimSpace(req.Image2URL) == "" {
		return nil, apperr.Validation("Both images are required")
	}
	if s.provider == nil {
		return nil, apperr.Configuration("OpenAI API key not configured. Please set OPENAI_API_KEY.")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = DefaultVideoPrompt
	}

	video, err := s.provider.CreateVideo(ctx, prompt)
	if err != nil {
		return nil, err
	}

	status := video.Status
	if status == "" {
		status = models.StatusProcessing
	}

	resp := &models.CreateVideoResponse{
		Success: true,
		VideoID: video.ID,
		Status:  status,
		Message: "Video generation started. This may take several minutes.",
	}

	record, err := s.jobs.InsertVideoJob(ctx, &models.VideoJob{
		Prompt:    prompt,
		Image1URL: req.Image1URL,
		Image2URL: req.Image2URL,
		Status:    status,
		VideoID:   models.StringPtr(video.ID),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", video.ID).Msg("failed to insert video record")
	} else {
		resp.RecordID = record.ID
	}

	s.logger.Info().Str("video_id", video.ID).Str("status", status).Msg("video job created")
	return resp, nil
}

// CheckVideo reports provider progress. On completion the asset is archived
// once; later polls only re-sign the stored copy.
func (s *VideoService) CheckVideo(ctx context.Context, req models.CheckVideoRequest) (*models.CheckVideoResponse, error) {
	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		return nil, apperr.Validation("Video ID required")
	}
	if s.provider == nil {
		return nil, apperr.Configuration("OpenAI API key not configured. Please set OPENAI_API_KEY.")
	}

	logger := s.logger.With().Str("video_id", videoID).Logger()

	video, err := s.provider.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	job := s.findJob(ctx, logger, req.RecordID, videoID)

	var videoURL *string
	if video.Status == models.StatusCompleted {
		providerURL, source := s.resolver.Resolve(video, videoID)
		if providerURL == "" {
			keys := make([]string, 0, len(video.Raw))
			for k := range video.Raw {
				keys = append(keys, k)
			}
			logger.Warn().Strs("fields", keys).Msg("video completed but no result url found")
		} else {
			logger.Debug().Str("source", source).Msg("resolved video url")
			u := s.durableURL(ctx, logger, job, videoID, providerURL)
			videoURL = &u
		}
	}

	// An empty status carries nothing to record and would break the
	// monotonic status guard.
	if job != nil && video.Status != "" {
		if err := s.jobs.UpdateVideoStatus(ctx, job.ID, video.Status, videoURL); err != nil {
			logger.Error().Err(err).Str("record_id", job.ID).Msg("failed to update video record")
		}
	}

	return &models.CheckVideoResponse{
		Success:   true,
		Status:    video.Status,
		VideoURL:  videoURL,
		Progress:  video.Progress,
		VideoData: video.Raw,
	}, nil
}

// ArchiveVideo is the explicit download-and-store operation.
func (s *VideoService) ArchiveVideo(ctx context.Context, req models.ArchiveVideoRequest) (*models.ArchiveVideoResponse, error) {
	if strings.TrimSpace(req.VideoURL) == "" {
		return nil, apperr.Validation("Video URL required")
	}
	if req.VideoID == "" {
		return s.archiver.ArchiveVideo(ctx, req)
	}

	unlock, ok, err := s.locker.TryLock(ctx, archiveLockKey(req.VideoID), archiveLockTTL)
	if err != nil {
		return nil, apperr.Storage("Failed to acquire archive lock", err)
	}
	if !ok {
		return nil, apperr.Conflict("Video is already being stored, try again shortly")
	}
	defer unlock()

	return s.archiver.ArchiveVideo(ctx, req)
}

// durableURL returns the URL to hand back for a completed video. It falls back
// to the provider URL whenever the durable copy is unavailable.
func (s *VideoService) durableURL(ctx context.Context, logger zerolog.Logger, job *models.VideoJob, videoID, providerURL string) string {
	if job != nil && job.IsArchived() {
		return s.resign(logger, job, providerURL)
	}

	unlock, ok, err := s.locker.TryLock(ctx, archiveLockKey(videoID), archiveLockTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("archive lock unavailable, returning provider url")
		return providerURL
	}
	if !ok {
		logger.Info().Msg("archive already running elsewhere, returning provider url")
		return providerURL
	}
	defer unlock()

	// Another poll may have finished archiving while we looked up the job.
	if job != nil {
		if fresh, err := s.jobs.GetVideoJob(ctx, job.ID); err == nil && fresh.IsArchived() {
			return s.resign(logger, fresh, providerURL)
		}
	} else if signed, ok := s.storedCopy(logger, videoID); ok {
		return signed
	}

	recordID := ""
	if job != nil {
		recordID = job.ID
	}
	archived, err := s.archiver.ArchiveVideo(ctx, models.ArchiveVideoRequest{
		VideoURL: providerURL,
		VideoID:  videoID,
		RecordID: recordID,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to archive video, returning provider url")
		return providerURL
	}
	return archived.SupabaseURL
}

// storedCopy signs an earlier archive of videoID when there is no record to
// remember it. Object names are derived from the provider id, so the copy is
// found by name.
func (s *VideoService) storedCopy(logger zerolog.Logger, videoID string) (string, bool) {
	name := videoObjectName(videoID, time.Time{})
	exists, err := s.store.Exists(s.cfg.VideosBucket, name)
	if err != nil {
		logger.Warn().Err(err).Str("object", name).Msg("failed to look up stored video")
		return "", false
	}
	if !exists {
		return "", false
	}
	signed, err := s.store.SignedURL(s.cfg.VideosBucket, name, s.cfg.SignedURLTTL)
	if err != nil {
		logger.Warn().Err(err).Str("object", name).Msg("failed to sign stored video")
		return "", false
	}
	return signed, true
}

func (s *VideoService) resign(logger zerolog.Logger, job *models.VideoJob, fallback string) string {
	signed, err := s.store.SignedURL(s.cfg.VideosBucket, models.Deref(job.StoragePath), s.cfg.SignedURLTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to re-sign archived video")
		if job.VideoURL != nil {
			return *job.VideoURL
		}
		return fallback
	}
	return signed
}

// findJob locates the record by its id, then by the provider job id. A
// missing record is not an error: the poll still reports provider status.
func (s *VideoService) findJob(ctx context.Context, logger zerolog.Logger, recordID, videoID string) *models.VideoJob {
	if recordID != "" {
		job, err := s.jobs.GetVideoJob(ctx, recordID)
		if err == nil {
			return job
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			logger.Warn().Err(err).Str("record_id", recordID).Msg("failed to load video record")
		}
	}

	job, err := s.jobs.GetVideoJobByVideoID(ctx, videoID)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			logger.Warn().Err(err).Msg("failed to load video record by provider id")
		}
		return nil
	}
	return job
}

func archiveLockKey(videoID string) string {
	return "video-archive:" + videoID
}

// handleName is the storage object behind a stored URL, or "" for URLs that
// do not point into our storage.
func handleName(storagePath *string, storedURL *string) string {
	if name := models.Deref(storagePath); name != "" {
		return name
	}
	u := models.Deref(storedURL)
	if u == "" {
		return ""
	}
	if strings.Contains(u, "://") && !strings.Contains(u, "/storage/v1/object/") {
		return ""
	}
	return supabase.ObjectName(u)
}
