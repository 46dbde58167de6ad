package services

import (
	"context"
	"time"

	"hug-studio-backend/internal/gemini"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/sora"
)

// ObjectStore is the private blob store holding uploads and generated assets.
type ObjectStore interface {
	Upload(bucket, name string, data []byte, contentType string, upsert bool) error
	Download(bucket, name string) ([]byte, error)
	SignedURL(bucket, name string, ttl time.Duration) (string, error)
	Exists(bucket, name string) (bool, error)
}

// JobStore persists image and video jobs. Getters return an apperr NotFound
// error when the row does not exist.
type JobStore interface {
	InsertImageJob(ctx context.Context, job *models.ImageJob) (*models.ImageJob, error)
	GetImageJob(ctx context.Context, id string) (*models.ImageJob, error)
	ListImageJobs(ctx context.Context, limit int) ([]models.ImageJob, error)

	InsertVideoJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error)
	GetVideoJob(ctx context.Context, id string) (*models.VideoJob, error)
	GetVideoJobByVideoID(ctx context.Context, videoID string) (*models.VideoJob, error)
	ListVideoJobs(ctx context.Context, limit int) ([]models.VideoJob, error)
	// UpdateVideoStatus must not move a terminal row to a different status,
	// and must not replace video_url once the row is archived.
	UpdateVideoStatus(ctx context.Context, id, status string, videoURL *string) error
	// CompleteVideoArchive writes the durable copy only if the row is not yet
	// archived, reporting whether it did.
	CompleteVideoArchive(ctx context.Context, id string, archive models.VideoArchive) (bool, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, images []gemini.InputImage) (*gemini.Image, error)
}

type VideoProvider interface {
	CreateVideo(ctx context.Context, prompt string) (*sora.Video, error)
	GetVideo(ctx context.Context, id string) (*sora.Video, error)
	Download(ctx context.Context, assetURL string) ([]byte, error)
	BaseURL() string
}
