package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
)

const (
	imagesTable = "images"
	videosTable = "videos"
)

// RecordsClient stores image and video jobs through PostgREST.
type RecordsClient struct {
	client *supabase.Client
}

func NewRecordsClient(client *supabase.Client) *RecordsClient {
	return &RecordsClient{client: client}
}

func (r *RecordsClient) InsertImageJob(ctx context.Context, job *models.ImageJob) (*models.ImageJob, error) {
	data, _, err := r.client.From(imagesTable).
		Insert(imageRow(job), false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}

	var rows []models.ImageJob
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse image insert: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no image row returned")
	}
	return &rows[0], nil
}

func (r *RecordsClient) GetImageJob(ctx context.Context, id string) (*models.ImageJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("image %s not found", id)
	}

	var rows []models.ImageJob
	if err := r.selectWhere(imagesTable, "id", id, &rows); err != nil {
		if isInvalidID(err) {
			return nil, apperr.NotFound("image %s not found", id)
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("image %s not found", id)
	}
	return &rows[0], nil
}

func (r *RecordsClient) ListImageJobs(ctx context.Context, limit int) ([]models.ImageJob, error) {
	var rows []models.ImageJob
	if err := r.listNewest(imagesTable, limit, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RecordsClient) InsertVideoJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error) {
	data, _, err := r.client.From(videosTable).
		Insert(videoRow(job), false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}

	var rows []models.VideoJob
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse video insert: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no video row returned")
	}
	return &rows[0], nil
}

func (r *RecordsClient) GetVideoJob(ctx context.Context, id string) (*models.VideoJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("video %s not found", id)
	}

	var rows []models.VideoJob
	if err := r.selectWhere(videosTable, "id", id, &rows); err != nil {
		if isInvalidID(err) {
			return nil, apperr.NotFound("video %s not found", id)
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("video %s not found", id)
	}
	return &rows[0], nil
}

func (r *RecordsClient) GetVideoJobByVideoID(ctx context.Context, videoID string) (*models.VideoJob, error) {
	var rows []models.VideoJob
	if err := r.selectWhere(videosTable, "video_id", videoID, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("video with provider id %s not found", videoID)
	}
	return &rows[0], nil
}

func (r *RecordsClient) ListVideoJobs(ctx context.Context, limit int) ([]models.VideoJob, error) {
	var rows []models.VideoJob
	if err := r.listNewest(videosTable, limit, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateVideoStatus writes status only while the row is non-terminal (or
// already in that status), and videoURL only while the row is unarchived.
func (r *RecordsClient) UpdateVideoStatus(ctx context.Context, id, status string, videoURL *string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, _, err := r.client.From(videosTable).
		Update(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}, "minimal", "").
		Eq("id", id).
		Or(fmt.Sprintf("status.not.in.(%s,%s),status.eq.%s", models.StatusCompleted, models.StatusFailed, status), "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}

	if videoURL == nil {
		return nil
	}

	_, _, err = r.client.From(videosTable).
		Update(map[string]interface{}{
			"video_url":  *videoURL,
			"updated_at": now,
		}, "minimal", "").
		Eq("id", id).
		Is("archived_at", "null").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update video url: %w", err)
	}
	return nil
}

// CompleteVideoArchive records the durable copy. It reports false when the
// row was already archived, in which case nothing is written.
func (r *RecordsClient) CompleteVideoArchive(ctx context.Context, id string, archive models.VideoArchive) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	data, _, err := r.client.From(videosTable).
		Update(map[string]interface{}{
			"video_url":    archive.VideoURL,
			"storage_path": archive.StoragePath,
			"openai_url":   archive.OpenAIURL,
			"archived_at":  now,
			"updated_at":   now,
		}, "representation", "").
		Eq("id", id).
		Is("archived_at", "null").
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to record video archive: %w", err)
	}

	var rows []models.VideoJob
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("failed to parse video archive update: %w", err)
	}
	return len(rows) > 0, nil
}

// isInvalidID reports a Postgres invalid_text_representation (22P02), which
// PostgREST returns when an id is not a valid uuid.
func isInvalidID(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "22P02") || strings.Contains(msg, "invalid input syntax for type uuid")
}

func (r *RecordsClient) selectWhere(table, column, value string, out interface{}) error {
	data, _, err := r.client.From(table).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", table, err)
	}
	return nil
}

func (r *RecordsClient) listNewest(table string, limit int, out interface{}) error {
	data, _, err := r.client.From(table).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", table, err)
	}
	return nil
}

// imageRow leaves id and created_at to the database defaults.
func imageRow(job *models.ImageJob) map[string]interface{} {
	return map[string]interface{}{
		"provider":      job.Provider,
		"prompt":        job.Prompt,
		"image1_url":    job.Image1URL,
		"image2_url":    job.Image2URL,
		"image3_url":    job.Image3URL,
		"status":        job.Status,
		"image_url":     job.ImageURL,
		"storage_path":  job.StoragePath,
		"generation_id": job.GenerationID,
	}
}

func videoRow(job *models.VideoJob) map[string]interface{} {
	return map[string]interface{}{
		"prompt":     job.Prompt,
		"image1_url": job.Image1URL,
		"image2_url": job.Image2URL,
		"status":     job.Status,
		"video_id":   job.VideoID,
		"video_url":  job.VideoURL,
	}
}
