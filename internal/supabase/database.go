package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
)

const (
	imageColumns = `id, provider, prompt, image1_url, image2_url, image3_url, status, image_url, storage_path, generation_id, created_at`
	videoColumns = `id, prompt, image1_url, image2_url, status, video_id, video_url, openai_url, storage_path, archived_at, created_at, updated_at`
)

// DatabaseClient stores jobs directly in the Supabase Postgres database. It is
// used instead of RecordsClient when DATABASE_URL is configured.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row rowScanner) (*models.ImageJob, error) {
	var job models.ImageJob
	var generationID sql.NullString
	err := row.Scan(
		&job.ID, &job.Provider, &job.Prompt,
		&job.Image1URL, &job.Image2URL, &job.Image3URL,
		&job.Status, &job.ImageURL, &job.StoragePath, &generationID, &job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.GenerationID = generationID.String
	return &job, nil
}

func scanVideo(row rowScanner) (*models.VideoJob, error) {
	var job models.VideoJob
	var archivedAt sql.NullTime
	err := row.Scan(
		&job.ID, &job.Prompt, &job.Image1URL, &job.Image2URL, &job.Status,
		&job.VideoID, &job.VideoURL, &job.OpenAIURL, &job.StoragePath,
		&archivedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if archivedAt.Valid {
		job.ArchivedAt = &archivedAt.Time
	}
	return &job, nil
}

func (d *DatabaseClient) InsertImageJob(ctx context.Context, job *models.ImageJob) (*models.ImageJob, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO images (provider, prompt, image1_url, image2_url, image3_url, status, image_url, storage_path, generation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+imageColumns,
		job.Provider, job.Prompt, job.Image1URL, job.Image2URL, job.Image3URL,
		job.Status, job.ImageURL, job.StoragePath, job.GenerationID,
	)
	created, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetImageJob(ctx context.Context, id string) (*models.ImageJob, error) {
	job, err := scanImage(d.db.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM images WHERE id::text = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("image %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return job, nil
}

func (d *DatabaseClient) ListImageJobs(ctx context.Context, limit int) ([]models.ImageJob, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+imageColumns+`
		FROM images
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []models.ImageJob{}
	for rows.Next() {
		job, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *job)
	}
	return images, rows.Err()
}

func (d *DatabaseClient) InsertVideoJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO videos (prompt, image1_url, image2_url, status, video_id, video_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+videoColumns,
		job.Prompt, job.Image1URL, job.Image2URL, job.Status, job.VideoID, job.VideoURL,
	)
	created, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetVideoJob(ctx context.Context, id string) (*models.VideoJob, error) {
	job, err := scanVideo(d.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id::text = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("video %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return job, nil
}

func (d *DatabaseClient) GetVideoJobByVideoID(ctx context.Context, videoID string) (*models.VideoJob, error) {
	job, err := scanVideo(d.db.QueryRowContext(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE video_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, videoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("video with provider id %s not found", videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return job, nil
}

func (d *DatabaseClient) ListVideoJobs(ctx context.Context, limit int) ([]models.VideoJob, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.VideoJob{}
	for rows.Next() {
		job, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *job)
	}
	return videos, rows.Err()
}

func (d *DatabaseClient) UpdateVideoStatus(ctx context.Context, id, status string, videoURL *string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE videos
		SET status = $2,
		    video_url = CASE WHEN archived_at IS NULL AND $3::text IS NOT NULL THEN $3 ELSE video_url END,
		    updated_at = NOW()
		WHERE id::text = $1
		  AND (status NOT IN ('completed', 'failed') OR status = $2)
	`, id, status, videoURL)
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CompleteVideoArchive(ctx context.Context, id string, archive models.VideoArchive) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE videos
		SET video_url = $2, storage_path = $3, openai_url = $4, archived_at = NOW(), updated_at = NOW()
		WHERE id::text = $1 AND archived_at IS NULL
	`, id, archive.VideoURL, archive.StoragePath, archive.OpenAIURL)
	if err != nil {
		return false, fmt.Errorf("failed to record video archive: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read archive result: %w", err)
	}
	return n > 0, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
