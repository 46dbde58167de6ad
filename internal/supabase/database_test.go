package supabase_test

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/database"
	"hug-studio-backend/internal/logging"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/supabase"
)

func newTestDatabase(t *testing.T) *supabase.DatabaseClient {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	m, err := database.NewMigrator(dbURL, logging.Nop())
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Run(t.Context()))

	db, err := supabase.NewDatabaseClient(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabaseClient_VideoGuards(t *testing.T) {
	db := newTestDatabase(t)
	ctx := t.Context()

	created, err := db.InsertVideoJob(ctx, &models.VideoJob{
		Prompt:    "hug",
		Image1URL: "upload_image1_1_a.jpg",
		Image2URL: "upload_image2_2_b.jpg",
		Status:    models.StatusInProgress,
		VideoID:   models.StringPtr("video_" + uuid.NewString()),
	})
	require.NoError(t, err)

	providerURL := "https://cdn.openai.test/v.mp4"
	require.NoError(t, db.UpdateVideoStatus(ctx, created.ID, models.StatusCompleted, &providerURL))

	// Terminal rows keep their status.
	require.NoError(t, db.UpdateVideoStatus(ctx, created.ID, models.StatusInProgress, nil))
	job, err := db.GetVideoJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, job.Status)
	assert.Equal(t, providerURL, models.Deref(job.VideoURL))

	archive := models.VideoArchive{
		VideoURL:    "https://x.supabase.co/storage/v1/object/sign/hug-videos/v_hug-video.mp4?token=a",
		StoragePath: "v_hug-video.mp4",
		OpenAIURL:   providerURL,
	}
	applied, err := db.CompleteVideoArchive(ctx, created.ID, archive)
	require.NoError(t, err)
	assert.True(t, applied)

	second := archive
	second.StoragePath = "other_hug-video.mp4"
	applied, err = db.CompleteVideoArchive(ctx, created.ID, second)
	require.NoError(t, err)
	assert.False(t, applied, "an archived row is written once")

	// Archived rows keep their stored url.
	laterURL := "https://cdn.openai.test/v2.mp4"
	require.NoError(t, db.UpdateVideoStatus(ctx, created.ID, models.StatusCompleted, &laterURL))
	job, err = db.GetVideoJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, archive.VideoURL, models.Deref(job.VideoURL))
	assert.Equal(t, archive.StoragePath, models.Deref(job.StoragePath))
	assert.True(t, job.IsArchived())
}

func TestDatabaseClient_GetVideoJob_Missing(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.GetVideoJob(t.Context(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = db.GetVideoJob(t.Context(), "not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
