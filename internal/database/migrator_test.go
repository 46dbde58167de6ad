package database_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hug-studio-backend/internal/database"
	"hug-studio-backend/internal/logging"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := database.MigrationNames()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_create_images.sql",
		"002_create_videos.sql",
		"003_add_video_archive.sql",
	}, names)
}

func TestMigrator_Run(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	m, err := database.NewMigrator(dbURL, logging.Nop())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Run(t.Context()))
	// Second run is a no-op.
	require.NoError(t, m.Run(t.Context()))
}
