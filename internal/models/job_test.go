package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"hug-studio-backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, models.CanTransition(models.StatusQueued, models.StatusInProgress))
	assert.True(t, models.CanTransition(models.StatusProcessing, models.StatusCompleted))
	assert.True(t, models.CanTransition(models.StatusInProgress, models.StatusFailed))
	assert.True(t, models.CanTransition(models.StatusCompleted, models.StatusCompleted))

	assert.False(t, models.CanTransition(models.StatusCompleted, models.StatusProcessing))
	assert.False(t, models.CanTransition(models.StatusFailed, models.StatusQueued))
	assert.False(t, models.CanTransition(models.StatusCompleted, models.StatusFailed))
}

func TestVideoJob_IsArchived(t *testing.T) {
	job := &models.VideoJob{}
	assert.False(t, job.IsArchived())

	job.VideoURL = models.StringPtr("https://api.openai.com/v1/videos/v1/content")
	assert.False(t, job.IsArchived())

	job.StoragePath = models.StringPtr("video_123_hug-video.mp4")
	assert.True(t, job.IsArchived())
}
