package models

import "time"

// Job statuses. Video jobs mirror the provider's own status strings, so any
// other value is treated as non-terminal.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminal reports whether no further status transition may occur.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// CanTransition reports whether a row in status from may be moved to status to.
func CanTransition(from, to string) bool {
	return !IsTerminal(from) || from == to
}

// ImageJob is a row of the images table.
type ImageJob struct {
	ID           string    `json:"id,omitempty"`
	Provider     string    `json:"provider"`
	Prompt       string    `json:"prompt"`
	Image1URL    *string   `json:"image1_url"`
	Image2URL    *string   `json:"image2_url"`
	Image3URL    *string   `json:"image3_url"`
	Status       string    `json:"status"`
	ImageURL     *string   `json:"image_url"`
	StoragePath  *string   `json:"storage_path"`
	GenerationID string    `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// VideoJob is a row of the videos table. VideoURL may briefly hold the
// provider URL before the asset is archived; OpenAIURL keeps it afterwards.
type VideoJob struct {
	ID          string     `json:"id,omitempty"`
	Prompt      string     `json:"prompt"`
	Image1URL   string     `json:"image1_url"`
	Image2URL   string     `json:"image2_url"`
	Status      string     `json:"status"`
	VideoID     *string    `json:"video_id"`
	VideoURL    *string    `json:"video_url"`
	OpenAIURL   *string    `json:"openai_url"`
	StoragePath *string    `json:"storage_path"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// IsArchived reports whether the video already lives in our own storage.
func (v *VideoJob) IsArchived() bool {
	return v.StoragePath != nil && *v.StoragePath != ""
}

// VideoArchive is the durable-store outcome written once per video job.
type VideoArchive struct {
	VideoURL    string
	StoragePath string
	OpenAIURL   string
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
