package services

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Object names are flat (no folders) so that the last path segment of any
// signed URL is the name itself.

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func uploadObjectName(slot, ext string, now time.Time) string {
	return fmt.Sprintf("upload_%s_%d_%s%s", slot, now.UnixMilli(), shortID(), ext)
}

func imageObjectName(now time.Time) string {
	return fmt.Sprintf("gemini_%d_%s_hug-image.png", now.UnixMilli(), shortID())
}

// videoObjectName is deterministic per provider job, so a repeated archive
// overwrites rather than duplicates.
func videoObjectName(videoID string, now time.Time) string {
	if videoID == "" {
		return fmt.Sprintf("%d_hug-video.mp4", now.UnixMilli())
	}
	return strings.NewReplacer("/", "_", "?", "_", "#", "_").Replace(videoID) + "_hug-video.mp4"
}

// imageMIMEType sniffs the content first and falls back to the extension.
func imageMIMEType(name string, data []byte) string {
	if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
		return detected.String()
	}

	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// uploadExtension prefers the client's file extension, then the sniffed one.
func uploadExtension(filename string, data []byte) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".heic", ".heif":
		return ext
	}
	if sniffed := mimetype.Detect(data).Extension(); sniffed != "" {
		return sniffed
	}
	return ".jpg"
}
