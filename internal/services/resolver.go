package services

import (
	"strings"

	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/sora"
)

// urlExtractor finds the result URL in one known response shape, or returns
// "" when the shape is absent.
type urlExtractor struct {
	name    string
	extract func(r *ResultResolver, video *sora.Video, videoID string) string
}

// ResultResolver locates the finished asset in a provider job object. The
// provider has moved the URL between API revisions, so several shapes are
// tried in order and the first hit wins.
type ResultResolver struct {
	baseURL         string
	contentFallback bool
	extractors      []urlExtractor
}

func NewResultResolver(baseURL string, contentFallback bool) *ResultResolver {
	return &ResultResolver{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		contentFallback: contentFallback,
		extractors: []urlExtractor{
			{"data[0].url", extractDataURL},
			{"url", stringField("url")},
			{"output_url", stringField("output_url")},
			{"download_url", stringField("download_url")},
			{"file", fileField("file")},
			{"file_id", fileField("file_id")},
			{"files", extractFilesEntry},
			{"content_endpoint", extractContentEndpoint},
		},
	}
}

// Resolve returns the result URL and the name of the shape it came from.
// Both are empty when nothing matched.
func (r *ResultResolver) Resolve(video *sora.Video, videoID string) (string, string) {
	if video == nil {
		return "", ""
	}
	for _, e := range r.extractors {
		if u := e.extract(r, video, videoID); u != "" {
			return u, e.name
		}
	}
	return "", ""
}

func (r *ResultResolver) fileContentURL(fileID string) string {
	return r.baseURL + "/files/" + fileID + "/content"
}

func extractDataURL(_ *ResultResolver, video *sora.Video, _ string) string {
	data, ok := video.Raw["data"].([]any)
	if !ok || len(data) == 0 {
		return ""
	}
	first, ok := data[0].(map[string]any)
	if !ok {
		return ""
	}
	u, _ := first["url"].(string)
	return u
}

func stringField(key string) func(*ResultResolver, *sora.Video, string) string {
	return func(_ *ResultResolver, video *sora.Video, _ string) string {
		u, _ := video.Raw[key].(string)
		return u
	}
}

func fileField(key string) func(*ResultResolver, *sora.Video, string) string {
	return func(r *ResultResolver, video *sora.Video, _ string) string {
		if id, _ := video.Raw[key].(string); id != "" {
			return r.fileContentURL(id)
		}
		return ""
	}
}

func extractFilesEntry(r *ResultResolver, video *sora.Video, _ string) string {
	files, ok := video.Raw["files"].([]any)
	if !ok {
		return ""
	}
	for _, f := range files {
		file, ok := f.(map[string]any)
		if !ok {
			continue
		}
		purpose, _ := file["purpose"].(string)
		filename, _ := file["filename"].(string)
		id, _ := file["id"].(string)
		if id != "" && (purpose == "video" || strings.HasSuffix(filename, ".mp4")) {
			return r.fileContentURL(id)
		}
	}
	return ""
}

func extractContentEndpoint(r *ResultResolver, video *sora.Video, videoID string) string {
	if !r.contentFallback || video.Status != models.StatusCompleted {
		return ""
	}
	id := video.ID
	if id == "" {
		id = videoID
	}
	if id == "" {
		return ""
	}
	return r.baseURL + "/videos/" + id + "/content"
}
