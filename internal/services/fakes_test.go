package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/gemini"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/sora"
)

func testConfig() *config.Config {
	return &config.Config{
		ImagesBucket:        "hug-images",
		VideosBucket:        "hug-videos",
		SignedURLTTL:        7 * 24 * time.Hour,
		GalleryLimit:        50,
		SoraBaseURL:         "https://api.openai.test/v1",
		SoraContentFallback: true,
	}
}

const storeHost = "https://project.supabase.test"

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	uploads   int
	downloads int
	signed    int
	failSign  bool
	failNames map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:   map[string][]byte{},
		types:     map[string]string{},
		failNames: map[string]bool{},
	}
}

func (f *fakeStore) put(bucket, name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+name] = data
}

func (f *fakeStore) Upload(bucket, name string, data []byte, contentType string, upsert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := bucket + "/" + name
	if _, exists := f.objects[key]; exists && !upsert {
		return fmt.Errorf("object %s already exists", key)
	}
	f.objects[key] = data
	f.types[key] = contentType
	f.uploads++
	return nil
}

func (f *fakeStore) Download(bucket, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	data, ok := f.objects[bucket+"/"+name]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, name)
	}
	return data, nil
}

func (f *fakeStore) SignedURL(bucket, name string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSign || f.failNames[name] {
		return "", errors.New("sign failed")
	}
	f.signed++
	return fmt.Sprintf("%s/storage/v1/object/sign/%s/%s?token=t%d", storeHost, bucket, name, f.signed), nil
}

func (f *fakeStore) Exists(bucket, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[bucket+"/"+name]
	return ok, nil
}

func (f *fakeStore) counts() (uploads, downloads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads, f.downloads
}

// fakeJobs mirrors the guarded writes of the real stores.
type fakeJobs struct {
	mu        sync.Mutex
	images    map[string]*models.ImageJob
	videos    map[string]*models.VideoJob
	order     []string
	failWrite bool
	failRead  bool
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{images: map[string]*models.ImageJob{}, videos: map[string]*models.VideoJob{}}
}

func (f *fakeJobs) InsertImageJob(ctx context.Context, job *models.ImageJob) (*models.ImageJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return nil, errors.New("insert failed")
	}
	row := *job
	row.ID = uuid.NewString()
	row.CreatedAt = time.Now()
	f.images[row.ID] = &row
	f.order = append(f.order, row.ID)
	out := row
	return &out, nil
}

func (f *fakeJobs) GetImageJob(ctx context.Context, id string) (*models.ImageJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, errors.New("read failed")
	}
	row, ok := f.images[id]
	if !ok {
		return nil, apperr.NotFound("image %s not found", id)
	}
	out := *row
	return &out, nil
}

func (f *fakeJobs) ListImageJobs(ctx context.Context, limit int) ([]models.ImageJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, errors.New("read failed")
	}
	var out []models.ImageJob
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		if row, ok := f.images[f.order[i]]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeJobs) InsertVideoJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return nil, errors.New("insert failed")
	}
	row := *job
	row.ID = uuid.NewString()
	row.CreatedAt = time.Now()
	f.videos[row.ID] = &row
	f.order = append(f.order, row.ID)
	out := row
	return &out, nil
}

func (f *fakeJobs) GetVideoJob(ctx context.Context, id string) (*models.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.videos[id]
	if !ok {
		return nil, apperr.NotFound("video %s not found", id)
	}
	out := *row
	return &out, nil
}

func (f *fakeJobs) GetVideoJobByVideoID(ctx context.Context, videoID string) (*models.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.videos {
		if models.Deref(row.VideoID) == videoID {
			out := *row
			return &out, nil
		}
	}
	return nil, apperr.NotFound("video with provider id %s not found", videoID)
}

func (f *fakeJobs) ListVideoJobs(ctx context.Context, limit int) ([]models.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, errors.New("read failed")
	}
	var out []models.VideoJob
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		if row, ok := f.videos[f.order[i]]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeJobs) UpdateVideoStatus(ctx context.Context, id, status string, videoURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errors.New("update failed")
	}
	row, ok := f.videos[id]
	if !ok || !models.CanTransition(row.Status, status) {
		return nil
	}
	row.Status = status
	if videoURL != nil && row.ArchivedAt == nil {
		u := *videoURL
		row.VideoURL = &u
	}
	return nil
}

func (f *fakeJobs) CompleteVideoArchive(ctx context.Context, id string, archive models.VideoArchive) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return false, errors.New("update failed")
	}
	row, ok := f.videos[id]
	if !ok || row.ArchivedAt != nil {
		return false, nil
	}
	now := time.Now()
	row.VideoURL = &archive.VideoURL
	row.StoragePath = &archive.StoragePath
	row.OpenAIURL = &archive.OpenAIURL
	row.ArchivedAt = &now
	return true, nil
}

func (f *fakeJobs) video(id string) models.VideoJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.videos[id]
}

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	prompt string
	inputs []gemini.InputImage
	result *gemini.Image
	err    error
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string, images []gemini.InputImage) (*gemini.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	f.inputs = images
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &gemini.Image{MIMEType: "image/png", Data: []byte("generated-png")}, nil
}

type fakeProvider struct {
	mu          sync.Mutex
	created     []string
	createVideo *sora.Video
	createErr   error
	videos      map[string]*sora.Video
	assets      map[string][]byte
	downloads   int
	downloadErr error
	// downloadGate, when set, blocks downloads until closed.
	downloadGate chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{videos: map[string]*sora.Video{}, assets: map[string][]byte{}}
}

func (f *fakeProvider) BaseURL() string {
	return "https://api.openai.test/v1"
}

func (f *fakeProvider) CreateVideo(ctx context.Context, prompt string) (*sora.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, prompt)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createVideo != nil {
		return f.createVideo, nil
	}
	return &sora.Video{ID: "video_123", Status: "queued", Raw: map[string]any{"id": "video_123", "status": "queued"}}, nil
}

func (f *fakeProvider) GetVideo(ctx context.Context, id string) (*sora.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, apperr.Provider(404, "Video not found")
	}
	return v, nil
}

func (f *fakeProvider) Download(ctx context.Context, assetURL string) ([]byte, error) {
	if f.downloadGate != nil {
		<-f.downloadGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.assets[assetURL]
	if !ok {
		return nil, apperr.Download(404, "Failed to download video from OpenAI: 404 not found")
	}
	return data, nil
}

func (f *fakeProvider) downloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

func completedVideo(id string, raw map[string]any) *sora.Video {
	if raw == nil {
		raw = map[string]any{}
	}
	raw["id"] = id
	raw["status"] = "completed"
	progress := 100.0
	return &sora.Video{ID: id, Status: "completed", Progress: &progress, Raw: raw}
}
