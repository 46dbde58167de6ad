package handlers_test

import (
	"context"

	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/services"
)

type stubUploader struct {
	got  services.UploadInput
	resp *models.UploadResponse
	err  error
}

func (s *stubUploader) Upload(ctx context.Context, in services.UploadInput) (*models.UploadResponse, error) {
	s.got = in
	return s.resp, s.err
}

type stubImages struct {
	got  models.CreateImageRequest
	resp *models.CreateImageResponse
	err  error
}

func (s *stubImages) CreateImage(ctx context.Context, req models.CreateImageRequest) (*models.CreateImageResponse, error) {
	s.got = req
	return s.resp, s.err
}

type stubGallery struct {
	images   []models.ImageJob
	videos   []models.VideoJob
	image    *models.ImageJob
	err      error
	gotImage string
}

func (s *stubGallery) ListImages(ctx context.Context) ([]models.ImageJob, error) {
	return s.images, s.err
}

func (s *stubGallery) ListVideos(ctx context.Context) ([]models.VideoJob, error) {
	return s.videos, s.err
}

func (s *stubGallery) GetImage(ctx context.Context, id string) (*models.ImageJob, error) {
	s.gotImage = id
	return s.image, s.err
}

type stubVideos struct {
	create     *models.CreateVideoResponse
	check      *models.CheckVideoResponse
	archive    *models.ArchiveVideoResponse
	err        error
	gotCheck   models.CheckVideoRequest
	gotArchive models.ArchiveVideoRequest
}

func (s *stubVideos) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.CreateVideoResponse, error) {
	return s.create, s.err
}

func (s *stubVideos) CheckVideo(ctx context.Context, req models.CheckVideoRequest) (*models.CheckVideoResponse, error) {
	s.gotCheck = req
	return s.check, s.err
}

func (s *stubVideos) ArchiveVideo(ctx context.Context, req models.ArchiveVideoRequest) (*models.ArchiveVideoResponse, error) {
	s.gotArchive = req
	return s.archive, s.err
}
