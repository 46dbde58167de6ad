package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"hug-studio-backend/internal/models"
)

type VideoOrchestrator interface {
	CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.CreateVideoResponse, error)
	CheckVideo(ctx context.Context, req models.CheckVideoRequest) (*models.CheckVideoResponse, error)
	ArchiveVideo(ctx context.Context, req models.ArchiveVideoRequest) (*models.ArchiveVideoResponse, error)
}

type VideosHandler struct {
	videos  VideoOrchestrator
	gallery Gallery
}

func NewVideosHandler(videos VideoOrchestrator, gallery Gallery) *VideosHandler {
	return &VideosHandler{videos: videos, gallery: gallery}
}

// CreateVideo godoc
// @Summary     Start a hug video
// @Description Submits a video job to Sora and records it. Poll check-video for the result.
// @Tags        videos
// @Accept      json
// @Produce     json
// @Param       request body models.CreateVideoRequest true "Two upload handles and optional prompt"
// @Success     200 {object} models.CreateVideoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/create-video [post]
func (h *VideosHandler) CreateVideo(c *gin.Context) {
	var req models.CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.videos.CreateVideo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckVideo godoc
// @Summary     Poll a video job
// @Description Reports provider status and progress. Once completed, the video is copied into storage
// @Description and the durable signed URL is returned; later polls re-sign the stored copy.
// @Tags        videos
// @Accept      json
// @Produce     json
// @Param       request body models.CheckVideoRequest true "Provider video id and optional record id"
// @Success     200 {object} models.CheckVideoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/check-video [post]
func (h *VideosHandler) CheckVideo(c *gin.Context) {
	var req models.CheckVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.videos.CheckVideo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadAndStore godoc
// @Summary     Archive a finished video
// @Description Downloads the video at videoUrl and stores it in the videos bucket.
// @Tags        videos
// @Accept      json
// @Produce     json
// @Param       request body models.ArchiveVideoRequest true "Provider URL plus optional video and record ids"
// @Success     200 {object} models.ArchiveVideoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/download-and-store-video [post]
func (h *VideosHandler) DownloadAndStore(c *gin.Context) {
	var req models.ArchiveVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.videos.ArchiveVideo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListVideos godoc
// @Summary     List video jobs
// @Tags        gallery
// @Produce     json
// @Success     200 {object} models.VideosResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/list-videos [get]
func (h *VideosHandler) ListVideos(c *gin.Context) {
	videos, err := h.gallery.ListVideos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VideosResponse{Success: true, Videos: videos})
}
