package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"hug-studio-backend/internal/models"
)

type ImageCreator interface {
	CreateImage(ctx context.Context, req models.CreateImageRequest) (*models.CreateImageResponse, error)
}

type Gallery interface {
	ListImages(ctx context.Context) ([]models.ImageJob, error)
	ListVideos(ctx context.Context) ([]models.VideoJob, error)
	GetImage(ctx context.Context, id string) (*models.ImageJob, error)
}

type ImagesHandler struct {
	creator ImageCreator
	gallery Gallery
}

func NewImagesHandler(creator ImageCreator, gallery Gallery) *ImagesHandler {
	return &ImagesHandler{creator: creator, gallery: gallery}
}

// CreateImage godoc
// @Summary     Generate a hug image
// @Description Combines one to three uploaded photos into a single generated image with Gemini.
// @Description The result is stored, recorded in the images table and returned as a signed URL.
// @Tags        images
// @Accept      json
// @Produce     json
// @Param       request body models.CreateImageRequest true "Upload handles and optional prompt"
// @Success     200 {object} models.CreateImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/create-image [post]
func (h *ImagesHandler) CreateImage(c *gin.Context) {
	var req models.CreateImageRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.creator.CreateImage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListImages godoc
// @Summary     List generated images
// @Description Newest images first, with freshly signed URLs.
// @Tags        gallery
// @Produce     json
// @Success     200 {object} models.ImagesResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/list-images [get]
func (h *ImagesHandler) ListImages(c *gin.Context) {
	images, err := h.gallery.ListImages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ImagesResponse{Success: true, Images: images})
}
