package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/services"
)

type Uploader interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.UploadResponse, error)
}

type UploadHandler struct {
	uploader      Uploader
	maxUploadSize int64
}

func NewUploadHandler(uploader Uploader, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxUploadSize: maxUploadSize}
}

// uploadFields are tried in order.
var uploadFields = []string{"file", "image"}

// Upload godoc
// @Summary     Upload a reference photo
// @Description Stores one photo in the private images bucket and returns a signed URL.
// @Description The last path segment of the URL is the handle passed to create-image and create-video.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file   true  "Photo (field name file or image)"
// @Param       slot formData string false "image1, image2 or image3 (default image1)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		if c.Request.ContentLength > h.maxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "File too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   "File too large",
				Message: err.Error(),
			})
			return
		}
		respondError(c, apperr.Validation("No file provided"))
		return
	}

	var header *multipart.FileHeader
	for _, field := range uploadFields {
		if files := c.Request.MultipartForm.File[field]; len(files) > 0 {
			header = files[0]
			break
		}
	}
	if header == nil {
		respondError(c, apperr.Validation("No file provided"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, apperr.Validation("Failed to read uploaded file: %v", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperr.Validation("Failed to read uploaded file: %v", err))
		return
	}

	resp, err := h.uploader.Upload(c.Request.Context(), services.UploadInput{
		Slot:        c.Request.FormValue("slot"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
