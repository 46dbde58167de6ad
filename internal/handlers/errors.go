package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
)

// respondError writes err as an ErrorResponse. The kind decides the status;
// the detail of a wrapped cause goes in message.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	resp := models.ErrorResponse{Error: "Internal server error", Message: err.Error()}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Message = ""
		if appErr.Err != nil {
			resp.Message = appErr.Err.Error()
		}
		if resp.Error == "" {
			resp.Error = appErr.Error()
		}
	}

	l := zerolog.Ctx(c.Request.Context())
	event := l.Warn()
	if status >= 500 {
		event = l.Error()
	}
	event.Err(err).Str("kind", string(apperr.KindOf(err))).Int("status", status).Msg(resp.Error)

	c.JSON(status, resp)
}

// bindJSON reports a malformed body as a validation error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("Invalid request body: %v", err))
		return false
	}
	return true
}
