package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rs/zerolog"
	"hug-studio-backend/internal/apperr"
	"hug-studio-backend/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var shareTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const (
	shareTitle       = "AI-Generated Hug Image 💜"
	shareDescription = "Check out this beautiful AI-generated hug image created with Gemini Nano Banana!"
)

type sharePage struct {
	Title       string
	Description string
	ImageURL    string
	PageURL     string
	HomeURL     string
	CreatedOn   string
}

type errorPage struct {
	Title   string
	Message string
	HomeURL string
}

type ShareHandler struct {
	gallery Gallery
	baseURL string
}

func NewShareHandler(gallery Gallery, baseURL string) *ShareHandler {
	return &ShareHandler{gallery: gallery, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SharePage godoc
// @Summary     Share page for a generated image
// @Description HTML page with OpenGraph and Twitter card metadata for social previews.
// @Tags        share
// @Produce     html
// @Param       id path string true "Image record id"
// @Success     200 {string} string "HTML page"
// @Failure     404 {string} string "HTML page"
// @Router      /share/{id} [get]
func (h *ShareHandler) SharePage(c *gin.Context) {
	id := c.Param("id")

	image, err := h.gallery.GetImage(c.Request.Context(), id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			h.render(c, http.StatusNotFound, "not_found.html", errorPage{
				Title:   "Image Not Found",
				Message: "This hug image does not exist or has been removed.",
				HomeURL: h.homeURL(),
			})
			return
		}

		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("record_id", id).Msg("failed to load share page")
		h.render(c, http.StatusInternalServerError, "not_found.html", errorPage{
			Title:   "Something went wrong",
			Message: "We could not load this hug image. Please try again later.",
			HomeURL: h.homeURL(),
		})
		return
	}

	page := sharePage{
		Title:       shareTitle,
		Description: shareDescription,
		ImageURL:    models.Deref(image.ImageURL),
		PageURL:     h.baseURL + "/share/" + image.ID,
		HomeURL:     h.homeURL(),
	}
	if !image.CreatedAt.IsZero() {
		page.CreatedOn = image.CreatedAt.Format("January 2, 2006")
	}

	h.render(c, http.StatusOK, "share.html", page)
}

func (h *ShareHandler) homeURL() string {
	if h.baseURL == "" {
		return "/"
	}
	return h.baseURL + "/"
}

func (h *ShareHandler) render(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: shareTemplates, Name: name, Data: data})
}
