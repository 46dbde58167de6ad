package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hug-studio-backend/internal/models"
	"hug-studio-backend/internal/services"
)

// GetPricing godoc
// @Summary     List pricing tiers
// @Tags        pricing
// @Produce     json
// @Success     200 {object} models.PricingResponse
// @Router      /api/pricing [get]
func GetPricing(c *gin.Context) {
	c.JSON(http.StatusOK, models.PricingResponse{Success: true, Tiers: services.PricingTiers()})
}

// ConfirmPricing godoc
// @Summary     Select a pricing tier
// @Description Validates the tier. No payment is taken.
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Param       request body models.ConfirmPlanRequest true "Tier id"
// @Success     200 {object} models.ConfirmPlanResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/pricing/confirm [post]
func ConfirmPricing(c *gin.Context) {
	var req models.ConfirmPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := services.ConfirmPlan(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetClientConfig godoc
// @Summary     Client settings
// @Description Poll cadence and image limits for the web client.
// @Tags        config
// @Produce     json
// @Success     200 {object} models.ClientConfigResponse
// @Router      /api/config [get]
func GetClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, models.ClientConfigResponse{
		PollIntervalSeconds: services.PollIntervalSeconds,
		MaxPollAttempts:     services.MaxPollAttempts,
		MaxImages:           services.MaxImages,
	})
}
