package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/givestream/donation-platform/internal/dto"
	apierrors "github.com/givestream/donation-platform/internal/errors"
	"github.com/givestream/donation-platform/internal/middleware"
	"github.com/givestream/donation-platform/internal/services"
	"github.com/givestream/donation-platform/internal/utils"
)

// CampaignHandler coordinates campaign-related HTTP handlers.
type CampaignHandler struct {
	campaignService *services.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// CreateCampaign creates a campaign for the acting organisation.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCampaignRequest struct {
		Title       string     `json:"title" binding:"required,min=1,max=255"`
		Description string     `json:"description"`
		GoalAmount  float64    `json:"goal_amount" binding:"required"`
		Category    string     `json:"category"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	campaign, err := h.campaignService.CreateCampaign(user, services.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Category:    req.Category,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCampaignDTO(*campaign))
}

// ListCampaigns returns active campaigns, optionally filtered by category.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := c.Query("category")

	campaigns, total, err := h.campaignService.ListActive(category, params.Page, params.Limit)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCampaignListResponse(campaigns, params.Page, params.Limit, total))
}

// GetCampaign returns one campaign with its organisation.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid campaign ID")
		return
	}

	campaign, err := h.campaignService.GetCampaign(id)
	if err != nil {
		respondCampaignError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCampaignDTO(*campaign))
}

func respondCampaignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCampaignTitleRequired),
		errors.Is(err, services.ErrInvalidGoalAmount):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOrganisationNotVerified),
		errors.Is(err, services.ErrOrganisationRoleRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrOrganisationProfileMissing):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
