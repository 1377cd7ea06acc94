package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/givestream/donation-platform/internal/dto"
	apierrors "github.com/givestream/donation-platform/internal/errors"
	"github.com/givestream/donation-platform/internal/middleware"
	"github.com/givestream/donation-platform/internal/services"
	"github.com/givestream/donation-platform/internal/utils"
)

// OrganisationHandler coordinates organisation-related HTTP handlers.
type OrganisationHandler struct {
	orgService      *services.OrganisationService
	campaignService *services.CampaignService
}

// NewOrganisationHandler creates a new OrganisationHandler.
func NewOrganisationHandler(orgService *services.OrganisationService, campaignService *services.CampaignService) *OrganisationHandler {
	return &OrganisationHandler{
		orgService:      orgService,
		campaignService: campaignService,
	}
}

// CreateOrganisation creates the acting user's organisation profile.
func (h *OrganisationHandler) CreateOrganisation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOrganisationRequest struct {
		Name               string `json:"name" binding:"required,min=1,max=255"`
		Description        string `json:"description"`
		Mission            string `json:"mission"`
		Website            string `json:"website"`
		Phone              string `json:"phone"`
		Address            string `json:"address"`
		RegistrationNumber string `json:"registration_number"`
	}

	var req CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganisation(user, services.CreateOrganisationInput{
		Name:               req.Name,
		Description:        req.Description,
		Mission:            req.Mission,
		Website:            req.Website,
		Phone:              req.Phone,
		Address:            req.Address,
		RegistrationNumber: req.RegistrationNumber,
	})
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganisationDTO(*org))
}

// ListOrganisations returns verified organisations for public browsing.
func (h *OrganisationHandler) ListOrganisations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orgs, total, err := h.orgService.ListVerified(params.Page, params.Limit)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationListResponse(orgs, params.Page, params.Limit, total))
}

// GetOrganisation returns one organisation with its campaigns.
func (h *OrganisationHandler) GetOrganisation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organisation ID")
		return
	}

	org, err := h.orgService.GetOrganisation(id)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	campaigns, err := h.campaignService.ListByOrganisation(org.ID)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}
	campaignDTOs := make([]dto.CampaignDTO, len(campaigns))
	for i, campaign := range campaigns {
		campaignDTOs[i] = dto.ToCampaignDTO(campaign)
	}

	c.JSON(http.StatusOK, gin.H{
		"organisation": dto.ToOrganisationDTO(*org),
		"campaigns":    campaignDTOs,
	})
}

// GetOwnOrganisation returns the acting user's organisation profile.
func (h *OrganisationHandler) GetOwnOrganisation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	org, err := h.orgService.GetOwnOrganisation(user)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationDTO(*org))
}

// Dashboard returns the acting organisation's dashboard.
func (h *OrganisationHandler) Dashboard(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	dashboard, err := h.orgService.Dashboard(user)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationDashboardDTO(dashboard))
}

// ListOwnDonations returns donations received by the acting organisation.
func (h *OrganisationHandler) ListOwnDonations(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	donations, total, err := h.orgService.ListOrganisationDonations(user, params.Page, params.Limit)
	if err != nil {
		respondOrganisationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationListResponse(donations, params.Page, params.Limit, total))
}

func respondOrganisationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganisationNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidVerificationAction):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOrganisationExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrOrganisationRoleRequired),
		errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganisationNotFound),
		errors.Is(err, services.ErrOrganisationProfileMissing):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
