package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/givestream/donation-platform/internal/dto"
	apierrors "github.com/givestream/donation-platform/internal/errors"
	"github.com/givestream/donation-platform/internal/middleware"
	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/services"
	"github.com/givestream/donation-platform/internal/utils"
)

// DonationHandler coordinates donation-related HTTP handlers.
type DonationHandler struct {
	donationService *services.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// CreateDonation records a pending donation for the acting donor.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateDonationRequest struct {
		Amount         float64 `json:"amount" binding:"required"`
		CampaignID     *uint64 `json:"campaign_id"`
		OrganisationID uint64  `json:"organisation_id"`
		IsAnonymous    bool    `json:"is_anonymous"`
		Message        string  `json:"message"`
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	donation, err := h.donationService.CreateDonation(user, services.CreateDonationInput{
		Amount:         req.Amount,
		CampaignID:     req.CampaignID,
		OrganisationID: req.OrganisationID,
		IsAnonymous:    req.IsAnonymous,
		Message:        req.Message,
	})
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDonationDTO(*donation))
}

// ListDonations returns the acting donor's donations.
func (h *DonationHandler) ListDonations(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	donations, total, err := h.donationService.ListDonations(user, params.Page, params.Limit)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationListResponse(donations, params.Page, params.Limit, total))
}

// GetDonation returns one of the acting donor's donations.
func (h *DonationHandler) GetDonation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid donation ID")
		return
	}

	donation, err := h.donationService.GetDonation(user, id)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationDTO(*donation))
}

// UpdatePaymentStatus transitions a donation's payment status. Confirming an
// already-completed donation succeeds without reapplying the amount.
func (h *DonationHandler) UpdatePaymentStatus(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid donation ID")
		return
	}

	type UpdateStatusRequest struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	donation, err := h.donationService.TransitionPayment(user, id, models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationDTO(*donation))
}

// Dashboard returns the acting donor's dashboard.
func (h *DonationHandler) Dashboard(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	dashboard, err := h.donationService.Dashboard(user)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonorDashboardDTO(dashboard))
}

func respondDonationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrDonationTargetNeeded),
		errors.Is(err, services.ErrInvalidPaymentStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDonorRoleRequired):
		apierrors.Forbidden(c, err.Error())
	// Ownership mismatches surface as not-found so donation IDs stay
	// unprobeable.
	case errors.Is(err, services.ErrDonationNotFound),
		errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrOrganisationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrAggregateWrite),
		errors.Is(err, repository.ErrStatusWrite),
		errors.Is(err, repository.ErrCampaignAggregate),
		errors.Is(err, repository.ErrOrganisationAggregate):
		apierrors.PersistenceFailure(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
