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

// AdminHandler coordinates the admin HTTP handlers.
type AdminHandler struct {
	adminService *services.AdminService
	orgService   *services.OrganisationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, orgService *services.OrganisationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		orgService:   orgService,
	}
}

// GetPlatformStats returns the platform overview.
func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.adminService.GetPlatformStats(user)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlatformStatsDTO(stats))
}

// ListUsers returns all users, paginated.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.adminService.ListUsers(user, params.Page, params.Limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params.Page, params.Limit, total))
}

// ListOrganisations returns organisations filtered by verification status.
func (h *AdminHandler) ListOrganisations(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	status := c.DefaultQuery("status", "all")

	orgs, total, err := h.adminService.ListOrganisations(user, status, params.Page, params.Limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationListResponse(orgs, params.Page, params.Limit, total))
}

// VerifyOrganisation applies an admin verification decision.
func (h *AdminHandler) VerifyOrganisation(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organisation ID")
		return
	}

	type VerifyRequest struct {
		Action string `json:"action" binding:"required"`
		Notes  string `json:"notes"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.orgService.VerifyOrganisation(user, id, req.Action, req.Notes); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification decision applied",
		"action":  req.Action,
	})
}

// GetFinancialReport returns donation volume over time and top fundraisers.
func (h *AdminHandler) GetFinancialReport(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	report, err := h.adminService.GetFinancialReport(user)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialReportDTO(report))
}

// ReconcileAggregates recomputes and repairs drifted aggregates.
func (h *AdminHandler) ReconcileAggregates(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	repairs, err := h.adminService.ReconcileAggregates(user)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(repairs))
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidStatusFilter),
		errors.Is(err, services.ErrInvalidVerificationAction):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganisationNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
