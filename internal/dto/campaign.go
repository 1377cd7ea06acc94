package dto

import (
	"time"

	"github.com/givestream/donation-platform/internal/models"
)

// CampaignDTO represents a campaign in API responses
type CampaignDTO struct {
	ID                 uint64           `json:"id"`
	OrganisationID     uint64           `json:"organisation_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	GoalAmount         float64          `json:"goal_amount"`
	RaisedAmount       float64          `json:"raised_amount"`
	ProgressPercentage float64          `json:"progress_percentage"`
	IsActive           bool             `json:"is_active"`
	Category           string           `json:"category"`
	BannerImage        string           `json:"banner_image,omitempty"`
	EndDate            *time.Time       `json:"end_date"`
	CreatedAt          time.Time        `json:"created_at"`
	Organisation       *OrganisationDTO `json:"organisation,omitempty"`
}

// CampaignListResponse represents a paginated list of campaigns
type CampaignListResponse struct {
	Campaigns  []CampaignDTO `json:"campaigns"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

// ToCampaignDTO converts a Campaign model to CampaignDTO
func ToCampaignDTO(campaign models.Campaign) CampaignDTO {
	dto := CampaignDTO{
		ID:                 campaign.ID,
		OrganisationID:     campaign.OrganisationID,
		Title:              campaign.Title,
		Description:        campaign.Description,
		GoalAmount:         campaign.GoalAmount,
		RaisedAmount:       campaign.RaisedAmount,
		ProgressPercentage: campaign.ProgressPercentage(),
		IsActive:           campaign.IsActive,
		Category:           campaign.Category,
		BannerImage:        campaign.BannerImage,
		EndDate:            campaign.EndDate,
		CreatedAt:          campaign.CreatedAt,
	}

	// Include organisation if preloaded
	if campaign.Organisation.ID != 0 {
		org := ToOrganisationDTO(campaign.Organisation)
		dto.Organisation = &org
	}

	return dto
}

// ToCampaignListResponse converts a slice of campaigns to CampaignListResponse
func ToCampaignListResponse(campaigns []models.Campaign, page, pageSize int, totalCount int64) CampaignListResponse {
	items := make([]CampaignDTO, len(campaigns))
	for i, campaign := range campaigns {
		items[i] = ToCampaignDTO(campaign)
	}

	return CampaignListResponse{
		Campaigns:  items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
