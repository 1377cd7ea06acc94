package dto

import (
	"time"

	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/services"
)

// OrganisationDTO represents an organisation in API responses
type OrganisationDTO struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Mission            string    `json:"mission"`
	IsVerified         bool      `json:"is_verified"`
	TotalDonations     float64   `json:"total_donations"`
	LogoImage          string    `json:"logo_image,omitempty"`
	BannerImage        string    `json:"banner_image,omitempty"`
	Website            string    `json:"website,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// OrganisationListResponse represents a paginated list of organisations
type OrganisationListResponse struct {
	Organisations []OrganisationDTO `json:"organisations"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
	TotalPages    int               `json:"total_pages"`
}

// OrganisationDashboardDTO represents the organisation dashboard. TotalRaised
// is recomputed from the ledger and may differ from the stored aggregate.
type OrganisationDashboardDTO struct {
	Organisation    OrganisationDTO `json:"organisation"`
	TotalRaised     float64         `json:"total_raised"`
	DonationCount   int64           `json:"donation_count"`
	CampaignCount   int             `json:"campaign_count"`
	ActiveCampaigns int             `json:"active_campaigns"`
	RecentDonations []DonationDTO   `json:"recent_donations"`
}

// ToOrganisationDTO converts an Organisation model to OrganisationDTO
func ToOrganisationDTO(org models.Organisation) OrganisationDTO {
	return OrganisationDTO{
		ID:                 org.ID,
		Name:               org.Name,
		Description:        org.Description,
		Mission:            org.Mission,
		IsVerified:         org.IsVerified,
		TotalDonations:     org.TotalDonations,
		LogoImage:          org.LogoImage,
		BannerImage:        org.BannerImage,
		Website:            org.Website,
		Phone:              org.Phone,
		Address:            org.Address,
		RegistrationNumber: org.RegistrationNumber,
		CreatedAt:          org.CreatedAt,
	}
}

// ToOrganisationListResponse converts a slice of organisations to
// OrganisationListResponse
func ToOrganisationListResponse(orgs []models.Organisation, page, pageSize int, totalCount int64) OrganisationListResponse {
	items := make([]OrganisationDTO, len(orgs))
	for i, org := range orgs {
		items[i] = ToOrganisationDTO(org)
	}

	return OrganisationListResponse{
		Organisations: items,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages(totalCount, pageSize),
	}
}

// ToOrganisationDashboardDTO converts an OrganisationDashboard to its DTO
func ToOrganisationDashboardDTO(d *services.OrganisationDashboard) OrganisationDashboardDTO {
	donations := make([]DonationDTO, len(d.RecentDonations))
	for i, donation := range d.RecentDonations {
		donations[i] = ToDonationDTO(donation)
	}

	return OrganisationDashboardDTO{
		Organisation:    ToOrganisationDTO(*d.Organisation),
		TotalRaised:     d.TotalRaised,
		DonationCount:   d.DonationCount,
		CampaignCount:   d.CampaignCount,
		ActiveCampaigns: d.ActiveCampaigns,
		RecentDonations: donations,
	}
}
