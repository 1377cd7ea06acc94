package dto

import (
	"time"

	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/services"
)

// DonationDTO represents a donation in API responses
type DonationDTO struct {
	ID             uint64               `json:"id"`
	DonorID        uint64               `json:"donor_id"`
	OrganisationID uint64               `json:"organisation_id"`
	CampaignID     *uint64              `json:"campaign_id"`
	Amount         float64              `json:"amount"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	TransactionID  string               `json:"transaction_id"`
	ReceiptID      string               `json:"receipt_id"`
	IsAnonymous    bool                 `json:"is_anonymous"`
	Message        string               `json:"message,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Campaign       *CampaignDTO         `json:"campaign,omitempty"`
	Organisation   *OrganisationDTO     `json:"organisation,omitempty"`
}

// DonationListResponse represents a paginated list of donations
type DonationListResponse struct {
	Donations  []DonationDTO `json:"donations"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

// DonorDashboardDTO represents the donor dashboard
type DonorDashboardDTO struct {
	TotalDonated       float64           `json:"total_donated"`
	DonationCount      int64             `json:"donation_count"`
	RecentDonations    []DonationDTO     `json:"recent_donations"`
	SupportedCampaigns []CampaignDTO     `json:"supported_campaigns"`
	SupportedOrgs      []OrganisationDTO `json:"supported_organisations"`
}

// ToDonationDTO converts a Donation model to DonationDTO
func ToDonationDTO(donation models.Donation) DonationDTO {
	dto := DonationDTO{
		ID:             donation.ID,
		DonorID:        donation.DonorID,
		OrganisationID: donation.OrganisationID,
		CampaignID:     donation.CampaignID,
		Amount:         donation.Amount,
		PaymentStatus:  donation.PaymentStatus,
		TransactionID:  donation.TransactionID,
		ReceiptID:      donation.ReceiptID,
		IsAnonymous:    donation.IsAnonymous,
		Message:        donation.Message,
		CreatedAt:      donation.CreatedAt,
	}

	// Include campaign if preloaded
	if donation.Campaign != nil && donation.Campaign.ID != 0 {
		campaign := ToCampaignDTO(*donation.Campaign)
		dto.Campaign = &campaign
	}

	// Include organisation if preloaded
	if donation.Organisation.ID != 0 {
		org := ToOrganisationDTO(donation.Organisation)
		dto.Organisation = &org
	}

	return dto
}

// ToDonationListResponse converts a slice of donations to DonationListResponse
func ToDonationListResponse(donations []models.Donation, page, pageSize int, totalCount int64) DonationListResponse {
	items := make([]DonationDTO, len(donations))
	for i, donation := range donations {
		items[i] = ToDonationDTO(donation)
	}

	return DonationListResponse{
		Donations:  items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}

// ToDonorDashboardDTO converts a DonorDashboard to its DTO
func ToDonorDashboardDTO(d *services.DonorDashboard) DonorDashboardDTO {
	donations := make([]DonationDTO, len(d.RecentDonations))
	for i, donation := range d.RecentDonations {
		donations[i] = ToDonationDTO(donation)
	}
	campaigns := make([]CampaignDTO, len(d.SupportedCampaigns))
	for i, campaign := range d.SupportedCampaigns {
		campaigns[i] = ToCampaignDTO(campaign)
	}
	orgs := make([]OrganisationDTO, len(d.SupportedOrgs))
	for i, org := range d.SupportedOrgs {
		orgs[i] = ToOrganisationDTO(org)
	}

	return DonorDashboardDTO{
		TotalDonated:       d.TotalDonated,
		DonationCount:      d.DonationCount,
		RecentDonations:    donations,
		SupportedCampaigns: campaigns,
		SupportedOrgs:      orgs,
	}
}
