package dto

import (
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/services"
)

// PlatformStatsDTO represents the admin platform overview
type PlatformStatsDTO struct {
	TotalUsers           int64             `json:"total_users"`
	TotalOrganisations   int64             `json:"total_organisations"`
	PendingVerifications int64             `json:"pending_verifications"`
	TotalCampaigns       int64             `json:"total_campaigns"`
	TotalDonated         float64           `json:"total_donated"`
	DonationCount        int64             `json:"donation_count"`
	RecentDonations      []DonationDTO     `json:"recent_donations"`
	RecentOrganisations  []OrganisationDTO `json:"recent_organisations"`
}

// MonthlySummaryDTO represents one month of donation volume
type MonthlySummaryDTO struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// FinancialReportDTO represents the admin financial report
type FinancialReportDTO struct {
	TotalDonated     float64             `json:"total_donated"`
	DonationCount    int64               `json:"donation_count"`
	MonthlySummaries []MonthlySummaryDTO `json:"monthly_summaries"`
	TopCampaigns     []CampaignDTO       `json:"top_campaigns"`
	TopOrganisations []OrganisationDTO   `json:"top_organisations"`
}

// ReconciliationResponse reports the repairs applied by a reconciliation run
type ReconciliationResponse struct {
	Repairs      []services.AggregateRepair `json:"repairs"`
	RepairCount  int                        `json:"repair_count"`
	DriftedFound bool                       `json:"drift_found"`
}

// ToPlatformStatsDTO converts PlatformStats to its DTO
func ToPlatformStatsDTO(stats *services.PlatformStats) PlatformStatsDTO {
	donations := make([]DonationDTO, len(stats.RecentDonations))
	for i, donation := range stats.RecentDonations {
		donations[i] = ToDonationDTO(donation)
	}
	orgs := make([]OrganisationDTO, len(stats.RecentOrganisations))
	for i, org := range stats.RecentOrganisations {
		orgs[i] = ToOrganisationDTO(org)
	}

	return PlatformStatsDTO{
		TotalUsers:           stats.TotalUsers,
		TotalOrganisations:   stats.TotalOrganisations,
		PendingVerifications: stats.PendingVerifications,
		TotalCampaigns:       stats.TotalCampaigns,
		TotalDonated:         stats.TotalDonated,
		DonationCount:        stats.DonationCount,
		RecentDonations:      donations,
		RecentOrganisations:  orgs,
	}
}

// ToFinancialReportDTO converts a FinancialReport to its DTO
func ToFinancialReportDTO(report *services.FinancialReport) FinancialReportDTO {
	monthly := make([]MonthlySummaryDTO, len(report.MonthlySummaries))
	for i, m := range report.MonthlySummaries {
		monthly[i] = ToMonthlySummaryDTO(m)
	}
	campaigns := make([]CampaignDTO, len(report.TopCampaigns))
	for i, campaign := range report.TopCampaigns {
		campaigns[i] = ToCampaignDTO(campaign)
	}
	orgs := make([]OrganisationDTO, len(report.TopOrganisations))
	for i, org := range report.TopOrganisations {
		orgs[i] = ToOrganisationDTO(org)
	}

	return FinancialReportDTO{
		TotalDonated:     report.TotalDonated,
		DonationCount:    report.DonationCount,
		MonthlySummaries: monthly,
		TopCampaigns:     campaigns,
		TopOrganisations: orgs,
	}
}

// ToMonthlySummaryDTO converts a MonthlyDonationSummary to its DTO
func ToMonthlySummaryDTO(summary repository.MonthlyDonationSummary) MonthlySummaryDTO {
	return MonthlySummaryDTO{
		Year:  summary.Year,
		Month: summary.Month,
		Total: summary.Total,
		Count: summary.Count,
	}
}

// ToReconciliationResponse wraps the repairs from a reconciliation run
func ToReconciliationResponse(repairs []services.AggregateRepair) ReconciliationResponse {
	return ReconciliationResponse{
		Repairs:      repairs,
		RepairCount:  len(repairs),
		DriftedFound: len(repairs) > 0,
	}
}
