package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/access"
	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
)

var ErrInvalidStatusFilter = errors.New("status filter must be all, verified, or pending")

// AdminService handles the admin surface: platform statistics, user and
// organisation listings, financial reports, and the aggregate reconciliation
// job.
type AdminService struct {
	userRepo     repository.UserRepository
	orgRepo      repository.OrganisationRepository
	campaignRepo repository.CampaignRepository
	donationRepo repository.DonationRepository
	log          *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganisationRepository,
	campaignRepo repository.CampaignRepository,
	donationRepo repository.DonationRepository,
	log *zap.Logger,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		orgRepo:      orgRepo,
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		log:          log,
	}
}

// PlatformStats is the admin overview of the whole platform.
type PlatformStats struct {
	TotalUsers           int64
	TotalOrganisations   int64
	PendingVerifications int64
	TotalCampaigns       int64
	TotalDonated         float64
	DonationCount        int64
	RecentDonations      []models.Donation
	RecentOrganisations  []models.Organisation
}

// GetPlatformStats builds the platform overview.
func (s *AdminService) GetPlatformStats(actor *models.User) (*PlatformStats, error) {
	if !access.Allowed(actor.Role, access.OpViewPlatformStats) {
		return nil, ErrAdminRequired
	}

	users, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	orgs, err := s.orgRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count organisations: %w", err)
	}
	pending, err := s.orgRepo.CountPendingVerification()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending verifications: %w", err)
	}
	campaigns, err := s.campaignRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}
	totals, err := s.donationRepo.CompletedTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}
	recentDonations, err := s.donationRepo.Recent(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent donations: %w", err)
	}
	recentOrgs, err := s.orgRepo.Recent(5)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent organisations: %w", err)
	}

	return &PlatformStats{
		TotalUsers:           users,
		TotalOrganisations:   orgs,
		PendingVerifications: pending,
		TotalCampaigns:       campaigns,
		TotalDonated:         totals.Total,
		DonationCount:        totals.Count,
		RecentDonations:      recentDonations,
		RecentOrganisations:  recentOrgs,
	}, nil
}

// ListUsers returns all users, paginated.
func (s *AdminService) ListUsers(actor *models.User, page, pageSize int) ([]models.User, int64, error) {
	if !access.Allowed(actor.Role, access.OpListAllUsers) {
		return nil, 0, ErrAdminRequired
	}
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// ListOrganisations returns organisations filtered by verification status:
// "all", "verified", or "pending".
func (s *AdminService) ListOrganisations(actor *models.User, status string, page, pageSize int) ([]models.Organisation, int64, error) {
	if !access.Allowed(actor.Role, access.OpVerifyOrganisation) {
		return nil, 0, ErrAdminRequired
	}

	filter := repository.OrganisationFilter{Page: page, PageSize: pageSize}
	switch status {
	case "", "all":
	case "verified":
		verified := true
		filter.Verified = &verified
	case "pending":
		verified := false
		filter.Verified = &verified
	default:
		return nil, 0, ErrInvalidStatusFilter
	}

	orgs, total, err := s.orgRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organisations: %w", err)
	}
	return orgs, total, nil
}

// FinancialReport summarises donation volume over time and the top
// fundraisers.
type FinancialReport struct {
	TotalDonated     float64
	DonationCount    int64
	MonthlySummaries []repository.MonthlyDonationSummary
	TopCampaigns     []models.Campaign
	TopOrganisations []models.Organisation
}

// GetFinancialReport builds the admin financial report.
func (s *AdminService) GetFinancialReport(actor *models.User) (*FinancialReport, error) {
	if !access.Allowed(actor.Role, access.OpViewPlatformStats) {
		return nil, ErrAdminRequired
	}

	totals, err := s.donationRepo.CompletedTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}
	monthly, err := s.donationRepo.MonthlySummaries(12)
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly summaries: %w", err)
	}
	topCampaigns, err := s.campaignRepo.TopByRaised(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list top campaigns: %w", err)
	}
	topOrgs, err := s.orgRepo.TopByTotalDonations(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list top organisations: %w", err)
	}

	return &FinancialReport{
		TotalDonated:     totals.Total,
		DonationCount:    totals.Count,
		MonthlySummaries: monthly,
		TopCampaigns:     topCampaigns,
		TopOrganisations: topOrgs,
	}, nil
}

// AggregateRepair records one corrected aggregate: the stored value, the
// value recomputed from the donation ledger, and which entity was fixed.
type AggregateRepair struct {
	Entity   string  `json:"entity"`
	ID       uint64  `json:"id"`
	Stored   float64 `json:"stored"`
	Computed float64 `json:"computed"`
}

// ReconcileAggregates recomputes every campaign raised amount and
// organisation donation total from the completed donations in the ledger and
// rewrites any aggregate that has drifted. It returns the list of repairs.
func (s *AdminService) ReconcileAggregates(actor *models.User) ([]AggregateRepair, error) {
	if !access.Allowed(actor.Role, access.OpReconcileAggregates) {
		return nil, ErrAdminRequired
	}

	repairs := []AggregateRepair{}

	campaignIDs, err := s.campaignRepo.IDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	for _, id := range campaignIDs {
		computed, err := s.donationRepo.SumCompletedByCampaign(id)
		if err != nil {
			return nil, fmt.Errorf("failed to sum campaign donations: %w", err)
		}
		campaign, err := s.campaignRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to find campaign: %w", err)
		}
		if campaign.RaisedAmount != computed {
			if err := s.campaignRepo.SetRaisedAmount(id, computed); err != nil {
				return nil, fmt.Errorf("failed to repair campaign aggregate: %w", err)
			}
			s.log.Warn("repaired campaign aggregate",
				zap.Uint64("campaign_id", id),
				zap.Float64("stored", campaign.RaisedAmount),
				zap.Float64("computed", computed))
			repairs = append(repairs, AggregateRepair{
				Entity:   "campaign",
				ID:       id,
				Stored:   campaign.RaisedAmount,
				Computed: computed,
			})
		}
	}

	orgs, _, err := s.orgRepo.List(repository.OrganisationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list organisations: %w", err)
	}
	for _, org := range orgs {
		computed, err := s.donationRepo.SumCompletedByOrganisation(org.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum organisation donations: %w", err)
		}
		if org.TotalDonations != computed {
			if err := s.orgRepo.SetTotalDonations(org.ID, computed); err != nil {
				return nil, fmt.Errorf("failed to repair organisation aggregate: %w", err)
			}
			s.log.Warn("repaired organisation aggregate",
				zap.Uint64("organisation_id", org.ID),
				zap.Float64("stored", org.TotalDonations),
				zap.Float64("computed", computed))
			repairs = append(repairs, AggregateRepair{
				Entity:   "organisation",
				ID:       org.ID,
				Stored:   org.TotalDonations,
				Computed: computed,
			})
		}
	}

	s.log.Info("aggregate reconciliation finished", zap.Int("repairs", len(repairs)))
	return repairs, nil
}
