package repository

import (
	"time"

	"github.com/givestream/donation-platform/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// List retrieves users ordered by creation time, newest first
	List(page, pageSize int) ([]models.User, int64, error)

	// Count returns the total number of users
	Count() (int64, error)
}

// OrganisationFilter holds filtering options for listing organisations
type OrganisationFilter struct {
	Verified *bool
	Page     int
	PageSize int
}

// OrganisationRepository defines the interface for organisation data access
type OrganisationRepository interface {
	// Create creates a new organisation
	Create(org *models.Organisation) error

	// FindByID finds an organisation by ID
	FindByID(id uint64, preload ...string) (*models.Organisation, error)

	// FindByUserID finds the organisation owned by a user
	FindByUserID(userID uint64) (*models.Organisation, error)

	// List retrieves organisations matching the filter, newest first
	List(filter OrganisationFilter) ([]models.Organisation, int64, error)

	// Update updates an organisation
	Update(org *models.Organisation) error

	// MarkVerified sets the verified flag on an organisation
	MarkVerified(id uint64) error

	// SetTotalDonations overwrites the derived aggregate; reconciliation only
	SetTotalDonations(id uint64, amount float64) error

	// TopByTotalDonations returns organisations ordered by total received
	TopByTotalDonations(limit int) ([]models.Organisation, error)

	// Count returns the total number of organisations
	Count() (int64, error)

	// CountPendingVerification returns the number of unverified organisations
	CountPendingVerification() (int64, error)

	// Recent returns the most recently created organisations
	Recent(limit int) ([]models.Organisation, error)
}

// CampaignFilter holds filtering options for listing campaigns
type CampaignFilter struct {
	OrganisationID *uint64
	Category       string
	ActiveOnly     bool
	Page           int
	PageSize       int
}

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	// Create creates a new campaign
	Create(campaign *models.Campaign) error

	// FindByID finds a campaign by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Campaign, error)

	// List retrieves campaigns matching the filter
	List(filter CampaignFilter) ([]models.Campaign, int64, error)

	// Update updates a campaign
	Update(campaign *models.Campaign) error

	// SetRaisedAmount overwrites the derived aggregate; reconciliation only
	SetRaisedAmount(id uint64, amount float64) error

	// TopByRaised returns campaigns ordered by raised amount
	TopByRaised(limit int) ([]models.Campaign, error)

	// Count returns the total number of campaigns
	Count() (int64, error)

	// IDs returns every campaign ID
	IDs() ([]uint64, error)
}

// DonationFilter holds filtering options for listing donations
type DonationFilter struct {
	DonorID        *uint64
	OrganisationID *uint64
	CampaignID     *uint64
	Status         *models.PaymentStatus
	Page           int
	PageSize       int
}

// MonthlyDonationSummary aggregates completed donations for one month.
type MonthlyDonationSummary struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// DonationTotals aggregates completed donations for one scope (donor,
// organisation, or the whole platform).
type DonationTotals struct {
	Total float64
	Count int64
}

// DonationRepository defines the interface for the donation ledger. Donations
// are append-mostly: records are created in pending status and only their
// payment_status ever changes afterwards.
type DonationRepository interface {
	// Create appends a new donation to the ledger
	Create(donation *models.Donation) error

	// FindByID finds a donation by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Donation, error)

	// List retrieves donations matching the filter, newest first
	List(filter DonationFilter) ([]models.Donation, int64, error)

	// Complete transitions a pending donation to completed and applies the
	// campaign and organisation aggregate increments in one transaction.
	// Returns applied=false without error when the donation was already
	// completed, so duplicate confirmations never double-count.
	Complete(id uint64) (applied bool, err error)

	// TransitionStatus moves a pending donation to a non-completed terminal
	// status without touching any aggregate. Returns applied=false when the
	// donation was no longer pending.
	TransitionStatus(id uint64, status models.PaymentStatus) (applied bool, err error)

	// SumCompletedByCampaign recomputes the ledger truth for one campaign
	SumCompletedByCampaign(campaignID uint64) (float64, error)

	// SumCompletedByOrganisation recomputes the ledger truth for one organisation
	SumCompletedByOrganisation(organisationID uint64) (float64, error)

	// CompletedTotalsByDonor sums a donor's completed donations
	CompletedTotalsByDonor(donorID uint64) (DonationTotals, error)

	// CompletedTotals sums all completed donations on the platform
	CompletedTotals() (DonationTotals, error)

	// MonthlySummaries aggregates completed donations per calendar month,
	// most recent first
	MonthlySummaries(months int) ([]MonthlyDonationSummary, error)

	// Recent returns the most recently created donations
	Recent(limit int) ([]models.Donation, error)

	// DistinctCampaignIDsByDonor lists campaigns a donor has completed
	// donations to
	DistinctCampaignIDsByDonor(donorID uint64) ([]uint64, error)

	// DistinctOrganisationIDsByDonor lists organisations a donor has
	// completed donations to
	DistinctOrganisationIDsByDonor(donorID uint64) ([]uint64, error)
}

// monthKey is used by MonthlySummaries implementations to bucket donations
// without relying on dialect-specific date functions.
type monthKey struct {
	Year  int
	Month time.Month
}
