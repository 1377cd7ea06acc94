package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/access"
	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/webhook"
)

var (
	ErrOrganisationNotFound       = errors.New("organisation not found")
	ErrOrganisationExists         = errors.New("user already has an organisation profile")
	ErrOrganisationRoleRequired   = errors.New("only organisation accounts can perform this action")
	ErrOrganisationNameRequired   = errors.New("organisation name cannot be empty")
	ErrAdminRequired              = errors.New("admin access required")
	ErrInvalidVerificationAction  = errors.New("verification action must be approve or reject")
	ErrOrganisationProfileMissing = errors.New("organisation profile has not been set up")
)

// Verification actions accepted by VerifyOrganisation.
const (
	VerificationActionApprove = "approve"
	VerificationActionReject  = "reject"
)

// OrganisationService handles organisation profiles, the verification state
// machine, and the organisation dashboard.
type OrganisationService struct {
	orgRepo      repository.OrganisationRepository
	campaignRepo repository.CampaignRepository
	donationRepo repository.DonationRepository
	userRepo     repository.UserRepository
	emitter      webhook.Emitter
}

// NewOrganisationService creates a new OrganisationService.
func NewOrganisationService(
	orgRepo repository.OrganisationRepository,
	campaignRepo repository.CampaignRepository,
	donationRepo repository.DonationRepository,
	userRepo repository.UserRepository,
	emitter webhook.Emitter,
) *OrganisationService {
	return &OrganisationService{
		orgRepo:      orgRepo,
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		userRepo:     userRepo,
		emitter:      emitter,
	}
}

// CreateOrganisationInput represents parameters to create an organisation
// profile.
type CreateOrganisationInput struct {
	Name               string
	Description        string
	Mission            string
	Website            string
	Phone              string
	Address            string
	RegistrationNumber string
}

// CreateOrganisation creates the acting user's organisation profile. The new
// profile starts unverified and a pending verification event is emitted for
// the admin review flow.
func (s *OrganisationService) CreateOrganisation(actor *models.User, input CreateOrganisationInput) (*models.Organisation, error) {
	if !access.Allowed(actor.Role, access.OpCreateOrganisation) {
		return nil, ErrOrganisationRoleRequired
	}
	if input.Name == "" {
		return nil, ErrOrganisationNameRequired
	}

	if _, err := s.orgRepo.FindByUserID(actor.ID); err == nil {
		return nil, ErrOrganisationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing organisation: %w", err)
	}

	org := &models.Organisation{
		UserID:             actor.ID,
		Name:               input.Name,
		Description:        input.Description,
		Mission:            input.Mission,
		Website:            input.Website,
		Phone:              input.Phone,
		Address:            input.Address,
		RegistrationNumber: input.RegistrationNumber,
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organisation: %w", err)
	}

	s.emitter.Emit(webhook.EventOrganisationCreated, map[string]interface{}{
		"organisation_id": org.ID,
		"name":            org.Name,
		"user_id":         actor.ID,
		"user_email":      actor.Email,
		"created_at":      org.CreatedAt.UTC().Format(time.RFC3339),
	})

	s.emitter.Emit(webhook.EventOrganisationVerification, map[string]interface{}{
		"organisation_id":     org.ID,
		"organisation_name":   org.Name,
		"user_id":             actor.ID,
		"user_email":          actor.Email,
		"verification_status": "pending",
		"registration_number": org.RegistrationNumber,
	})

	return org, nil
}

// GetOrganisation returns an organisation by ID.
func (s *OrganisationService) GetOrganisation(id uint64) (*models.Organisation, error) {
	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganisationNotFound
		}
		return nil, fmt.Errorf("failed to find organisation: %w", err)
	}
	return org, nil
}

// GetOwnOrganisation returns the acting user's organisation profile.
func (s *OrganisationService) GetOwnOrganisation(actor *models.User) (*models.Organisation, error) {
	if actor.Role != models.RoleOrganisation {
		return nil, ErrOrganisationRoleRequired
	}
	org, err := s.orgRepo.FindByUserID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganisationProfileMissing
		}
		return nil, fmt.Errorf("failed to find organisation: %w", err)
	}
	return org, nil
}

// ListVerified returns verified organisations for public browsing.
func (s *OrganisationService) ListVerified(page, pageSize int) ([]models.Organisation, int64, error) {
	verified := true
	orgs, total, err := s.orgRepo.List(repository.OrganisationFilter{
		Verified: &verified,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organisations: %w", err)
	}
	return orgs, total, nil
}

// VerifyOrganisation applies an admin verification decision. Approval is the
// only persisted transition: it sets the verified flag and emits an approved
// event. Rejection persists nothing; the organisation stays unverified and
// only a rejected event goes out, so the owner can amend and resubmit.
func (s *OrganisationService) VerifyOrganisation(actor *models.User, orgID uint64, action, notes string) error {
	if !access.Allowed(actor.Role, access.OpVerifyOrganisation) {
		return ErrAdminRequired
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganisationNotFound
		}
		return fmt.Errorf("failed to find organisation: %w", err)
	}

	owner, err := s.userRepo.FindByID(org.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to find organisation owner: %w", err)
	}
	ownerEmail := ""
	if owner != nil {
		ownerEmail = owner.Email
	}

	switch action {
	case VerificationActionApprove:
		if err := s.orgRepo.MarkVerified(org.ID); err != nil {
			return fmt.Errorf("failed to verify organisation: %w", err)
		}
		s.emitter.Emit(webhook.EventOrganisationVerification, map[string]interface{}{
			"organisation_id":     org.ID,
			"organisation_name":   org.Name,
			"user_id":             org.UserID,
			"user_email":          ownerEmail,
			"verification_status": "approved",
			"admin_notes":         notes,
			"verified_at":         time.Now().UTC().Format(time.RFC3339),
		})
	case VerificationActionReject:
		s.emitter.Emit(webhook.EventOrganisationVerification, map[string]interface{}{
			"organisation_id":     org.ID,
			"organisation_name":   org.Name,
			"user_id":             org.UserID,
			"user_email":          ownerEmail,
			"verification_status": "rejected",
			"admin_notes":         notes,
			"rejected_at":         time.Now().UTC().Format(time.RFC3339),
		})
	default:
		return ErrInvalidVerificationAction
	}

	return nil
}

// OrganisationDashboard summarises an organisation's fundraising activity.
// Totals are recomputed from the donation ledger rather than read from the
// denormalized aggregate, so the dashboard stays truthful even if the
// aggregate has drifted.
type OrganisationDashboard struct {
	Organisation    *models.Organisation
	TotalRaised     float64
	DonationCount   int64
	CampaignCount   int
	ActiveCampaigns int
	RecentDonations []models.Donation
}

// Dashboard builds the acting organisation's dashboard.
func (s *OrganisationService) Dashboard(actor *models.User) (*OrganisationDashboard, error) {
	if !access.Allowed(actor.Role, access.OpViewOrgDashboard) {
		return nil, ErrOrganisationRoleRequired
	}
	org, err := s.GetOwnOrganisation(actor)
	if err != nil {
		return nil, err
	}

	campaigns, _, err := s.campaignRepo.List(repository.CampaignFilter{OrganisationID: &org.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	active := 0
	for _, c := range campaigns {
		if c.IsActive {
			active++
		}
	}

	totalRaised, err := s.donationRepo.SumCompletedByOrganisation(org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}

	completed := models.PaymentStatusCompleted
	donations, count, err := s.donationRepo.List(repository.DonationFilter{
		OrganisationID: &org.ID,
		Status:         &completed,
		Page:           1,
		PageSize:       10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	return &OrganisationDashboard{
		Organisation:    org,
		TotalRaised:     totalRaised,
		DonationCount:   count,
		CampaignCount:   len(campaigns),
		ActiveCampaigns: active,
		RecentDonations: donations,
	}, nil
}

// ListOrganisationDonations returns the acting organisation's donations,
// newest first.
func (s *OrganisationService) ListOrganisationDonations(actor *models.User, page, pageSize int) ([]models.Donation, int64, error) {
	org, err := s.GetOwnOrganisation(actor)
	if err != nil {
		return nil, 0, err
	}

	donations, total, err := s.donationRepo.List(repository.DonationFilter{
		OrganisationID: &org.ID,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, total, nil
}
