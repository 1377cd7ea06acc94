package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/access"
	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/utils"
	"github.com/givestream/donation-platform/internal/webhook"
)

var (
	// ErrDonationNotFound covers both a genuinely absent donation and an
	// ownership mismatch. Callers must not be able to distinguish the two,
	// otherwise donation IDs become probeable.
	ErrDonationNotFound     = errors.New("donation not found")
	ErrDonorRoleRequired    = errors.New("only donor accounts can donate")
	ErrInvalidAmount        = errors.New("donation amount must be greater than zero")
	ErrDonationTargetNeeded = errors.New("a campaign or organisation is required")
	ErrInvalidPaymentStatus = errors.New("unknown payment status")
	ErrInvalidTransition    = errors.New("payment status transition not permitted from the current status")
	// ErrAggregateWrite wraps storage failures during completion. The
	// underlying chain names the step that failed (status write, campaign
	// increment, organisation increment); the whole unit has been rolled
	// back, so nothing is applied.
	ErrAggregateWrite = errors.New("failed to apply payment completion")
)

// DonationService handles the donation ledger and payment status
// transitions, including the fan-out of completed amounts into the campaign
// and organisation aggregates.
type DonationService struct {
	donationRepo repository.DonationRepository
	campaignRepo repository.CampaignRepository
	orgRepo      repository.OrganisationRepository
	userRepo     repository.UserRepository
	emitter      webhook.Emitter
}

// NewDonationService creates a new DonationService.
func NewDonationService(
	donationRepo repository.DonationRepository,
	campaignRepo repository.CampaignRepository,
	orgRepo repository.OrganisationRepository,
	userRepo repository.UserRepository,
	emitter webhook.Emitter,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		orgRepo:      orgRepo,
		userRepo:     userRepo,
		emitter:      emitter,
	}
}

// CreateDonationInput represents parameters to create a donation. Either
// CampaignID or OrganisationID must be set; a campaign implies its
// organisation.
type CreateDonationInput struct {
	Amount         float64
	CampaignID     *uint64
	OrganisationID uint64
	IsAnonymous    bool
	Message        string
}

// CreateDonation appends a pending donation to the ledger. The receipt and
// transaction identifiers are generated here; no aggregate changes until the
// payment is confirmed.
func (s *DonationService) CreateDonation(actor *models.User, input CreateDonationInput) (*models.Donation, error) {
	if !access.Allowed(actor.Role, access.OpDonate) {
		return nil, ErrDonorRoleRequired
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	organisationID := input.OrganisationID
	if input.CampaignID != nil {
		campaign, err := s.campaignRepo.FindByID(*input.CampaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCampaignNotFound
			}
			return nil, fmt.Errorf("failed to find campaign: %w", err)
		}
		organisationID = campaign.OrganisationID
	} else {
		if organisationID == 0 {
			return nil, ErrDonationTargetNeeded
		}
		if _, err := s.orgRepo.FindByID(organisationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrganisationNotFound
			}
			return nil, fmt.Errorf("failed to find organisation: %w", err)
		}
	}

	donation := &models.Donation{
		DonorID:        actor.ID,
		OrganisationID: organisationID,
		CampaignID:     input.CampaignID,
		Amount:         input.Amount,
		PaymentStatus:  models.PaymentStatusPending,
		TransactionID:  utils.GenerateTransactionID(),
		ReceiptID:      utils.GenerateReceiptID(time.Now()),
		IsAnonymous:    input.IsAnonymous,
		Message:        input.Message,
	}

	if err := s.donationRepo.Create(donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	return donation, nil
}

// GetDonation returns a donation owned by the actor. A donation owned by
// someone else reports not-found.
func (s *DonationService) GetDonation(actor *models.User, id uint64) (*models.Donation, error) {
	donation, err := s.donationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}
	if donation.DonorID != actor.ID {
		return nil, ErrDonationNotFound
	}
	return donation, nil
}

// ListDonations returns the actor's own donations, newest first.
func (s *DonationService) ListDonations(actor *models.User, page, pageSize int) ([]models.Donation, int64, error) {
	if !access.Allowed(actor.Role, access.OpViewOwnDonations) {
		return nil, 0, ErrDonorRoleRequired
	}
	donations, total, err := s.donationRepo.List(repository.DonationFilter{
		DonorID:  &actor.ID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, total, nil
}

// TransitionPayment moves a donation to a new payment status. The completed
// transition applies the aggregate fan-out exactly once: a confirmation for
// an already-completed donation is a no-op, so duplicate payment callbacks
// never double-count. Any other transition out of a terminal status is
// rejected. The donation_completed event is emitted only after the
// transactional work has committed.
func (s *DonationService) TransitionPayment(actor *models.User, id uint64, newStatus models.PaymentStatus) (*models.Donation, error) {
	donation, err := s.GetDonation(actor, id)
	if err != nil {
		return nil, err
	}

	if !newStatus.Valid() || newStatus == models.PaymentStatusPending {
		return nil, ErrInvalidPaymentStatus
	}

	if donation.PaymentStatus.IsTerminal() {
		if donation.PaymentStatus == newStatus {
			// Duplicate confirmation; aggregates already reflect it.
			return donation, nil
		}
		return nil, ErrInvalidTransition
	}

	if newStatus == models.PaymentStatusCompleted {
		applied, err := s.donationRepo.Complete(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregateWrite, err)
		}
		donation.PaymentStatus = models.PaymentStatusCompleted
		if applied {
			s.emitDonationCompleted(donation)
		}
		return donation, nil
	}

	applied, err := s.donationRepo.TransitionStatus(id, newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregateWrite, err)
	}
	if !applied {
		// Raced with another transition; report the ledger's current view.
		current, err := s.donationRepo.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to reload donation: %w", err)
		}
		if current.PaymentStatus != newStatus {
			return nil, ErrInvalidTransition
		}
		return current, nil
	}
	donation.PaymentStatus = newStatus
	return donation, nil
}

// emitDonationCompleted builds the donation_completed payload. The donor
// email is withheld for anonymous donations; campaign fields are null for
// organisation-level donations.
func (s *DonationService) emitDonationCompleted(donation *models.Donation) {
	var donorEmail interface{}
	if !donation.IsAnonymous {
		if donor, err := s.userRepo.FindByID(donation.DonorID); err == nil {
			donorEmail = donor.Email
		}
	}

	organisationName := ""
	if org, err := s.orgRepo.FindByID(donation.OrganisationID); err == nil {
		organisationName = org.Name
	}

	var campaignID, campaignTitle interface{}
	if donation.CampaignID != nil {
		campaignID = *donation.CampaignID
		if campaign, err := s.campaignRepo.FindByID(*donation.CampaignID); err == nil {
			campaignTitle = campaign.Title
		}
	}

	s.emitter.Emit(webhook.EventDonationCompleted, map[string]interface{}{
		"donation_id":       donation.ID,
		"donor_id":          donation.DonorID,
		"organisation_id":   donation.OrganisationID,
		"campaign_id":       campaignID,
		"amount":            donation.Amount,
		"receipt_id":        donation.ReceiptID,
		"transaction_id":    donation.TransactionID,
		"is_anonymous":      donation.IsAnonymous,
		"donor_email":       donorEmail,
		"organisation_name": organisationName,
		"campaign_title":    campaignTitle,
	})
}

// DonorDashboard summarises a donor's giving activity.
type DonorDashboard struct {
	TotalDonated       float64
	DonationCount      int64
	RecentDonations    []models.Donation
	SupportedCampaigns []models.Campaign
	SupportedOrgs      []models.Organisation
}

// Dashboard builds the acting donor's dashboard.
func (s *DonationService) Dashboard(actor *models.User) (*DonorDashboard, error) {
	if !access.Allowed(actor.Role, access.OpViewOwnDonations) {
		return nil, ErrDonorRoleRequired
	}
	totals, err := s.donationRepo.CompletedTotalsByDonor(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum donations: %w", err)
	}

	completed := models.PaymentStatusCompleted
	recent, _, err := s.donationRepo.List(repository.DonationFilter{
		DonorID:  &actor.ID,
		Status:   &completed,
		Page:     1,
		PageSize: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	campaignIDs, err := s.donationRepo.DistinctCampaignIDsByDonor(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supported campaigns: %w", err)
	}
	campaigns := make([]models.Campaign, 0, len(campaignIDs))
	for _, cid := range campaignIDs {
		if campaign, err := s.campaignRepo.FindByID(cid); err == nil {
			campaigns = append(campaigns, *campaign)
		}
	}

	orgIDs, err := s.donationRepo.DistinctOrganisationIDsByDonor(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supported organisations: %w", err)
	}
	orgs := make([]models.Organisation, 0, len(orgIDs))
	for _, oid := range orgIDs {
		if org, err := s.orgRepo.FindByID(oid); err == nil {
			orgs = append(orgs, *org)
		}
	}

	return &DonorDashboard{
		TotalDonated:       totals.Total,
		DonationCount:      totals.Count,
		RecentDonations:    recent,
		SupportedCampaigns: campaigns,
		SupportedOrgs:      orgs,
	}, nil
}
