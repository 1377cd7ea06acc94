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
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrCampaignTitleRequired   = errors.New("title is required")
	ErrInvalidGoalAmount       = errors.New("goal amount must be greater than zero")
	ErrOrganisationNotVerified = errors.New("organisation must be verified before creating campaigns")
)

// CampaignService handles campaign creation and browsing. Campaign creation
// sits behind the verification gate: an unverified organisation is rejected
// before any record is written.
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	orgRepo      repository.OrganisationRepository
	emitter      webhook.Emitter
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	orgRepo repository.OrganisationRepository,
	emitter webhook.Emitter,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		orgRepo:      orgRepo,
		emitter:      emitter,
	}
}

// CreateCampaignInput represents parameters to create a campaign.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  float64
	Category    string
	EndDate     *time.Time
}

// CreateCampaign creates a campaign for the acting organisation.
func (s *CampaignService) CreateCampaign(actor *models.User, input CreateCampaignInput) (*models.Campaign, error) {
	if !access.Allowed(actor.Role, access.OpCreateCampaign) {
		return nil, ErrOrganisationRoleRequired
	}

	org, err := s.orgRepo.FindByUserID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganisationProfileMissing
		}
		return nil, fmt.Errorf("failed to find organisation: %w", err)
	}

	if !org.IsVerified {
		return nil, ErrOrganisationNotVerified
	}

	if input.Title == "" {
		return nil, ErrCampaignTitleRequired
	}
	if input.GoalAmount <= 0 {
		return nil, ErrInvalidGoalAmount
	}

	category := input.Category
	if category == "" {
		category = "General"
	}

	campaign := &models.Campaign{
		OrganisationID: org.ID,
		Title:          input.Title,
		Description:    input.Description,
		GoalAmount:     input.GoalAmount,
		Category:       category,
		IsActive:       true,
		EndDate:        input.EndDate,
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.emitter.Emit(webhook.EventCampaignCreated, map[string]interface{}{
		"campaign_id":       campaign.ID,
		"title":             campaign.Title,
		"organisation_id":   org.ID,
		"organisation_name": org.Name,
		"goal_amount":       campaign.GoalAmount,
		"created_at":        campaign.CreatedAt.UTC().Format(time.RFC3339),
	})

	return campaign, nil
}

// ListActive returns active campaigns, optionally filtered by category.
func (s *CampaignService) ListActive(category string, page, pageSize int) ([]models.Campaign, int64, error) {
	if category == "all" {
		category = ""
	}
	campaigns, total, err := s.campaignRepo.List(repository.CampaignFilter{
		ActiveOnly: true,
		Category:   category,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, total, nil
}

// GetCampaign returns a campaign with its organisation.
func (s *CampaignService) GetCampaign(id uint64) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(id, "Organisation")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}
	return campaign, nil
}

// ListByOrganisation returns all campaigns of one organisation.
func (s *CampaignService) ListByOrganisation(orgID uint64) ([]models.Campaign, error) {
	campaigns, _, err := s.campaignRepo.List(repository.CampaignFilter{OrganisationID: &orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}
