package repository

import (
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/database"
	"github.com/givestream/donation-platform/internal/models"
)

// GormCampaignRepository is a GORM implementation of CampaignRepository
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Create creates a new campaign
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// FindByID finds a campaign by ID with optional preloading
func (r *GormCampaignRepository) FindByID(id uint64, preload ...string) (*models.Campaign, error) {
	var campaign models.Campaign
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List retrieves campaigns matching the filter, newest first
func (r *GormCampaignRepository) List(filter CampaignFilter) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign

	query := r.db.Model(&models.Campaign{})
	if filter.OrganisationID != nil {
		query = query.Where("organisation_id = ?", *filter.OrganisationID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Organisation").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// Update updates a campaign
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// SetRaisedAmount overwrites the derived aggregate; reconciliation only
func (r *GormCampaignRepository) SetRaisedAmount(id uint64, amount float64) error {
	return r.db.Model(&models.Campaign{}).
		Where("id = ?", id).
		UpdateColumn("raised_amount", amount).Error
}

// TopByRaised returns campaigns ordered by raised amount
func (r *GormCampaignRepository) TopByRaised(limit int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.db.Order("raised_amount DESC").Limit(limit).Preload("Organisation").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Count returns the total number of campaigns
func (r *GormCampaignRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).Count(&count).Error
	return count, err
}

// IDs returns every campaign ID
func (r *GormCampaignRepository) IDs() ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Campaign{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
