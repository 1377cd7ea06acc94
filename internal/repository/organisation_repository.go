package repository

import (
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/database"
	"github.com/givestream/donation-platform/internal/models"
)

// GormOrganisationRepository is a GORM implementation of OrganisationRepository
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewOrganisationRepository creates a new OrganisationRepository
func NewOrganisationRepository(db *gorm.DB) OrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

// Create creates a new organisation
func (r *GormOrganisationRepository) Create(org *models.Organisation) error {
	return r.db.Create(org).Error
}

// FindByID finds an organisation by ID with optional preloading
func (r *GormOrganisationRepository) FindByID(id uint64, preload ...string) (*models.Organisation, error) {
	var org models.Organisation
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByUserID finds the organisation owned by a user
func (r *GormOrganisationRepository) FindByUserID(userID uint64) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.Where("user_id = ?", userID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List retrieves organisations matching the filter, newest first
func (r *GormOrganisationRepository) List(filter OrganisationFilter) ([]models.Organisation, int64, error) {
	var orgs []models.Organisation

	query := r.db.Model(&models.Organisation{})
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&orgs).Error; err != nil {
		return nil, 0, err
	}

	return orgs, total, nil
}

// Update updates an organisation
func (r *GormOrganisationRepository) Update(org *models.Organisation) error {
	return r.db.Save(org).Error
}

// MarkVerified sets the verified flag on an organisation
func (r *GormOrganisationRepository) MarkVerified(id uint64) error {
	return r.db.Model(&models.Organisation{}).
		Where("id = ?", id).
		Update("is_verified", true).Error
}

// SetTotalDonations overwrites the derived aggregate; reconciliation only
func (r *GormOrganisationRepository) SetTotalDonations(id uint64, amount float64) error {
	return r.db.Model(&models.Organisation{}).
		Where("id = ?", id).
		UpdateColumn("total_donations", amount).Error
}

// TopByTotalDonations returns organisations ordered by total received
func (r *GormOrganisationRepository) TopByTotalDonations(limit int) ([]models.Organisation, error) {
	var orgs []models.Organisation
	if err := r.db.Order("total_donations DESC").Limit(limit).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Count returns the total number of organisations
func (r *GormOrganisationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Organisation{}).Count(&count).Error
	return count, err
}

// CountPendingVerification returns the number of unverified organisations
func (r *GormOrganisationRepository) CountPendingVerification() (int64, error) {
	var count int64
	err := r.db.Model(&models.Organisation{}).Where("is_verified = ?", false).Count(&count).Error
	return count, err
}

// Recent returns the most recently created organisations
func (r *GormOrganisationRepository) Recent(limit int) ([]models.Organisation, error) {
	var orgs []models.Organisation
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}
