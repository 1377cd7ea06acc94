package repository

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/database"
	"github.com/givestream/donation-platform/internal/models"
)

var (
	// ErrStatusWrite is returned when persisting the payment status change
	// fails; nothing has been applied.
	ErrStatusWrite = errors.New("donation repository: status write failed")
	// ErrCampaignAggregate is returned when the campaign raised-amount
	// increment fails after the status write; the transaction rolls back,
	// but the error names the step for callers surfacing partial-application
	// detail.
	ErrCampaignAggregate = errors.New("donation repository: campaign aggregate increment failed")
	// ErrOrganisationAggregate is returned when the organisation
	// total-donations increment fails after the status write.
	ErrOrganisationAggregate = errors.New("donation repository: organisation aggregate increment failed")
)

// GormDonationRepository is a GORM implementation of DonationRepository
type GormDonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &GormDonationRepository{db: db}
}

// Create appends a new donation to the ledger
func (r *GormDonationRepository) Create(donation *models.Donation) error {
	return r.db.Create(donation).Error
}

// FindByID finds a donation by ID with optional preloading
func (r *GormDonationRepository) FindByID(id uint64, preload ...string) (*models.Donation, error) {
	var donation models.Donation
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&donation, id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// List retrieves donations matching the filter, newest first
func (r *GormDonationRepository) List(filter DonationFilter) ([]models.Donation, int64, error) {
	var donations []models.Donation

	query := r.db.Model(&models.Donation{})
	if filter.DonorID != nil {
		query = query.Where("donor_id = ?", *filter.DonorID)
	}
	if filter.OrganisationID != nil {
		query = query.Where("organisation_id = ?", *filter.OrganisationID)
	}
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Status != nil {
		query = query.Where("payment_status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

// Complete transitions a pending donation to completed and fans the amount
// out to the campaign and organisation aggregates. All three writes happen in
// one transaction. The status write is a compare-and-swap on the current
// status, so two concurrent confirmations for the same donation race on the
// same row and only the winner applies the increments.
func (r *GormDonationRepository) Complete(id uint64) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var donation models.Donation
		if err := tx.First(&donation, id).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Donation{}).
			Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
			Update("payment_status", models.PaymentStatusCompleted)
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStatusWrite, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race or already completed; leave aggregates alone.
			return nil
		}

		if donation.CampaignID != nil {
			if err := tx.Model(&models.Campaign{}).
				Where("id = ?", *donation.CampaignID).
				UpdateColumn("raised_amount", gorm.Expr("raised_amount + ?", donation.Amount)).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCampaignAggregate, err)
			}
		}

		if err := tx.Model(&models.Organisation{}).
			Where("id = ?", donation.OrganisationID).
			UpdateColumn("total_donations", gorm.Expr("total_donations + ?", donation.Amount)).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrOrganisationAggregate, err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// TransitionStatus moves a pending donation to a non-completed terminal
// status. No aggregate is touched.
func (r *GormDonationRepository) TransitionStatus(id uint64, status models.PaymentStatus) (bool, error) {
	res := r.db.Model(&models.Donation{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
		Update("payment_status", status)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrStatusWrite, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SumCompletedByCampaign recomputes the ledger truth for one campaign
func (r *GormDonationRepository) SumCompletedByCampaign(campaignID uint64) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Donation{}).
		Where("campaign_id = ? AND payment_status = ?", campaignID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumCompletedByOrganisation recomputes the ledger truth for one organisation
func (r *GormDonationRepository) SumCompletedByOrganisation(organisationID uint64) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Donation{}).
		Where("organisation_id = ? AND payment_status = ?", organisationID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// CompletedTotalsByDonor sums a donor's completed donations
func (r *GormDonationRepository) CompletedTotalsByDonor(donorID uint64) (DonationTotals, error) {
	var totals DonationTotals
	err := r.db.Model(&models.Donation{}).
		Where("donor_id = ? AND payment_status = ?", donorID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&totals).Error
	return totals, err
}

// CompletedTotals sums all completed donations on the platform
func (r *GormDonationRepository) CompletedTotals() (DonationTotals, error) {
	var totals DonationTotals
	err := r.db.Model(&models.Donation{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&totals).Error
	return totals, err
}

// MonthlySummaries aggregates completed donations per calendar month. The
// bucketing happens in Go to stay portable across the supported dialects.
func (r *GormDonationRepository) MonthlySummaries(months int) ([]MonthlyDonationSummary, error) {
	type row struct {
		CreatedAt time.Time
		Amount    float64
	}
	var rows []row
	if err := r.db.Model(&models.Donation{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("created_at, amount").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make(map[monthKey]*MonthlyDonationSummary)
	for _, d := range rows {
		at := d.CreatedAt.UTC()
		key := monthKey{Year: at.Year(), Month: at.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyDonationSummary{Year: key.Year, Month: int(key.Month)}
			buckets[key] = b
		}
		b.Total += d.Amount
		b.Count++
	}

	summaries := make([]MonthlyDonationSummary, 0, len(buckets))
	for _, b := range buckets {
		summaries = append(summaries, *b)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Month > summaries[j].Month
	})

	if months > 0 && len(summaries) > months {
		summaries = summaries[:months]
	}
	return summaries, nil
}

// Recent returns the most recently created donations
func (r *GormDonationRepository) Recent(limit int) ([]models.Donation, error) {
	var donations []models.Donation
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// DistinctCampaignIDsByDonor lists campaigns a donor has completed donations to
func (r *GormDonationRepository) DistinctCampaignIDsByDonor(donorID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Donation{}).
		Where("donor_id = ? AND payment_status = ? AND campaign_id IS NOT NULL", donorID, models.PaymentStatusCompleted).
		Distinct().
		Pluck("campaign_id", &ids).Error
	return ids, err
}

// DistinctOrganisationIDsByDonor lists organisations a donor has completed
// donations to
func (r *GormDonationRepository) DistinctOrganisationIDsByDonor(donorID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Donation{}).
		Where("donor_id = ? AND payment_status = ?", donorID, models.PaymentStatusCompleted).
		Distinct().
		Pluck("organisation_id", &ids).Error
	return ids, err
}
