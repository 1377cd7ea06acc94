package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/models"
)

type donationRepoTestEnv struct {
	db           *gorm.DB
	donations    DonationRepository
	campaigns    CampaignRepository
	orgs         OrganisationRepository
	organisation *models.Organisation
	campaign     *models.Campaign
	donor        *models.User
}

func setupDonationRepoTestEnv(t *testing.T) donationRepoTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organisation{},
		&models.Campaign{},
		&models.Donation{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	donor := &models.User{Username: "donor", Email: "donor@example.com", PasswordHash: "x", Role: models.RoleDonor, IsActive: true}
	require.NoError(t, db.Create(donor).Error)

	owner := &models.User{Username: "org", Email: "org@example.com", PasswordHash: "x", Role: models.RoleOrganisation, IsActive: true}
	require.NoError(t, db.Create(owner).Error)

	org := &models.Organisation{UserID: owner.ID, Name: "Clean Water Trust", IsVerified: true}
	require.NoError(t, db.Create(org).Error)

	campaign := &models.Campaign{OrganisationID: org.ID, Title: "Wells", GoalAmount: 1000, IsActive: true, Category: "General"}
	require.NoError(t, db.Create(campaign).Error)

	return donationRepoTestEnv{
		db:           db,
		donations:    NewDonationRepository(db),
		campaigns:    NewCampaignRepository(db),
		orgs:         NewOrganisationRepository(db),
		organisation: org,
		campaign:     campaign,
		donor:        donor,
	}
}

func (env donationRepoTestEnv) newPendingDonation(t *testing.T, amount float64) *models.Donation {
	t.Helper()
	suffixCounter++
	donation := &models.Donation{
		DonorID:        env.donor.ID,
		OrganisationID: env.organisation.ID,
		CampaignID:     &env.campaign.ID,
		Amount:         amount,
		PaymentStatus:  models.PaymentStatusPending,
		ReceiptID:      fmt.Sprintf("RCPTEST%06d", suffixCounter),
	}
	require.NoError(t, env.donations.Create(donation))
	return donation
}

var suffixCounter int

func TestDonationRepository_Complete_AppliesAggregates(t *testing.T) {
	env := setupDonationRepoTestEnv(t)
	donation := env.newPendingDonation(t, 250)

	applied, err := env.donations.Complete(donation.ID)
	require.NoError(t, err)
	require.True(t, applied)

	reloaded, err := env.donations.FindByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusCompleted, reloaded.PaymentStatus)

	campaign, err := env.campaigns.FindByID(env.campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, campaign.RaisedAmount)
	require.Equal(t, 25.0, campaign.ProgressPercentage())

	org, err := env.orgs.FindByID(env.organisation.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, org.TotalDonations)
}

func TestDonationRepository_Complete_DuplicateIsNoOp(t *testing.T) {
	env := setupDonationRepoTestEnv(t)
	donation := env.newPendingDonation(t, 250)

	applied, err := env.donations.Complete(donation.ID)
	require.NoError(t, err)
	require.True(t, applied)

	// Duplicate payment callback for the same donation.
	applied, err = env.donations.Complete(donation.ID)
	require.NoError(t, err)
	require.False(t, applied)

	campaign, err := env.campaigns.FindByID(env.campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, campaign.RaisedAmount, "duplicate completion must not double-count")

	org, err := env.orgs.FindByID(env.organisation.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, org.TotalDonations)
}

func TestDonationRepository_Complete_WithoutCampaign(t *testing.T) {
	env := setupDonationRepoTestEnv(t)

	donation := &models.Donation{
		DonorID:        env.donor.ID,
		OrganisationID: env.organisation.ID,
		Amount:         100,
		PaymentStatus:  models.PaymentStatusPending,
		ReceiptID:      "RCPORGLEVEL01",
	}
	require.NoError(t, env.donations.Create(donation))

	applied, err := env.donations.Complete(donation.ID)
	require.NoError(t, err)
	require.True(t, applied)

	campaign, err := env.campaigns.FindByID(env.campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, campaign.RaisedAmount)

	org, err := env.orgs.FindByID(env.organisation.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, org.TotalDonations)
}

func TestDonationRepository_TransitionStatus_NoAggregates(t *testing.T) {
	env := setupDonationRepoTestEnv(t)
	donation := env.newPendingDonation(t, 500)

	applied, err := env.donations.TransitionStatus(donation.ID, models.PaymentStatusFailed)
	require.NoError(t, err)
	require.True(t, applied)

	reloaded, err := env.donations.FindByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, reloaded.PaymentStatus)

	campaign, err := env.campaigns.FindByID(env.campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, campaign.RaisedAmount, "failed payments never reach the aggregates")

	org, err := env.orgs.FindByID(env.organisation.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, org.TotalDonations)
}

func TestDonationRepository_TransitionStatus_AlreadyTerminal(t *testing.T) {
	env := setupDonationRepoTestEnv(t)
	donation := env.newPendingDonation(t, 500)

	applied, err := env.donations.TransitionStatus(donation.ID, models.PaymentStatusFailed)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = env.donations.TransitionStatus(donation.ID, models.PaymentStatusRefunded)
	require.NoError(t, err)
	require.False(t, applied)
}

func TestDonationRepository_SumCompletedByCampaign(t *testing.T) {
	env := setupDonationRepoTestEnv(t)

	first := env.newPendingDonation(t, 100)
	second := env.newPendingDonation(t, 150)
	env.newPendingDonation(t, 999) // stays pending

	_, err := env.donations.Complete(first.ID)
	require.NoError(t, err)
	_, err = env.donations.Complete(second.ID)
	require.NoError(t, err)

	sum, err := env.donations.SumCompletedByCampaign(env.campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, sum)

	orgSum, err := env.donations.SumCompletedByOrganisation(env.organisation.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, orgSum)
}

func TestDonationRepository_CompletedTotalsByDonor(t *testing.T) {
	env := setupDonationRepoTestEnv(t)

	first := env.newPendingDonation(t, 40)
	second := env.newPendingDonation(t, 60)
	_, err := env.donations.Complete(first.ID)
	require.NoError(t, err)
	_, err = env.donations.Complete(second.ID)
	require.NoError(t, err)

	totals, err := env.donations.CompletedTotalsByDonor(env.donor.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, totals.Total)
	require.Equal(t, int64(2), totals.Count)
}

func TestDonationRepository_MonthlySummaries(t *testing.T) {
	env := setupDonationRepoTestEnv(t)

	first := env.newPendingDonation(t, 100)
	second := env.newPendingDonation(t, 50)
	_, err := env.donations.Complete(first.ID)
	require.NoError(t, err)
	_, err = env.donations.Complete(second.ID)
	require.NoError(t, err)

	summaries, err := env.donations.MonthlySummaries(12)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 150.0, summaries[0].Total)
	require.Equal(t, int64(2), summaries[0].Count)
}

// The failure-path tests run against sqlmock so a storage error can be
// injected at a chosen step.

func setupMockedDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func pendingDonationRows(amount float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "donor_id", "organisation_id", "campaign_id", "amount", "payment_status"}).
		AddRow(1, 1, 1, 1, amount, string(models.PaymentStatusPending))
}

func TestDonationRepository_Complete_StatusWriteFailure(t *testing.T) {
	db, mock := setupMockedDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `donations`").WillReturnRows(pendingDonationRows(250))
	mock.ExpectExec("UPDATE `donations` SET").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	applied, err := repo.Complete(1)
	require.False(t, applied)
	require.ErrorIs(t, err, ErrStatusWrite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_Complete_CampaignAggregateFailure(t *testing.T) {
	db, mock := setupMockedDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `donations`").WillReturnRows(pendingDonationRows(250))
	mock.ExpectExec("UPDATE `donations` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `campaigns` SET").WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	applied, err := repo.Complete(1)
	require.False(t, applied)
	require.ErrorIs(t, err, ErrCampaignAggregate, "the error names the step that failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_Complete_OrganisationAggregateFailure(t *testing.T) {
	db, mock := setupMockedDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `donations`").WillReturnRows(pendingDonationRows(250))
	mock.ExpectExec("UPDATE `donations` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `campaigns` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `organisations` SET").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	applied, err := repo.Complete(1)
	require.False(t, applied)
	require.ErrorIs(t, err, ErrOrganisationAggregate)
	require.NoError(t, mock.ExpectationsWereMet())
}
