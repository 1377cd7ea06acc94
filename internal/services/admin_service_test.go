package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
)

type adminServiceTestEnv struct {
	db       *gorm.DB
	service  *AdminService
	admin    *models.User
	donor    *models.User
	org      *models.Organisation
	campaign *models.Campaign
}

func setupAdminServiceTestEnv(t *testing.T) adminServiceTestEnv {
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

	admin := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(admin).Error)
	donor := &models.User{Username: "donor", Email: "donor@example.com", PasswordHash: "x", Role: models.RoleDonor, IsActive: true}
	require.NoError(t, db.Create(donor).Error)
	owner := &models.User{Username: "org", Email: "org@example.com", PasswordHash: "x", Role: models.RoleOrganisation, IsActive: true}
	require.NoError(t, db.Create(owner).Error)

	org := &models.Organisation{UserID: owner.ID, Name: "Relief Fund", IsVerified: true}
	require.NoError(t, db.Create(org).Error)
	campaign := &models.Campaign{OrganisationID: org.ID, Title: "Flood Relief", GoalAmount: 10000, IsActive: true, Category: "General"}
	require.NoError(t, db.Create(campaign).Error)

	service := NewAdminService(
		repository.NewUserRepository(db),
		repository.NewOrganisationRepository(db),
		repository.NewCampaignRepository(db),
		repository.NewDonationRepository(db),
		zap.NewNop(),
	)

	return adminServiceTestEnv{
		db:       db,
		service:  service,
		admin:    admin,
		donor:    donor,
		org:      org,
		campaign: campaign,
	}
}

func (env adminServiceTestEnv) completedDonation(t *testing.T, amount float64, receipt string) {
	t.Helper()
	donation := &models.Donation{
		DonorID:        env.donor.ID,
		OrganisationID: env.org.ID,
		CampaignID:     &env.campaign.ID,
		Amount:         amount,
		PaymentStatus:  models.PaymentStatusCompleted,
		ReceiptID:      receipt,
	}
	require.NoError(t, env.db.Create(donation).Error)
}

func TestAdminService_GetPlatformStats(t *testing.T) {
	env := setupAdminServiceTestEnv(t)
	env.completedDonation(t, 100, "RCPSTATS00001")
	env.completedDonation(t, 50, "RCPSTATS00002")

	stats, err := env.service.GetPlatformStats(env.admin)
	require.NoError(t, err)

	require.Equal(t, int64(3), stats.TotalUsers)
	require.Equal(t, int64(1), stats.TotalOrganisations)
	require.Equal(t, int64(0), stats.PendingVerifications)
	require.Equal(t, int64(1), stats.TotalCampaigns)
	require.Equal(t, 150.0, stats.TotalDonated)
	require.Equal(t, int64(2), stats.DonationCount)
	require.Len(t, stats.RecentDonations, 2)
}

func TestAdminService_AccessGuards(t *testing.T) {
	env := setupAdminServiceTestEnv(t)

	_, err := env.service.GetPlatformStats(env.donor)
	require.ErrorIs(t, err, ErrAdminRequired)

	_, _, err = env.service.ListUsers(env.donor, 1, 20)
	require.ErrorIs(t, err, ErrAdminRequired)

	_, err = env.service.ReconcileAggregates(env.donor)
	require.ErrorIs(t, err, ErrAdminRequired)
}

func TestAdminService_ListOrganisations_StatusFilter(t *testing.T) {
	env := setupAdminServiceTestEnv(t)

	pendingOwner := &models.User{Username: "new", Email: "new@example.com", PasswordHash: "x", Role: models.RoleOrganisation, IsActive: true}
	require.NoError(t, env.db.Create(pendingOwner).Error)
	require.NoError(t, env.db.Create(&models.Organisation{UserID: pendingOwner.ID, Name: "New Org"}).Error)

	_, total, err := env.service.ListOrganisations(env.admin, "all", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	orgs, total, err := env.service.ListOrganisations(env.admin, "pending", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "New Org", orgs[0].Name)

	_, total, err = env.service.ListOrganisations(env.admin, "verified", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, _, err = env.service.ListOrganisations(env.admin, "bogus", 1, 20)
	require.ErrorIs(t, err, ErrInvalidStatusFilter)
}

func TestAdminService_GetFinancialReport(t *testing.T) {
	env := setupAdminServiceTestEnv(t)
	env.completedDonation(t, 300, "RCPFIN0000001")

	report, err := env.service.GetFinancialReport(env.admin)
	require.NoError(t, err)

	require.Equal(t, 300.0, report.TotalDonated)
	require.Equal(t, int64(1), report.DonationCount)
	require.Len(t, report.MonthlySummaries, 1)
	require.Equal(t, 300.0, report.MonthlySummaries[0].Total)
	require.NotEmpty(t, report.TopCampaigns)
	require.NotEmpty(t, report.TopOrganisations)
}

func TestAdminService_ReconcileAggregates(t *testing.T) {
	env := setupAdminServiceTestEnv(t)
	env.completedDonation(t, 100, "RCPRECON00001")
	env.completedDonation(t, 60, "RCPRECON00002")

	// The ledger says 160 but both aggregates have drifted.
	require.NoError(t, env.db.Model(&models.Campaign{}).Where("id = ?", env.campaign.ID).
		UpdateColumn("raised_amount", 320.0).Error)
	require.NoError(t, env.db.Model(&models.Organisation{}).Where("id = ?", env.org.ID).
		UpdateColumn("total_donations", 0.0).Error)

	repairs, err := env.service.ReconcileAggregates(env.admin)
	require.NoError(t, err)
	require.Len(t, repairs, 2)

	var campaign models.Campaign
	require.NoError(t, env.db.First(&campaign, env.campaign.ID).Error)
	require.Equal(t, 160.0, campaign.RaisedAmount)

	var org models.Organisation
	require.NoError(t, env.db.First(&org, env.org.ID).Error)
	require.Equal(t, 160.0, org.TotalDonations)

	// A second run finds nothing to repair.
	repairs, err = env.service.ReconcileAggregates(env.admin)
	require.NoError(t, err)
	require.Empty(t, repairs)
}
