package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/webhook"
)

type campaignServiceTestEnv struct {
	db         *gorm.DB
	service    *CampaignService
	orgService *OrganisationService
	recorder   *webhook.Recorder
	owner      *models.User
	admin      *models.User
	org        *models.Organisation
}

func setupCampaignServiceTestEnv(t *testing.T) campaignServiceTestEnv {
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

	owner := &models.User{Username: "foodbank", Email: "foodbank@example.com", PasswordHash: "x", Role: models.RoleOrganisation, IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	admin := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(admin).Error)

	org := &models.Organisation{UserID: owner.ID, Name: "Food Bank"}
	require.NoError(t, db.Create(org).Error)

	recorder := webhook.NewRecorder()
	campaignRepo := repository.NewCampaignRepository(db)
	orgRepo := repository.NewOrganisationRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	userRepo := repository.NewUserRepository(db)

	return campaignServiceTestEnv{
		db:         db,
		service:    NewCampaignService(campaignRepo, orgRepo, recorder),
		orgService: NewOrganisationService(orgRepo, campaignRepo, donationRepo, userRepo, recorder),
		recorder:   recorder,
		owner:      owner,
		admin:      admin,
		org:        org,
	}
}

func TestCampaignService_CreateCampaign_RequiresVerification(t *testing.T) {
	env := setupCampaignServiceTestEnv(t)

	_, err := env.service.CreateCampaign(env.owner, CreateCampaignInput{
		Title:      "School Lunches",
		GoalAmount: 5000,
	})
	require.ErrorIs(t, err, ErrOrganisationNotVerified)

	var count int64
	require.NoError(t, env.db.Model(&models.Campaign{}).Count(&count).Error)
	require.Zero(t, count, "rejected creation writes nothing")

	// After approval the same request succeeds.
	require.NoError(t, env.orgService.VerifyOrganisation(env.admin, env.org.ID, VerificationActionApprove, ""))

	campaign, err := env.service.CreateCampaign(env.owner, CreateCampaignInput{
		Title:      "School Lunches",
		GoalAmount: 5000,
	})
	require.NoError(t, err)
	require.True(t, campaign.IsActive)
	require.Equal(t, "General", campaign.Category)

	events := env.recorder.ByType(webhook.EventCampaignCreated)
	require.Len(t, events, 1)
	require.Equal(t, "School Lunches", events[0].Data["title"])
	require.Equal(t, "Food Bank", events[0].Data["organisation_name"])
}

func TestCampaignService_CreateCampaign_Validation(t *testing.T) {
	env := setupCampaignServiceTestEnv(t)
	require.NoError(t, env.orgService.VerifyOrganisation(env.admin, env.org.ID, VerificationActionApprove, ""))

	_, err := env.service.CreateCampaign(env.owner, CreateCampaignInput{Title: "", GoalAmount: 100})
	require.ErrorIs(t, err, ErrCampaignTitleRequired)

	_, err = env.service.CreateCampaign(env.owner, CreateCampaignInput{Title: "x", GoalAmount: 0})
	require.ErrorIs(t, err, ErrInvalidGoalAmount)

	donor := &models.User{ID: 999, Role: models.RoleDonor}
	_, err = env.service.CreateCampaign(donor, CreateCampaignInput{Title: "x", GoalAmount: 100})
	require.ErrorIs(t, err, ErrOrganisationRoleRequired)
}

func TestCampaignService_ListActive_CategoryFilter(t *testing.T) {
	env := setupCampaignServiceTestEnv(t)
	require.NoError(t, env.orgService.VerifyOrganisation(env.admin, env.org.ID, VerificationActionApprove, ""))

	_, err := env.service.CreateCampaign(env.owner, CreateCampaignInput{Title: "Meals", GoalAmount: 100, Category: "Food"})
	require.NoError(t, err)
	_, err = env.service.CreateCampaign(env.owner, CreateCampaignInput{Title: "Books", GoalAmount: 100, Category: "Education"})
	require.NoError(t, err)

	campaigns, total, err := env.service.ListActive("food", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Meals", campaigns[0].Title)

	_, total, err = env.service.ListActive("all", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestCampaignService_GetCampaign_PreloadsOrganisation(t *testing.T) {
	env := setupCampaignServiceTestEnv(t)
	require.NoError(t, env.orgService.VerifyOrganisation(env.admin, env.org.ID, VerificationActionApprove, ""))

	created, err := env.service.CreateCampaign(env.owner, CreateCampaignInput{Title: "Meals", GoalAmount: 100})
	require.NoError(t, err)

	campaign, err := env.service.GetCampaign(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Food Bank", campaign.Organisation.Name)

	_, err = env.service.GetCampaign(99999)
	require.ErrorIs(t, err, ErrCampaignNotFound)
}
