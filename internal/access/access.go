// Package access holds the role/operation permission table. Ownership checks
// (a donor reading their own donation) live in the services; this package only
// answers whether a role may attempt an operation at all.
package access

import "github.com/givestream/donation-platform/internal/models"

type Operation string

const (
	OpDonate              Operation = "donate"
	OpViewOwnDonations    Operation = "view_own_donations"
	OpUpdateOwnProfile    Operation = "update_own_profile"
	OpCreateOrganisation  Operation = "create_organisation"
	OpCreateCampaign      Operation = "create_campaign"
	OpViewOrgDashboard    Operation = "view_org_dashboard"
	OpVerifyOrganisation  Operation = "verify_organisation"
	OpViewPlatformStats   Operation = "view_platform_stats"
	OpListAllUsers        Operation = "list_all_users"
	OpReconcileAggregates Operation = "reconcile_aggregates"
)

var permissions = map[models.UserRole]map[Operation]bool{
	models.RoleDonor: {
		OpDonate:           true,
		OpViewOwnDonations: true,
		OpUpdateOwnProfile: true,
	},
	models.RoleOrganisation: {
		OpCreateOrganisation: true,
		OpCreateCampaign:     true,
		OpViewOrgDashboard:   true,
		OpUpdateOwnProfile:   true,
	},
	models.RoleAdmin: {
		OpVerifyOrganisation:  true,
		OpViewPlatformStats:   true,
		OpListAllUsers:        true,
		OpReconcileAggregates: true,
		OpUpdateOwnProfile:    true,
	},
}

// Allowed reports whether a role may perform an operation.
func Allowed(role models.UserRole, op Operation) bool {
	return permissions[role][op]
}
