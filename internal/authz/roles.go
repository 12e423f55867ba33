package authz

const (
	RoleSuperAdmin   = "super_admin"
	RolePartnerAdmin = "partner_admin"
	RoleOwner        = "owner"
	RoleCompanyAdmin = "company_admin"
	RoleTeamMember   = "team_member"
	RoleVendorOwner  = "vendor_owner"
	RoleVendorUser   = "vendor_user"
)

// hierarchyEdges lists the direct role inheritances. The hierarchy is fixed
// at build time; there is no per-company policy storage.
var hierarchyEdges = [][2]string{
	{RoleOwner, RoleCompanyAdmin},
	{RoleCompanyAdmin, RoleTeamMember},
	{RoleVendorOwner, RoleVendorUser},
	{RoleSuperAdmin, RoleOwner},
	{RoleSuperAdmin, RolePartnerAdmin},
	{RoleSuperAdmin, RoleVendorOwner},
}

func AllRoles() []string {
	return []string{
		RoleSuperAdmin,
		RolePartnerAdmin,
		RoleOwner,
		RoleCompanyAdmin,
		RoleTeamMember,
		RoleVendorOwner,
		RoleVendorUser,
	}
}

func ValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
