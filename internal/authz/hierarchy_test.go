package authz_test

import (
	"testing"

	"go-saas/internal/authz"

	"github.com/stretchr/testify/assert"
)

func TestRoleHierarchy_AllowedRoles(t *testing.T) {
	h, err := authz.NewRoleHierarchy()
	assert.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{authz.RoleOwner, authz.RoleCompanyAdmin, authz.RoleTeamMember},
		h.AllowedRoles(authz.RoleOwner),
	)

	assert.ElementsMatch(t,
		[]string{authz.RoleCompanyAdmin, authz.RoleTeamMember},
		h.AllowedRoles(authz.RoleCompanyAdmin),
	)

	assert.ElementsMatch(t,
		[]string{authz.RoleTeamMember},
		h.AllowedRoles(authz.RoleTeamMember),
	)

	assert.ElementsMatch(t,
		[]string{authz.RoleVendorOwner, authz.RoleVendorUser},
		h.AllowedRoles(authz.RoleVendorOwner),
	)
}

func TestRoleHierarchy_Allows(t *testing.T) {
	h, err := authz.NewRoleHierarchy()
	assert.NoError(t, err)

	assert.True(t, h.Allows(authz.RoleOwner, authz.RoleOwner))
	assert.True(t, h.Allows(authz.RoleOwner, authz.RoleTeamMember))
	assert.True(t, h.Allows(authz.RoleSuperAdmin, authz.RoleCompanyAdmin))

	assert.False(t, h.Allows(authz.RoleTeamMember, authz.RoleOwner))
	assert.False(t, h.Allows(authz.RolePartnerAdmin, authz.RoleCompanyAdmin))
	assert.False(t, h.Allows(authz.RoleVendorUser, authz.RoleVendorOwner))
}

func TestValidRole(t *testing.T) {
	assert.True(t, authz.ValidRole(authz.RoleOwner))
	assert.False(t, authz.ValidRole("root"))
}
