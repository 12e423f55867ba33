package tenant_test

import (
	"testing"

	"go-saas/internal/tenant"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	assert.True(t, tenant.ValidSlug("acme"))
	assert.True(t, tenant.ValidSlug("acme-2"))
	assert.True(t, tenant.ValidSlug("a"))

	assert.False(t, tenant.ValidSlug(""))
	assert.False(t, tenant.ValidSlug("-acme"))
	assert.False(t, tenant.ValidSlug("acme-"))
	assert.False(t, tenant.ValidSlug("Acme"))
	assert.False(t, tenant.ValidSlug("ac me"))
	assert.False(t, tenant.ValidSlug("acme;drop"))
}

func TestValidSchemaName(t *testing.T) {
	assert.True(t, tenant.ValidSchemaName("public"))
	assert.True(t, tenant.ValidSchemaName("ca_acme"))
	assert.True(t, tenant.ValidSchemaName("ca_acme-2"))

	assert.False(t, tenant.ValidSchemaName("acme"))
	assert.False(t, tenant.ValidSchemaName("ca_"))
	assert.False(t, tenant.ValidSchemaName(`ca_x";drop table users;--`))
	assert.False(t, tenant.ValidSchemaName("pg_catalog"))
}

func TestQualify(t *testing.T) {
	q, err := tenant.Qualify("ca_acme", "users")
	assert.NoError(t, err)
	assert.Equal(t, `"ca_acme"."users"`, q)

	q, err = tenant.Qualify("public", "user_invitations")
	assert.NoError(t, err)
	assert.Equal(t, `"public"."user_invitations"`, q)

	_, err = tenant.Qualify(`ca_x"."evil`, "users")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme", tenant.Slugify("ACME"))
	assert.Equal(t, "acme-corp", tenant.Slugify("Acme Corp!"))
	assert.Equal(t, "acme-2", tenant.Slugify("  acme 2 "))
	assert.Equal(t, "", tenant.Slugify("!!!"))
}

func TestSchemaNameFor(t *testing.T) {
	assert.Equal(t, "ca_acme", tenant.SchemaNameFor("acme"))
}
