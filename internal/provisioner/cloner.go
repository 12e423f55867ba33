package provisioner

import (
	"context"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

// Cloner copies the template schema into a new tenant schema and tears
// it back down when provisioning aborts.
//
//go:generate mockgen -source=cloner.go -destination=mock/cloner_mock.go -package=mock
type Cloner interface {
	Clone(ctx context.Context, target string) error
	Drop(ctx context.Context, target string) error
}

type gormCloner struct {
	db *gorm.DB
}

func NewCloner(db *gorm.DB) Cloner {
	return &gormCloner{db: db}
}

// Clone runs the clone_schema() function installed alongside the
// template schema. It copies tables, indexes, constraints and defaults
// but no rows, so a fresh tenant starts empty.
func (c *gormCloner) Clone(ctx context.Context, target string) error {
	if !tenant.ValidSchemaName(target) {
		return gorm.ErrInvalidField
	}
	return c.db.WithContext(ctx).
		Exec("SELECT public.clone_schema(?, ?)", tenant.TemplateSchema, target).Error
}

func (c *gormCloner) Drop(ctx context.Context, target string) error {
	if !tenant.ValidSchemaName(target) {
		return gorm.ErrInvalidField
	}
	// Identifier position; validated charset above, quoted here.
	return c.db.WithContext(ctx).
		Exec(`DROP SCHEMA IF EXISTS "` + target + `" CASCADE`).Error
}
