package registry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Company, error)
	GetByEmail(ctx context.Context, email string) (*Company, error)
	GetBySchemaName(ctx context.Context, schemaName string) (*Company, error)
	Update(ctx context.Context, company *Company) error

	// ListActiveTenantSchemas returns the schema names of all active
	// companies in creation order. Mid-provisioning (creating) and failed
	// companies are invisible here.
	ListActiveTenantSchemas(ctx context.Context) ([]string, error)

	// SetSchemaStatus flips the provisioning status. It writes only the
	// schema columns in a single statement, so it cannot clobber a racing
	// profile update and vice versa.
	SetSchemaStatus(ctx context.Context, id uuid.UUID, status string, schemaName *string) error

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	return &company, err
}

func (r *repository) GetBySubdomain(ctx context.Context, subdomain string) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&company).Error
	return &company, err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&company).Error
	return &company, err
}

func (r *repository) GetBySchemaName(ctx context.Context, schemaName string) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).Where("schema_name = ?", schemaName).First(&company).Error
	return &company, err
}

// Update persists profile fields only. The schema columns stay out of the
// statement so a profile edit can never undo a concurrent activation.
func (r *repository) Update(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).
		Model(company).
		Select("name", "email").
		Updates(company).Error
}

func (r *repository) ListActiveTenantSchemas(ctx context.Context) ([]string, error) {
	var schemas []string

	err := r.db.WithContext(ctx).
		Model(&Company{}).
		Where("schema_status = ? AND schema_name IS NOT NULL", SchemaStatusActive).
		Order("created_at ASC").
		Pluck("schema_name", &schemas).Error

	return schemas, err
}

func (r *repository) SetSchemaStatus(ctx context.Context, id uuid.UUID, status string, schemaName *string) error {
	updates := map[string]interface{}{
		"schema_status": status,
		"updated_at":    gorm.Expr("now()"),
	}
	if schemaName != nil {
		updates["schema_name"] = *schemaName
	}

	res := r.db.WithContext(ctx).
		Model(&Company{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
