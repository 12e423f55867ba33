package invitation

import (
	"context"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=invitation_repo.go -destination=mock/invitation_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, schema string, inv *Invitation) error
	FindByID(ctx context.Context, schema, companyID, id string) (*Invitation, error)
	FindByToken(ctx context.Context, schema, token string) (*Invitation, error)
	FindPendingByEmail(ctx context.Context, schema, companyID, email string) (*Invitation, error)
	FindAllByCompany(ctx context.Context, schema, companyID string) ([]Invitation, error)
	Update(ctx context.Context, schema string, inv *Invitation) error
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

func (r *repository) table(ctx context.Context, schema string) (*gorm.DB, error) {
	qualified, err := tenant.Qualify(schema, "user_invitations")
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(qualified), nil
}

func (r *repository) Create(ctx context.Context, schema string, inv *Invitation) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Create(inv).Error
}

func (r *repository) FindByID(ctx context.Context, schema, companyID, id string) (*Invitation, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindByToken(ctx context.Context, schema, token string) (*Invitation, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	err = db.Where("deleted_at IS NULL").First(&inv, "token = ?", token).Error
	return &inv, err
}

func (r *repository) FindPendingByEmail(ctx context.Context, schema, companyID, email string) (*Invitation, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var inv Invitation
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Where("status = ?", StatusPending).
		Where("expires_at > now()").
		First(&inv, "email = ?", email).Error
	return &inv, err
}

func (r *repository) FindAllByCompany(ctx context.Context, schema, companyID string) ([]Invitation, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var invs []Invitation
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repository) Update(ctx context.Context, schema string, inv *Invitation) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	// Named columns so zero values still persist; a bare struct update
	// would skip them.
	return db.Where("id = ?", inv.ID).
		Select("status", "token", "expires_at").
		Updates(inv).Error
}
