package user

import (
	"context"

	"go-saas/internal/authz"
	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, schema string, u *User) error
	FindByID(ctx context.Context, schema, companyID, id string) (*User, error)
	FindByEmail(ctx context.Context, schema, email string) (*User, error)
	FindOwner(ctx context.Context, schema, companyID string) (*User, error)
	FindAllByCompany(ctx context.Context, schema, companyID string) ([]User, error)
	Update(ctx context.Context, schema string, u *User) error
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
	qualified, err := tenant.Qualify(schema, "users")
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(qualified), nil
}

func (r *repository) Create(ctx context.Context, schema string, u *User) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, schema, companyID, id string) (*User, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var u User
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, schema, email string) (*User, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var u User
	err = db.Where("deleted_at IS NULL").First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindOwner(ctx context.Context, schema, companyID string) (*User, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var u User
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&u, "role = ?", authz.RoleOwner).Error
	return &u, err
}

func (r *repository) FindAllByCompany(ctx context.Context, schema, companyID string) ([]User, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var users []User
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, schema string, u *User) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	// A bare struct update drops zero-value fields, which would turn
	// deactivation (active=false) into a no-op. The mutable columns are
	// named explicitly instead.
	return db.Where("id = ?", u.ID).
		Select("email", "name", "password", "role", "active").
		Updates(u).Error
}
