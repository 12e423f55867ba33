package file

import (
	"context"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=file_repo.go -destination=mock/file_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, schema string, f *File) error
	FindByID(ctx context.Context, schema, companyID, id string) (*File, error)
	FindAllByCompany(ctx context.Context, schema, companyID string) ([]File, error)
	Update(ctx context.Context, schema string, f *File) error
	Delete(ctx context.Context, schema, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) table(ctx context.Context, schema string) (*gorm.DB, error) {
	qualified, err := tenant.Qualify(schema, "files")
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(qualified), nil
}

func (r *repository) Create(ctx context.Context, schema string, f *File) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Create(f).Error
}

func (r *repository) FindByID(ctx context.Context, schema, companyID, id string) (*File, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var f File
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *repository) FindAllByCompany(ctx context.Context, schema, companyID string) ([]File, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var files []File
	err = db.Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *repository) Update(ctx context.Context, schema string, f *File) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	// Named columns so zero values (an emptied name, a reset size) still
	// persist; a bare struct update would skip them.
	return db.Where("id = ?", f.ID).
		Select("name", "size_bytes", "status").
		Updates(f).Error
}

func (r *repository) Delete(ctx context.Context, schema, companyID, id string) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}

	res := db.Scopes(tenant.Scope(companyID)).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", gorm.Expr("now()"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
