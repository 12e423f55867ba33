package passwordreset

import (
	"context"
	"time"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=reset_repo.go -destination=mock/reset_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, schema string, t *ResetToken) error
	FindByToken(ctx context.Context, schema, token string) (*ResetToken, error)
	MarkUsed(ctx context.Context, schema string, id string, usedAt time.Time) error
	DeleteByUser(ctx context.Context, schema, userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) table(ctx context.Context, schema string) (*gorm.DB, error) {
	qualified, err := tenant.Qualify(schema, "password_reset_tokens")
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(qualified), nil
}

func (r *repository) Create(ctx context.Context, schema string, t *ResetToken) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Create(t).Error
}

func (r *repository) FindByToken(ctx context.Context, schema, token string) (*ResetToken, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var t ResetToken
	err = db.First(&t, "token = ?", token).Error
	return &t, err
}

func (r *repository) MarkUsed(ctx context.Context, schema string, id string, usedAt time.Time) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}

	// Guarding on used_at makes consumption first-wins under races.
	res := db.Where("id = ? AND used_at IS NULL", id).Update("used_at", usedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteByUser(ctx context.Context, schema, userID string) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&ResetToken{}).Error
}
