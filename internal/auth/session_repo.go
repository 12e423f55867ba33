package auth

import (
	"context"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type SessionRepository interface {
	Create(ctx context.Context, schema string, session *UserSession) error
	FindByID(ctx context.Context, schema, id string) (*UserSession, error)
	Delete(ctx context.Context, schema, id string) error
	DeleteByUser(ctx context.Context, schema, userID string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) table(ctx context.Context, schema string) (*gorm.DB, error) {
	qualified, err := tenant.Qualify(schema, "user_sessions")
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(qualified), nil
}

func (r *sessionRepository) Create(ctx context.Context, schema string, session *UserSession) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Create(session).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, schema, id string) (*UserSession, error) {
	db, err := r.table(ctx, schema)
	if err != nil {
		return nil, err
	}

	var session UserSession
	err = db.Where("expires_at > now()").First(&session, "id = ?", id).Error
	return &session, err
}

func (r *sessionRepository) Delete(ctx context.Context, schema, id string) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&UserSession{}).Error
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, schema, userID string) error {
	db, err := r.table(ctx, schema)
	if err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&UserSession{}).Error
}
