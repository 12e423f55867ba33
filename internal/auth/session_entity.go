package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is the server-side half of a refresh token, stored in the
// owning schema's user_sessions table. Deleting the row revokes the token.
type UserSession struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
