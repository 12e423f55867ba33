package passwordreset

import (
	"time"

	"github.com/google/uuid"
)

const TokenTTL = 30 * time.Minute

// ResetToken carries the company id alongside the user so the resolver scan
// can recover the owning company from the token row alone.
type ResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (ResetToken) TableName() string {
	return "password_reset_tokens"
}

func (t *ResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
