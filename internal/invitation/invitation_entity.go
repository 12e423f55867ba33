package invitation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCancelled = "cancelled"
)

// DefaultTTL bounds how long an invitation stays redeemable. Expiry is
// derived from ExpiresAt at read time rather than stored as a status so
// a stale row never needs a sweeper to become unusable.
const DefaultTTL = 7 * 24 * time.Hour

type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null;index"`
	Role      string    `gorm:"not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	Status    string    `gorm:"not null;default:pending"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Invitation) TableName() string {
	return "user_invitations"
}

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Redeemable reports whether Accept may still run against this row.
func (i *Invitation) Redeemable(now time.Time) bool {
	return i.Status == StatusPending && !i.Expired(now)
}
