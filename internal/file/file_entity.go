package file

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusUploaded = "uploaded"
)

// File is metadata only; bytes live in object storage keyed by ID.
// Only rows in uploaded status count toward company usage totals.
type File struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	Name       string    `gorm:"not null"`
	SizeBytes  int64     `gorm:"not null"`
	Status     string    `gorm:"not null;default:pending"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (File) TableName() string {
	return "files"
}
