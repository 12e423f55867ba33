package registry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SchemaStatusCreating = "creating"
	SchemaStatusActive   = "active"
	SchemaStatusFailed   = "failed"
)

const (
	RoleCompany = "company"
	RolePartner = "partner"
)

// Company is the catalogue row for one customer. Companies with role
// "company" own a dedicated tenant schema once active; partners are scoped
// by company_id inside public and never get a schema.
type Company struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string         `gorm:"type:varchar(150);not null"`
	Subdomain       string         `gorm:"type:varchar(63);not null;uniqueIndex"`
	Email           string         `gorm:"type:varchar(255);index"`
	SchemaName      *string        `gorm:"type:varchar(63)"`
	SchemaStatus    string         `gorm:"type:varchar(20);not null;default:creating;index"`
	Role            string         `gorm:"type:varchar(20);not null;default:company"`
	ParentCompanyID *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt       time.Time      `gorm:"not null;default:now()"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}

// HasSchema reports whether the company owns a queryable tenant schema.
func (c *Company) HasSchema() bool {
	return c.Role == RoleCompany && c.SchemaStatus == SchemaStatusActive && c.SchemaName != nil
}
