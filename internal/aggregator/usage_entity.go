package aggregator

// CompanyUsage is one row of the public.company_usage materialized view:
// the per-company usage summary computed across public and every active
// tenant schema. Read-mostly; consumers must tolerate the staleness window
// between a mutation and the next refresh.
type CompanyUsage struct {
	CompanyID          string `json:"company_id" gorm:"column:company_id"`
	ActiveUserCount    int64  `json:"active_user_count" gorm:"column:active_user_count"`
	FileSizeTotalBytes int64  `json:"file_size_total_bytes" gorm:"column:file_size_total_bytes"`
}

func (CompanyUsage) TableName() string {
	return "company_usage"
}
