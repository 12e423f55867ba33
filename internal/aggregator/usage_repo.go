package aggregator

import (
	"context"
	"fmt"
	"strings"

	"go-saas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/usage_repo_mock.go -package=mock . Repository
type Repository interface {
	GetUsage(ctx context.Context, companyID string) (*CompanyUsage, error)

	// RebuildSourceView redefines the view the materialized view reads
	// from, unioning public plus the given tenant schemas.
	RebuildSourceView(ctx context.Context, schemas []string) error

	// RefreshMaterializedView re-runs the stored query. CONCURRENTLY keeps
	// readers on the previous snapshot until the swap.
	RefreshMaterializedView(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUsage(ctx context.Context, companyID string) (*CompanyUsage, error) {
	var usage CompanyUsage
	err := r.db.WithContext(ctx).
		Table("public.company_usage").
		Where("company_id = ?", companyID).
		First(&usage).Error
	return &usage, err
}

func (r *repository) RebuildSourceView(ctx context.Context, schemas []string) error {
	all := append([]string{tenant.PublicSchema}, schemas...)

	parts := make([]string, 0, len(all)*2)
	for _, schema := range all {
		users, err := tenant.Qualify(schema, "users")
		if err != nil {
			return fmt.Errorf("rebuild usage view: %w", err)
		}
		files, err := tenant.Qualify(schema, "files")
		if err != nil {
			return fmt.Errorf("rebuild usage view: %w", err)
		}

		parts = append(parts, fmt.Sprintf(
			`SELECT company_id, COUNT(*)::bigint AS active_user_count, 0::bigint AS file_size_total_bytes
FROM %s WHERE active AND deleted_at IS NULL GROUP BY company_id`, users))
		parts = append(parts, fmt.Sprintf(
			`SELECT company_id, 0::bigint, COALESCE(SUM(size_bytes), 0)::bigint
FROM %s WHERE status = 'uploaded' AND deleted_at IS NULL GROUP BY company_id`, files))
	}

	stmt := fmt.Sprintf(`
CREATE OR REPLACE VIEW public.company_usage_source AS
SELECT company_id,
       SUM(active_user_count)::bigint AS active_user_count,
       SUM(file_size_total_bytes)::bigint AS file_size_total_bytes
FROM (
%s
) AS usage_parts
GROUP BY company_id
`, strings.Join(parts, "\nUNION ALL\n"))

	return r.db.WithContext(ctx).Exec(stmt).Error
}

func (r *repository) RefreshMaterializedView(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY public.company_usage").Error
}
