package resolver

import (
	"context"
	"errors"
	"fmt"

	"go-saas/internal/tenant"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Probe targets. The table/column pairs used in probe query text are fixed
// here; only the schema identifier varies, and it is validated against the
// registry charset before it reaches the query.
type ProbeTarget struct {
	Table  string
	Column string
	// Filter is appended verbatim to restrict to live rows.
	Filter string
}

var (
	targetUserEmail = ProbeTarget{
		Table:  "users",
		Column: "email",
		Filter: "AND deleted_at IS NULL",
	}
	targetInvitationToken = ProbeTarget{
		Table:  "user_invitations",
		Column: "token",
		Filter: "",
	}
	targetResetToken = ProbeTarget{
		Table:  "password_reset_tokens",
		Column: "token",
		Filter: "",
	}
)

// Prober runs a single existence probe against one schema. The returned
// companyID is the row's company_id; tenant-schema callers usually discard
// it in favor of the registry mapping.
type Prober interface {
	Probe(ctx context.Context, schema string, target ProbeTarget, value string) (companyID string, found bool, err error)
}

type gormProber struct {
	db *gorm.DB
}

func NewProber(db *gorm.DB) Prober {
	return &gormProber{db: db}
}

func (p *gormProber) Probe(ctx context.Context, schema string, target ProbeTarget, value string) (string, bool, error) {
	qualified, err := tenant.Qualify(schema, target.Table)
	if err != nil {
		return "", false, err
	}

	query := fmt.Sprintf(
		"SELECT company_id::text AS company_id FROM %s WHERE %s = ? %s LIMIT 1",
		qualified, target.Column, target.Filter,
	)

	var row struct {
		CompanyID string
	}

	err = p.db.WithContext(ctx).Raw(query, value).Scan(&row).Error
	if err != nil {
		return "", false, err
	}

	if row.CompanyID == "" {
		return "", false, nil
	}
	return row.CompanyID, true, nil
}

// Postgres error codes for a schema that is missing or half-built.
const (
	pgInvalidSchemaName = "3F000"
	pgUndefinedTable    = "42P01"
	pgUndefinedColumn   = "42703"
)

// skippableProbeError reports whether a probe failure should be treated as
// "no match in this schema" rather than aborting the whole scan.
func skippableProbeError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidSchemaName, pgUndefinedTable, pgUndefinedColumn:
			return true
		}
	}
	return false
}
