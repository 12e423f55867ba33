package resolver

import (
	"context"
	"errors"
	"time"

	"go-saas/internal/registry"
	resolvererrors "go-saas/internal/resolver/errors"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/tenant"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolution names the schema that owns the data for a request, plus the
// company the schema belongs to.
type Resolution struct {
	SchemaName string
	CompanyID  string
}

//go:generate mockgen -destination=mock/resolver_mock.go -package=mock . Service,Prober

// Service finds the owning schema for an identity hint.
//
// FromClaims is the fast path: requests that carry a verified session token
// embed their schema and must never fall back to the scan. The Resolve*
// methods are the slow path: public first, then every active tenant schema
// in registry order, first match wins. The scan is O(active tenants) per
// call and is only acceptable on low-frequency pre-authentication flows.
type Service interface {
	FromClaims(schema, companyID string) (Resolution, error)
	ResolveEmail(ctx context.Context, email string) (Resolution, error)
	ResolveInvitationToken(ctx context.Context, token string) (Resolution, error)
	ResolveResetToken(ctx context.Context, token string) (Resolution, error)
}

type service struct {
	registryRepo registry.Repository
	prober       Prober
	probeTimeout time.Duration
	logger       *zap.Logger
}

func NewService(registryRepo registry.Repository, prober Prober, logger ...*zap.Logger) Service {
	l := zap.L().Named("resolver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("resolver.service")
	}
	return &service{
		registryRepo: registryRepo,
		prober:       prober,
		probeTimeout: 2 * time.Second,
		logger:       l,
	}
}

// FromClaims trusts the schema embedded in a verified token. No database
// access; the charset check guards against tokens minted before a schema
// was renamed or against a corrupted claim.
func (s *service) FromClaims(schema, companyID string) (Resolution, error) {
	if !tenant.ValidSchemaName(schema) || companyID == "" {
		return Resolution{}, resolvererrors.ErrInvalidSchema
	}
	return Resolution{SchemaName: schema, CompanyID: companyID}, nil
}

func (s *service) ResolveEmail(ctx context.Context, email string) (Resolution, error) {
	return s.scan(ctx, targetUserEmail, email)
}

func (s *service) ResolveInvitationToken(ctx context.Context, token string) (Resolution, error) {
	return s.scan(ctx, targetInvitationToken, token)
}

func (s *service) ResolveResetToken(ctx context.Context, token string) (Resolution, error) {
	return s.scan(ctx, targetResetToken, token)
}

// scan probes public, then every active tenant schema in registry order.
// A schema that is unreachable or missing the probed table is logged and
// skipped; a registry listing failure aborts the whole resolution.
func (s *service) scan(ctx context.Context, target ProbeTarget, value string) (Resolution, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	companyID, found, err := s.probeOne(ctx, tenant.PublicSchema, target, value)
	if err != nil {
		if !skippableProbeError(err) {
			return Resolution{}, err
		}
		l.Warn("schema probe skipped",
			zap.String("schema", tenant.PublicSchema),
			zap.String("table", target.Table),
			zap.Error(err),
		)
	}
	if found {
		return Resolution{SchemaName: tenant.PublicSchema, CompanyID: companyID}, nil
	}

	schemas, err := s.registryRepo.ListActiveTenantSchemas(ctx)
	if err != nil {
		l.Error("list active tenant schemas failed", zap.Error(err))
		return Resolution{}, resolvererrors.ErrRegistryUnavailable
	}

	for _, schema := range schemas {
		_, found, err := s.probeOne(ctx, schema, target, value)
		if err != nil {
			if !skippableProbeError(err) {
				return Resolution{}, err
			}
			l.Warn("schema probe skipped",
				zap.String("schema", schema),
				zap.String("table", target.Table),
				zap.Error(err),
			)
			continue
		}
		if !found {
			continue
		}

		// First match in scan order wins. Cross-schema duplicates are a
		// documented limitation, not something the resolver arbitrates.
		comp, err := s.registryRepo.GetBySchemaName(ctx, schema)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("matched schema missing from registry", zap.String("schema", schema))
				continue
			}
			return Resolution{}, err
		}

		return Resolution{SchemaName: schema, CompanyID: comp.ID.String()}, nil
	}

	return Resolution{}, resolvererrors.ErrNotFound
}

func (s *service) probeOne(ctx context.Context, schema string, target ProbeTarget, value string) (string, bool, error) {
	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	return s.prober.Probe(probeCtx, schema, target, value)
}
