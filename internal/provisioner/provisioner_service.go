package provisioner

import (
	"context"
	"errors"
	"time"

	"go-saas/internal/aggregator"
	"go-saas/internal/authz"
	provisionererrors "go-saas/internal/provisioner/errors"
	"go-saas/internal/registry"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/tenant"
	"go-saas/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type ProvisionRequest struct {
	CompanyName   string
	Subdomain     string
	Email         string
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
}

type ProvisionResult struct {
	Company *registry.Company
	Owner   *user.User
}

//go:generate mockgen -source=provisioner_service.go -destination=mock/provisioner_service_mock.go -package=mock
type Service interface {
	// Provision registers the company, clones the template schema and
	// seeds the owner account. The registry row goes active only after
	// every step succeeded; a crash mid-way leaves it in creating and
	// invisible to the resolver scan.
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
}

type service struct {
	registryRepo registry.Repository
	userRepo     user.Repository
	cloner       Cloner
	usage        aggregator.Scheduler
	logger       *zap.Logger
}

func NewService(
	registryRepo registry.Repository,
	userRepo user.Repository,
	cloner Cloner,
	usage aggregator.Scheduler,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("provisioner.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioner.service")
	}
	return &service{
		registryRepo: registryRepo,
		userRepo:     userRepo,
		cloner:       cloner,
		usage:        usage,
		logger:       l,
	}
}

func (s *service) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !tenant.ValidSlug(req.Subdomain) {
		return nil, provisionererrors.ErrInvalidSubdomain
	}
	schemaName := tenant.SchemaNameFor(req.Subdomain)

	comp := &registry.Company{
		ID:           uuid.New(),
		Name:         req.CompanyName,
		Subdomain:    req.Subdomain,
		Email:        req.Email,
		SchemaStatus: registry.SchemaStatusCreating,
		Role:         registry.RoleCompany,
	}
	if err := s.registryRepo.Create(ctx, comp); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A failed prior attempt owns the subdomain. Suffix retries
			// would strand it, so that case surfaces distinctly instead of
			// as a retryable collision.
			if existing, lookErr := s.registryRepo.GetBySubdomain(ctx, req.Subdomain); lookErr == nil &&
				existing.SchemaStatus == registry.SchemaStatusFailed {
				return nil, provisionererrors.ErrAlreadyProvisioned
			}
			return nil, provisionererrors.ErrDuplicateSubdomain
		}
		return nil, err
	}

	if err := s.cloner.Clone(ctx, schemaName); err != nil {
		l.Error("schema clone failed",
			zap.String("schema", schemaName),
			zap.String("company_id", comp.ID.String()),
			zap.Error(err),
		)
		s.abort(comp.ID, schemaName)
		return nil, provisionererrors.ErrSchemaCloneFailed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		s.abort(comp.ID, schemaName)
		return nil, provisionererrors.ErrOwnerCreateFailed
	}

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     req.OwnerEmail,
		Name:      req.OwnerName,
		Password:  string(hashed),
		Role:      authz.RoleOwner,
		Active:    true,
	}
	if err := s.userRepo.Create(ctx, schemaName, owner); err != nil {
		l.Error("owner seed failed",
			zap.String("schema", schemaName),
			zap.String("company_id", comp.ID.String()),
			zap.Error(err),
		)
		s.abort(comp.ID, schemaName)
		return nil, provisionererrors.ErrOwnerCreateFailed
	}

	// Activation is the last write. Everything before it is invisible
	// to resolution, so a crash anywhere above leaves no half-tenant in
	// the scan path.
	if err := s.registryRepo.SetSchemaStatus(ctx, comp.ID, registry.SchemaStatusActive, &schemaName); err != nil {
		s.abort(comp.ID, schemaName)
		return nil, err
	}
	comp.SchemaName = &schemaName
	comp.SchemaStatus = registry.SchemaStatusActive

	s.usage.Schedule(ctx, comp.ID.String(), "tenant_provisioned")

	l.Info("tenant provisioned",
		zap.String("schema", schemaName),
		zap.String("company_id", comp.ID.String()),
		zap.String("subdomain", req.Subdomain),
	)
	return &ProvisionResult{Company: comp, Owner: owner}, nil
}

// abort marks the registry row failed and drops whatever part of the
// schema made it in. Both writes are best-effort: the row in failed (or
// creating, if even that write is lost) still never resolves.
func (s *service) abort(companyID uuid.UUID, schemaName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.registryRepo.SetSchemaStatus(ctx, companyID, registry.SchemaStatusFailed, nil); err != nil {
		s.logger.Warn("failed to mark company failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
	}
	if err := s.cloner.Drop(ctx, schemaName); err != nil {
		s.logger.Warn("failed to drop partial schema",
			zap.String("schema", schemaName),
			zap.Error(err),
		)
	}
}
