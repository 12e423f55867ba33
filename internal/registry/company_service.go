package registry

import (
	"context"
	"errors"

	registryerrors "go-saas/internal/registry/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
	ListActiveTenantSchemas(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, registryerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registryerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return mapToResponse(comp), nil
}

func (s *service) GetBySubdomain(ctx context.Context, subdomain string) (*CompanyResponse, error) {
	comp, err := s.repo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registryerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return mapToResponse(comp), nil
}

// Update mutates profile fields only. Schema status and schema name belong
// to the provisioner write path and are never touched here.
func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, registryerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registryerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		comp.Name = req.Name
	}
	if req.Email != "" {
		comp.Email = req.Email
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, err
	}

	return mapToResponse(comp), nil
}

func (s *service) ListActiveTenantSchemas(ctx context.Context) ([]string, error) {
	return s.repo.ListActiveTenantSchemas(ctx)
}

func mapToResponse(c *Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Subdomain:    c.Subdomain,
		Email:        c.Email,
		SchemaStatus: c.SchemaStatus,
		Role:         c.Role,
	}
	if c.SchemaName != nil {
		resp.SchemaName = *c.SchemaName
	}
	return resp
}
