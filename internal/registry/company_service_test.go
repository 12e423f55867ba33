package registry_test

import (
	"context"
	"testing"

	"go-saas/internal/registry"
	registryerrors "go-saas/internal/registry/errors"
	mock_registry "go-saas/internal/registry/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func setupRegistry(t *testing.T) (*mock_registry.MockRepository, registry.Service) {
	ctrl := gomock.NewController(t)
	repo := mock_registry.NewMockRepository(ctrl)
	return repo, registry.NewService(repo)
}

func TestCompanyService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setupRegistry(t)
		id := uuid.New()
		schema := "ca_acme"

		repo.EXPECT().
			GetByID(ctx, id).
			Return(&registry.Company{
				ID:           id,
				Name:         "Acme",
				Subdomain:    "acme",
				SchemaName:   &schema,
				SchemaStatus: registry.SchemaStatusActive,
				Role:         registry.RoleCompany,
			}, nil)

		resp, err := svc.GetByID(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "ca_acme", resp.SchemaName)
		assert.Equal(t, registry.SchemaStatusActive, resp.SchemaStatus)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, svc := setupRegistry(t)
		_, err := svc.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, registryerrors.ErrInvalidCompanyID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, svc := setupRegistry(t)
		id := uuid.New()

		repo.EXPECT().GetByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, id.String())
		assert.ErrorIs(t, err, registryerrors.ErrCompanyNotFound)
	})
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupRegistry(t)
	id := uuid.New()
	schema := "ca_acme"

	comp := &registry.Company{
		ID:           id,
		Name:         "Acme",
		Email:        "old@acme.com",
		Subdomain:    "acme",
		SchemaName:   &schema,
		SchemaStatus: registry.SchemaStatusActive,
		Role:         registry.RoleCompany,
	}

	repo.EXPECT().GetByID(ctx, id).Return(comp, nil)
	repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *registry.Company) error {
			assert.Equal(t, "Acme Corp", c.Name)
			assert.Equal(t, "old@acme.com", c.Email)
			// Schema fields never move through the profile update path.
			assert.Equal(t, registry.SchemaStatusActive, c.SchemaStatus)
			assert.Equal(t, "ca_acme", *c.SchemaName)
			return nil
		})

	resp, err := svc.Update(ctx, id.String(), registry.UpdateCompanyRequest{Name: "Acme Corp"})
	assert.NoError(t, err)
	assert.Equal(t, "Acme Corp", resp.Name)
}

func TestCompanyService_ListActiveTenantSchemas(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupRegistry(t)

	repo.EXPECT().
		ListActiveTenantSchemas(ctx).
		Return([]string{"ca_alpha", "ca_bravo"}, nil)

	schemas, err := svc.ListActiveTenantSchemas(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ca_alpha", "ca_bravo"}, schemas)
}
