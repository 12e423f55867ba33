package provisioner_test

import (
	"context"
	"errors"
	"testing"

	"go-saas/internal/provisioner"
	provisionererrors "go-saas/internal/provisioner/errors"
	"go-saas/internal/registry"
	mock_registry "go-saas/internal/registry/mock"
	"go-saas/internal/user"
	mock_user "go-saas/internal/user/mock"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type fakeCloner struct {
	cloneFn func(ctx context.Context, target string) error
	dropped []string
}

func (f *fakeCloner) Clone(ctx context.Context, target string) error {
	if f.cloneFn != nil {
		return f.cloneFn(ctx, target)
	}
	return nil
}

func (f *fakeCloner) Drop(ctx context.Context, target string) error {
	f.dropped = append(f.dropped, target)
	return nil
}

type fakeScheduler struct {
	reasons []string
}

func (f *fakeScheduler) Schedule(ctx context.Context, companyID, reason string) {
	f.reasons = append(f.reasons, reason)
}

func validRequest() provisioner.ProvisionRequest {
	return provisioner.ProvisionRequest{
		CompanyName:   "Acme Corp",
		Subdomain:     "acme",
		Email:         "owner@acme.test",
		OwnerName:     "Ada Owner",
		OwnerEmail:    "owner@acme.test",
		OwnerPassword: "s3cret-pass",
	}
}

func TestProvisionerService_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{}
	sched := &fakeScheduler{}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, sched)

	var createdCompany *registry.Company
	mockRegistry.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *registry.Company) error {
			createdCompany = c
			return nil
		})

	var seededOwner *user.User
	mockUsers.EXPECT().
		Create(gomock.Any(), "ca_acme", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, u *user.User) error {
			seededOwner = u
			return nil
		})

	mockRegistry.EXPECT().
		SetSchemaStatus(gomock.Any(), gomock.Any(), registry.SchemaStatusActive, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, status string, schemaName *string) error {
			assert.NotNil(t, schemaName)
			assert.Equal(t, "ca_acme", *schemaName)
			return nil
		})

	res, err := svc.Provision(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, registry.SchemaStatusCreating, createdCompany.SchemaStatus, "row must start in creating")
	assert.Equal(t, registry.SchemaStatusActive, res.Company.SchemaStatus)
	assert.Equal(t, "ca_acme", *res.Company.SchemaName)
	assert.Equal(t, "owner", seededOwner.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(seededOwner.Password), []byte("s3cret-pass")))
	assert.Empty(t, cloner.dropped)
	assert.Equal(t, []string{"tenant_provisioned"}, sched.reasons)
}

func TestProvisionerService_DuplicateSubdomain(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, &fakeScheduler{})

	mockRegistry.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&pgconn.PgError{Code: "23505"})
	schema := "ca_acme"
	mockRegistry.EXPECT().
		GetBySubdomain(gomock.Any(), "acme").
		Return(&registry.Company{
			Subdomain:    "acme",
			SchemaName:   &schema,
			SchemaStatus: registry.SchemaStatusActive,
		}, nil)

	_, err := svc.Provision(context.Background(), validRequest())

	// Collision is distinguishable from the other failure modes and
	// leaves nothing to clean up.
	assert.ErrorIs(t, err, provisionererrors.ErrDuplicateSubdomain)
	assert.Empty(t, cloner.dropped)
}

func TestProvisionerService_FailedAttemptIsNotRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, &fakeScheduler{})

	mockRegistry.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&pgconn.PgError{Code: "23505"})
	mockRegistry.EXPECT().
		GetBySubdomain(gomock.Any(), "acme").
		Return(&registry.Company{
			Subdomain:    "acme",
			SchemaStatus: registry.SchemaStatusFailed,
		}, nil)

	_, err := svc.Provision(context.Background(), validRequest())

	assert.ErrorIs(t, err, provisionererrors.ErrAlreadyProvisioned)
	assert.Empty(t, cloner.dropped)
}

func TestProvisionerService_InvalidSubdomain(t *testing.T) {
	svc := provisioner.NewService(nil, nil, nil, &fakeScheduler{})

	req := validRequest()
	req.Subdomain = "Not A Slug!"
	_, err := svc.Provision(context.Background(), req)

	assert.ErrorIs(t, err, provisionererrors.ErrInvalidSubdomain)
}

func TestProvisionerService_CloneFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{
		cloneFn: func(ctx context.Context, target string) error {
			return errors.New("clone_schema does not exist")
		},
	}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, &fakeScheduler{})

	mockRegistry.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockRegistry.EXPECT().
		SetSchemaStatus(gomock.Any(), gomock.Any(), registry.SchemaStatusFailed, nil).
		Return(nil)

	_, err := svc.Provision(context.Background(), validRequest())

	assert.ErrorIs(t, err, provisionererrors.ErrSchemaCloneFailed)
	assert.Equal(t, []string{"ca_acme"}, cloner.dropped)
}

func TestProvisionerService_OwnerSeedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, &fakeScheduler{})

	mockRegistry.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockUsers.EXPECT().
		Create(gomock.Any(), "ca_acme", gomock.Any()).
		Return(errors.New("insert failed"))
	mockRegistry.EXPECT().
		SetSchemaStatus(gomock.Any(), gomock.Any(), registry.SchemaStatusFailed, nil).
		Return(nil)

	_, err := svc.Provision(context.Background(), validRequest())

	assert.ErrorIs(t, err, provisionererrors.ErrOwnerCreateFailed)
	assert.Equal(t, []string{"ca_acme"}, cloner.dropped, "partial schema must be dropped")
}

func TestProvisionerService_ActivationFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRegistry := mock_registry.NewMockRepository(ctrl)
	mockUsers := mock_user.NewMockRepository(ctrl)
	cloner := &fakeCloner{}
	svc := provisioner.NewService(mockRegistry, mockUsers, cloner, &fakeScheduler{})

	mockRegistry.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockUsers.EXPECT().Create(gomock.Any(), "ca_acme", gomock.Any()).Return(nil)
	mockRegistry.EXPECT().
		SetSchemaStatus(gomock.Any(), gomock.Any(), registry.SchemaStatusActive, gomock.Any()).
		Return(errors.New("deadlock"))
	mockRegistry.EXPECT().
		SetSchemaStatus(gomock.Any(), gomock.Any(), registry.SchemaStatusFailed, nil).
		Return(nil)

	_, err := svc.Provision(context.Background(), validRequest())

	assert.Error(t, err)
	assert.Equal(t, []string{"ca_acme"}, cloner.dropped)
}
