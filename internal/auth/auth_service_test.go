package auth_test

import (
	"context"
	"testing"
	"time"

	"go-saas/internal/auth"
	autherrors "go-saas/internal/auth/errors"
	"go-saas/internal/authz"
	"go-saas/internal/registry"
	mock_registry "go-saas/internal/registry/mock"
	"go-saas/internal/resolver"
	mock_resolver "go-saas/internal/resolver/mock"
	"go-saas/internal/user"
	mock_user "go-saas/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeSessionRepo struct {
	sessions map[string]*auth.UserSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*auth.UserSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, schema string, s *auth.UserSession) error {
	f.sessions[s.ID.String()] = s
	return nil
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, schema, id string) (*auth.UserSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, schema, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteByUser(ctx context.Context, schema, userID string) error {
	for id, s := range f.sessions {
		if s.UserID.String() == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

type authDeps struct {
	registryRepo *mock_registry.MockRepository
	userRepo     *mock_user.MockRepository
	resolver     *mock_resolver.MockService
	sessions     *fakeSessionRepo
	service      auth.Service
}

func setupAuth(t *testing.T) *authDeps {
	ctrl := gomock.NewController(t)
	roles, err := authz.NewRoleHierarchy()
	assert.NoError(t, err)

	registryRepo := mock_registry.NewMockRepository(ctrl)
	userRepo := mock_user.NewMockRepository(ctrl)
	resolverMock := mock_resolver.NewMockService(ctrl)
	sessions := newFakeSessionRepo()
	issuer := auth.NewIssuer([]byte("unit-test-secret"), roles)

	svc := auth.NewService(issuer, roles, sessions, userRepo, registryRepo, resolverMock)

	return &authDeps{
		registryRepo: registryRepo,
		userRepo:     userRepo,
		resolver:     resolverMock,
		sessions:     sessions,
		service:      svc,
	}
}

func hashOf(t *testing.T, password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeCompany(schema string) *registry.Company {
	return &registry.Company{
		ID:           uuid.New(),
		Name:         "Acme Corp",
		Subdomain:    "acme",
		SchemaName:   &schema,
		SchemaStatus: registry.SchemaStatusActive,
		Role:         registry.RoleCompany,
	}
}

func TestAuthService_Login_WithSubdomain(t *testing.T) {
	deps := setupAuth(t)
	ctx := context.Background()

	comp := activeCompany("ca_acme")
	u := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     "jane@acme.test",
		Password:  hashOf(t, "correct-password"),
		Role:      authz.RoleOwner,
		Active:    true,
	}

	// Subdomain known: the resolver scan must never run.
	deps.registryRepo.EXPECT().
		GetBySubdomain(gomock.Any(), "acme").
		Return(comp, nil)
	deps.userRepo.EXPECT().
		FindByEmail(gomock.Any(), "ca_acme", "jane@acme.test").
		Return(u, nil)

	pair, resp, err := deps.service.Login(ctx, auth.LoginRequest{
		Email:     "jane@acme.test",
		Password:  "correct-password",
		Subdomain: "acme",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "ca_acme", resp.Schema)
	assert.Contains(t, resp.AllowedRoles, authz.RoleTeamMember)
	assert.Len(t, deps.sessions.sessions, 1)
}

func TestAuthService_Login_FallbackScan(t *testing.T) {
	deps := setupAuth(t)
	ctx := context.Background()

	comp := activeCompany("ca_acme")
	u := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     "jane@acme.test",
		Password:  hashOf(t, "correct-password"),
		Role:      authz.RoleTeamMember,
		Active:    true,
	}

	deps.resolver.EXPECT().
		ResolveEmail(gomock.Any(), "jane@acme.test").
		Return(resolver.Resolution{SchemaName: "ca_acme", CompanyID: comp.ID.String()}, nil)
	deps.registryRepo.EXPECT().
		GetByID(gomock.Any(), comp.ID).
		Return(comp, nil)
	deps.userRepo.EXPECT().
		FindByEmail(gomock.Any(), "ca_acme", "jane@acme.test").
		Return(u, nil)

	_, resp, err := deps.service.Login(ctx, auth.LoginRequest{
		Email:    "jane@acme.test",
		Password: "correct-password",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ca_acme", resp.Schema)
}

func TestAuthService_Login_AllFailuresLookAlike(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		deps := setupAuth(t)
		deps.resolver.EXPECT().
			ResolveEmail(gomock.Any(), gomock.Any()).
			Return(resolver.Resolution{}, gorm.ErrRecordNotFound)

		_, _, err := deps.service.Login(ctx, auth.LoginRequest{Email: "ghost@mail.com", Password: "x"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupAuth(t)
		comp := activeCompany("ca_acme")
		deps.registryRepo.EXPECT().GetBySubdomain(gomock.Any(), "acme").Return(comp, nil)
		deps.userRepo.EXPECT().
			FindByEmail(gomock.Any(), "ca_acme", gomock.Any()).
			Return(&user.User{Password: hashOf(t, "other"), Active: true}, nil)

		_, _, err := deps.service.Login(ctx, auth.LoginRequest{
			Email: "jane@acme.test", Password: "wrong", Subdomain: "acme",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("deactivated user", func(t *testing.T) {
		deps := setupAuth(t)
		comp := activeCompany("ca_acme")
		deps.registryRepo.EXPECT().GetBySubdomain(gomock.Any(), "acme").Return(comp, nil)
		deps.userRepo.EXPECT().
			FindByEmail(gomock.Any(), "ca_acme", gomock.Any()).
			Return(&user.User{Password: hashOf(t, "pw"), Active: false}, nil)

		_, _, err := deps.service.Login(ctx, auth.LoginRequest{
			Email: "jane@acme.test", Password: "pw", Subdomain: "acme",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	deps := setupAuth(t)
	ctx := context.Background()

	comp := activeCompany("ca_acme")
	u := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     "jane@acme.test",
		Password:  hashOf(t, "pw"),
		Role:      authz.RoleOwner,
		Active:    true,
	}

	deps.registryRepo.EXPECT().GetBySubdomain(gomock.Any(), "acme").Return(comp, nil)
	deps.userRepo.EXPECT().
		FindByEmail(gomock.Any(), "ca_acme", gomock.Any()).
		Return(u, nil)

	pair, _, err := deps.service.Login(ctx, auth.LoginRequest{
		Email: "jane@acme.test", Password: "pw", Subdomain: "acme",
	})
	assert.NoError(t, err)

	var firstSessionID string
	for id := range deps.sessions.sessions {
		firstSessionID = id
	}

	deps.userRepo.EXPECT().
		FindByID(gomock.Any(), "ca_acme", comp.ID.String(), u.ID.String()).
		Return(u, nil)
	deps.registryRepo.EXPECT().GetByID(gomock.Any(), comp.ID).Return(comp, nil)

	newPair, _, err := deps.service.RefreshToken(ctx, pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, newPair.RefreshToken)

	// Rotation: the old session row is gone, a new one exists.
	assert.Len(t, deps.sessions.sessions, 1)
	_, stillThere := deps.sessions.sessions[firstSessionID]
	assert.False(t, stillThere)

	// The old refresh token is now revoked.
	_, _, err = deps.service.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, autherrors.ErrSessionRevoked)
}

func TestAuthService_LogoutRevokesSession(t *testing.T) {
	deps := setupAuth(t)
	ctx := context.Background()

	comp := activeCompany("ca_acme")
	u := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     "jane@acme.test",
		Password:  hashOf(t, "pw"),
		Role:      authz.RoleOwner,
		Active:    true,
	}

	deps.registryRepo.EXPECT().GetBySubdomain(gomock.Any(), "acme").Return(comp, nil)
	deps.userRepo.EXPECT().
		FindByEmail(gomock.Any(), "ca_acme", gomock.Any()).
		Return(u, nil)

	pair, _, err := deps.service.Login(ctx, auth.LoginRequest{
		Email: "jane@acme.test", Password: "pw", Subdomain: "acme",
	})
	assert.NoError(t, err)
	assert.Len(t, deps.sessions.sessions, 1)

	assert.NoError(t, deps.service.Logout(ctx, pair.RefreshToken))
	assert.Empty(t, deps.sessions.sessions)

	_, _, err = deps.service.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, autherrors.ErrSessionRevoked)
}

func TestAuthService_SessionExpiryWindow(t *testing.T) {
	deps := setupAuth(t)
	comp := activeCompany("ca_acme")
	u := &user.User{
		ID:        uuid.New(),
		CompanyID: comp.ID,
		Email:     "jane@acme.test",
		Password:  hashOf(t, "pw"),
		Role:      authz.RoleOwner,
		Active:    true,
	}

	deps.registryRepo.EXPECT().GetBySubdomain(gomock.Any(), "acme").Return(comp, nil)
	deps.userRepo.EXPECT().
		FindByEmail(gomock.Any(), "ca_acme", gomock.Any()).
		Return(u, nil)

	_, _, err := deps.service.Login(context.Background(), auth.LoginRequest{
		Email: "jane@acme.test", Password: "pw", Subdomain: "acme",
	})
	assert.NoError(t, err)

	for _, s := range deps.sessions.sessions {
		assert.WithinDuration(t, time.Now().Add(auth.RefreshTokenTTL), s.ExpiresAt, time.Minute)
	}
}
