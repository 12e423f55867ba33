package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-saas/internal/auth/errors"
	"go-saas/internal/authz"
	"go-saas/internal/registry"
	"go-saas/internal/resolver"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/tenant"
	"go-saas/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetMe(ctx context.Context, schema, companyID, userID string) (*AuthResponse, error)

	// EstablishSession creates a server-side session row and signs a
	// token pair for an already-authenticated user. Signup and
	// invitation acceptance use it to log the new user in directly.
	EstablishSession(ctx context.Context, schema string, u *user.User, comp *registry.Company) (TokenPair, AuthResponse, error)
}

type service struct {
	issuer       *Issuer
	roles        *authz.RoleHierarchy
	sessions     SessionRepository
	userRepo     user.Repository
	registryRepo registry.Repository
	resolver     resolver.Service
	logger       *zap.Logger
}

func NewService(
	issuer *Issuer,
	roles *authz.RoleHierarchy,
	sessions SessionRepository,
	userRepo user.Repository,
	registryRepo registry.Repository,
	res resolver.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		issuer:       issuer,
		roles:        roles,
		sessions:     sessions,
		userRepo:     userRepo,
		registryRepo: registryRepo,
		resolver:     res,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (TokenPair, AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	res, comp, err := s.locate(ctx, req)
	if err != nil {
		// Login must not reveal whether the email exists anywhere.
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByEmail(ctx, res.SchemaName, req.Email)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.Active {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, resp, err := s.EstablishSession(ctx, res.SchemaName, u, comp)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	l.Info("user logged in",
		zap.String("schema", res.SchemaName),
		zap.String("user_id", resp.ID),
	)
	return pair, resp, nil
}

// locate finds the owning schema: directly through the registry when the
// client names its subdomain, otherwise through the resolver fallback scan.
func (s *service) locate(ctx context.Context, req LoginRequest) (resolver.Resolution, *registry.Company, error) {
	if req.Subdomain != "" {
		comp, err := s.registryRepo.GetBySubdomain(ctx, req.Subdomain)
		if err != nil {
			return resolver.Resolution{}, nil, err
		}

		schema := tenant.PublicSchema
		if comp.HasSchema() {
			schema = *comp.SchemaName
		}
		return resolver.Resolution{SchemaName: schema, CompanyID: comp.ID.String()}, comp, nil
	}

	res, err := s.resolver.ResolveEmail(ctx, req.Email)
	if err != nil {
		return resolver.Resolution{}, nil, err
	}

	companyID, err := uuid.Parse(res.CompanyID)
	if err != nil {
		return resolver.Resolution{}, nil, err
	}
	comp, err := s.registryRepo.GetByID(ctx, companyID)
	if err != nil {
		return resolver.Resolution{}, nil, err
	}
	return res, comp, nil
}

func (s *service) EstablishSession(ctx context.Context, schema string, u *user.User, comp *registry.Company) (TokenPair, AuthResponse, error) {
	session := &UserSession{
		ID:        uuid.New(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, schema, session); err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	claims := Claims{
		UserID:      u.ID.String(),
		CompanyID:   comp.ID.String(),
		CompanyName: comp.Name,
		Schema:      schema,
		Role:        u.Role,
	}

	pair, err := s.issuer.Issue(claims, session.ID.String())
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	return pair, AuthResponse{
		ID:           u.ID.String(),
		CompanyID:    comp.ID.String(),
		CompanyName:  comp.Name,
		Schema:       schema,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		AllowedRoles: s.roles.AllowedRoles(u.Role),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	// The signature alone is not enough: the server-side row must still
	// exist, otherwise the token was revoked.
	if _, err := s.sessions.FindByID(ctx, claims.Schema, claims.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, AuthResponse{}, autherrors.ErrSessionRevoked
		}
		return TokenPair{}, AuthResponse{}, err
	}

	u, err := s.userRepo.FindByID(ctx, claims.Schema, claims.CompanyID, claims.UserID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	companyID, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	comp, err := s.registryRepo.GetByID(ctx, companyID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	// Rotate: revoke the presented session before issuing the next one.
	if err := s.sessions.Delete(ctx, claims.Schema, claims.SessionID); err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	return s.EstablishSession(ctx, claims.Schema, u, comp)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		// An expired or mangled token has nothing left to revoke.
		return nil
	}

	return s.sessions.Delete(ctx, claims.Schema, claims.SessionID)
}

func (s *service) GetMe(ctx context.Context, schema, companyID, userID string) (*AuthResponse, error) {
	u, err := s.userRepo.FindByID(ctx, schema, companyID, userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(companyID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}
	comp, err := s.registryRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	return &AuthResponse{
		ID:           u.ID.String(),
		CompanyID:    comp.ID.String(),
		CompanyName:  comp.Name,
		Schema:       schema,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		AllowedRoles: s.roles.AllowedRoles(u.Role),
	}, nil
}
