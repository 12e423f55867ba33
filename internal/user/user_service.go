package user

import (
	"context"
	"errors"

	"go-saas/internal/aggregator"
	"go-saas/internal/authz"
	"go-saas/internal/resolver"
	"go-saas/internal/shared/contextutil"
	usererrors "go-saas/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, schema, companyID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, schema, companyID string) ([]UserResponse, error)
	GetByID(ctx context.Context, schema, companyID, id string) (UserResponse, error)
	ToggleStatus(ctx context.Context, schema, companyID, id string, active bool) error
	ChangePassword(ctx context.Context, schema, companyID, id, currentPassword, newPassword string) error

	// UpdateByEmail serves the admin flow that carries no session token:
	// the owning schema is located by the resolver fallback scan first.
	UpdateByEmail(ctx context.Context, req UpdateUserByEmailRequest) (UserResponse, error)
}

type service struct {
	repo     Repository
	resolver resolver.Service
	usage    aggregator.Scheduler
	logger   *zap.Logger
}

func NewService(repo Repository, res resolver.Service, usage aggregator.Scheduler, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, resolver: res, usage: usage, logger: l}
}

func (s *service) Create(ctx context.Context, schema, companyID string, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !authz.ValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	if req.Role == authz.RoleOwner {
		if _, err := s.repo.FindOwner(ctx, schema, companyID); err == nil {
			return UserResponse{}, usererrors.ErrOwnerAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}

	u := &User{
		CompanyID: companyUUID,
		Email:     req.Email,
		Name:      req.Name,
		Password:  string(hashed),
		Role:      req.Role,
		Active:    true,
	}

	if err := s.repo.Create(ctx, schema, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmailAlreadyRegistered
		}
		l.Error("create user failed", zap.String("schema", schema), zap.Error(err))
		return UserResponse{}, err
	}

	s.usage.Schedule(ctx, companyID, "user_created")

	l.Info("user created",
		zap.String("schema", schema),
		zap.String("email", u.Email),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, schema, companyID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, schema, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, schema, companyID, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, schema, companyID, id string, active bool) error {
	u, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	u.Active = active
	if err := s.repo.Update(ctx, schema, u); err != nil {
		return err
	}

	// Activation state feeds the active-user count.
	s.usage.Schedule(ctx, companyID, "user_status_changed")
	return nil
}

func (s *service) ChangePassword(ctx context.Context, schema, companyID, id, currentPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrInvalidCurrentPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, schema, u)
}

func (s *service) UpdateByEmail(ctx context.Context, req UpdateUserByEmailRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	res, err := s.resolver.ResolveEmail(ctx, req.Email)
	if err != nil {
		return UserResponse{}, err
	}

	u, err := s.repo.FindByEmail(ctx, res.SchemaName, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Role != "" {
		if !authz.ValidRole(req.Role) {
			return UserResponse{}, usererrors.ErrInvalidRole
		}
		u.Role = req.Role
	}
	statusChanged := false
	if req.Active != nil && *req.Active != u.Active {
		u.Active = *req.Active
		statusChanged = true
	}

	if err := s.repo.Update(ctx, res.SchemaName, u); err != nil {
		return UserResponse{}, err
	}

	if statusChanged {
		s.usage.Schedule(ctx, res.CompanyID, "user_status_changed")
	}

	l.Info("user updated by email",
		zap.String("schema", res.SchemaName),
		zap.String("email", req.Email),
	)
	return mapToResponse(*u), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		CompanyID: u.CompanyID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
