package invitation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go-saas/internal/aggregator"
	"go-saas/internal/auth"
	"go-saas/internal/authz"
	inverrors "go-saas/internal/invitation/errors"
	"go-saas/internal/mailer"
	"go-saas/internal/registry"
	"go-saas/internal/resolver"
	resolvererrors "go-saas/internal/resolver/errors"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=invitation_service.go -destination=mock/invitation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, schema, companyID, invitedBy string, req CreateInvitationRequest) (InvitationResponse, error)
	GetAll(ctx context.Context, schema, companyID string) ([]InvitationResponse, error)
	Resend(ctx context.Context, schema, companyID, id string) (InvitationResponse, error)
	Cancel(ctx context.Context, schema, companyID, id string) error

	// Accept carries no session token, so the owning schema is located
	// by the resolver fallback scan on the invitation token itself.
	Accept(ctx context.Context, req AcceptInvitationRequest) (auth.TokenPair, auth.AuthResponse, error)
}

type service struct {
	repo         Repository
	userRepo     user.Repository
	registryRepo registry.Repository
	resolver     resolver.Service
	authService  auth.Service
	usage        aggregator.Scheduler
	sender       mailer.Sender
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	userRepo user.Repository,
	registryRepo registry.Repository,
	res resolver.Service,
	authService auth.Service,
	usage aggregator.Scheduler,
	sender mailer.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("invitation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invitation.service")
	}
	return &service{
		repo:         repo,
		userRepo:     userRepo,
		registryRepo: registryRepo,
		resolver:     res,
		authService:  authService,
		usage:        usage,
		sender:       sender,
		logger:       l,
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Create(ctx context.Context, schema, companyID, invitedBy string, req CreateInvitationRequest) (InvitationResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !authz.ValidRole(req.Role) || req.Role == authz.RoleSuperAdmin || req.Role == authz.RoleOwner {
		return InvitationResponse{}, inverrors.ErrInvalidInvitationRole
	}

	if _, err := s.userRepo.FindByEmail(ctx, schema, req.Email); err == nil {
		return InvitationResponse{}, inverrors.ErrEmailAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvitationResponse{}, err
	}

	if _, err := s.repo.FindPendingByEmail(ctx, schema, companyID, req.Email); err == nil {
		return InvitationResponse{}, inverrors.ErrEmailAlreadyInvited
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvitationResponse{}, err
	}

	cid, err := uuid.Parse(companyID)
	if err != nil {
		return InvitationResponse{}, inverrors.ErrInvitationNotFound
	}
	inviter, err := uuid.Parse(invitedBy)
	if err != nil {
		return InvitationResponse{}, inverrors.ErrInvitationNotFound
	}

	token, err := newToken()
	if err != nil {
		return InvitationResponse{}, err
	}

	now := time.Now()
	inv := &Invitation{
		ID:        uuid.New(),
		CompanyID: cid,
		Email:     req.Email,
		Role:      req.Role,
		Token:     token,
		Status:    StatusPending,
		InvitedBy: inviter,
		ExpiresAt: now.Add(DefaultTTL),
	}

	if err := s.repo.Create(ctx, schema, inv); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return InvitationResponse{}, inverrors.ErrEmailAlreadyInvited
		}
		return InvitationResponse{}, err
	}

	s.sendInvitationMail(ctx, inv)

	l.Info("invitation created",
		zap.String("schema", schema),
		zap.String("invitation_id", inv.ID.String()),
		zap.String("role", inv.Role),
	)
	return toResponse(inv, now), nil
}

func (s *service) GetAll(ctx context.Context, schema, companyID string) ([]InvitationResponse, error) {
	invs, err := s.repo.FindAllByCompany(ctx, schema, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]InvitationResponse, 0, len(invs))
	for i := range invs {
		out = append(out, toResponse(&invs[i], now))
	}
	return out, nil
}

func (s *service) Resend(ctx context.Context, schema, companyID, id string) (InvitationResponse, error) {
	inv, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationResponse{}, inverrors.ErrInvitationNotFound
		}
		return InvitationResponse{}, err
	}

	if inv.Status != StatusPending {
		return InvitationResponse{}, inverrors.ErrInvitationNotPending
	}

	// Resend rotates the token and restarts the clock so an old mail
	// cannot be redeemed past its original window.
	token, err := newToken()
	if err != nil {
		return InvitationResponse{}, err
	}

	now := time.Now()
	inv.Token = token
	inv.ExpiresAt = now.Add(DefaultTTL)
	if err := s.repo.Update(ctx, schema, inv); err != nil {
		return InvitationResponse{}, err
	}

	s.sendInvitationMail(ctx, inv)
	return toResponse(inv, now), nil
}

func (s *service) Cancel(ctx context.Context, schema, companyID, id string) error {
	inv, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inverrors.ErrInvitationNotFound
		}
		return err
	}

	if inv.Status != StatusPending {
		return inverrors.ErrInvitationNotPending
	}

	inv.Status = StatusCancelled
	return s.repo.Update(ctx, schema, inv)
}

func (s *service) Accept(ctx context.Context, req AcceptInvitationRequest) (auth.TokenPair, auth.AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	res, err := s.resolver.ResolveInvitationToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, resolvererrors.ErrNotFound) {
			return auth.TokenPair{}, auth.AuthResponse{}, inverrors.ErrInvitationNotFound
		}
		return auth.TokenPair{}, auth.AuthResponse{}, err
	}

	inv, err := s.repo.FindByToken(ctx, res.SchemaName, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.TokenPair{}, auth.AuthResponse{}, inverrors.ErrInvitationNotFound
		}
		return auth.TokenPair{}, auth.AuthResponse{}, err
	}

	now := time.Now()
	if inv.Status != StatusPending {
		return auth.TokenPair{}, auth.AuthResponse{}, inverrors.ErrInvitationNotPending
	}
	if inv.Expired(now) {
		return auth.TokenPair{}, auth.AuthResponse{}, inverrors.ErrInvitationExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenPair{}, auth.AuthResponse{}, err
	}

	u := &user.User{
		ID:        uuid.New(),
		CompanyID: inv.CompanyID,
		Email:     inv.Email,
		Name:      req.Name,
		Password:  string(hashed),
		Role:      inv.Role,
		Active:    true,
	}
	if err := s.userRepo.Create(ctx, res.SchemaName, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.TokenPair{}, auth.AuthResponse{}, inverrors.ErrEmailAlreadyMember
		}
		return auth.TokenPair{}, auth.AuthResponse{}, err
	}

	inv.Status = StatusAccepted
	if err := s.repo.Update(ctx, res.SchemaName, inv); err != nil {
		// The user row exists; a pending-but-used invitation is the
		// lesser inconsistency and will surface on the next accept.
		l.Warn("failed to mark invitation accepted",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err),
		)
	}

	comp, err := s.registryRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return auth.TokenPair{}, auth.AuthResponse{}, err
	}

	s.usage.Schedule(ctx, inv.CompanyID.String(), "invitation_accepted")

	l.Info("invitation accepted",
		zap.String("schema", res.SchemaName),
		zap.String("invitation_id", inv.ID.String()),
		zap.String("user_id", u.ID.String()),
	)
	return s.authService.EstablishSession(ctx, res.SchemaName, u, comp)
}

func (s *service) sendInvitationMail(ctx context.Context, inv *Invitation) {
	msg := mailer.Message{
		To:      inv.Email,
		Subject: "You have been invited",
		Body:    fmt.Sprintf("Use token %s to join before %s.", inv.Token, inv.ExpiresAt.Format(time.RFC3339)),
	}

	l := contextutil.GetLogger(ctx, s.logger)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sender.Send(sendCtx, msg); err != nil {
			l.Warn("invitation mail failed", zap.String("to", inv.Email), zap.Error(err))
		}
	}()
}
