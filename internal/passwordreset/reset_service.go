package passwordreset

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go-saas/internal/mailer"
	passwordreseterrors "go-saas/internal/passwordreset/errors"
	"go-saas/internal/resolver"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=reset_service.go -destination=mock/reset_service_mock.go -package=mock
type Service interface {
	// Request starts the reset flow. It never reports whether the email
	// exists; the caller gets the same outcome either way.
	Request(ctx context.Context, email string) error

	// Confirm consumes a token and sets the new password.
	Confirm(ctx context.Context, token, newPassword string) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
	resolver resolver.Service
	sessions SessionRevoker
	sender   mailer.Sender
	logger   *zap.Logger
}

// SessionRevoker invalidates every live session of a user. A password
// reset must log out whoever holds the old credentials.
type SessionRevoker interface {
	DeleteByUser(ctx context.Context, schema, userID string) error
}

func NewService(
	repo Repository,
	userRepo user.Repository,
	res resolver.Service,
	sessions SessionRevoker,
	sender mailer.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("passwordreset.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("passwordreset.service")
	}
	return &service{
		repo:     repo,
		userRepo: userRepo,
		resolver: res,
		sessions: sessions,
		sender:   sender,
		logger:   l,
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Request(ctx context.Context, email string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	res, err := s.resolver.ResolveEmail(ctx, email)
	if err != nil {
		// Unknown email. Swallow it so the response cannot be used to
		// enumerate accounts.
		l.Info("password reset requested for unknown email")
		return nil
	}

	u, err := s.userRepo.FindByEmail(ctx, res.SchemaName, email)
	if err != nil {
		l.Info("password reset requested for unknown email")
		return nil
	}

	token, err := newToken()
	if err != nil {
		return err
	}

	rt := &ResetToken{
		ID:        uuid.New(),
		CompanyID: u.CompanyID,
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(TokenTTL),
	}
	if err := s.repo.Create(ctx, res.SchemaName, rt); err != nil {
		return err
	}

	s.sendResetMail(ctx, u.Email, token)

	l.Info("password reset token issued",
		zap.String("schema", res.SchemaName),
		zap.String("user_id", u.ID.String()),
	)
	return nil
}

func (s *service) Confirm(ctx context.Context, token, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	res, err := s.resolver.ResolveResetToken(ctx, token)
	if err != nil {
		return passwordreseterrors.ErrInvalidResetToken
	}

	rt, err := s.repo.FindByToken(ctx, res.SchemaName, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return passwordreseterrors.ErrInvalidResetToken
		}
		return err
	}

	now := time.Now()
	if rt.UsedAt != nil {
		return passwordreseterrors.ErrInvalidResetToken
	}
	if now.After(rt.ExpiresAt) {
		return passwordreseterrors.ErrResetTokenExpired
	}

	u, err := s.userRepo.FindByID(ctx, res.SchemaName, res.CompanyID, rt.UserID.String())
	if err != nil {
		return passwordreseterrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Consume before writing the password so a raced duplicate confirm
	// fails here instead of double-writing.
	if err := s.repo.MarkUsed(ctx, res.SchemaName, rt.ID.String(), now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return passwordreseterrors.ErrInvalidResetToken
		}
		return err
	}

	u.Password = string(hashed)
	if err := s.userRepo.Update(ctx, res.SchemaName, u); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUser(ctx, res.SchemaName, u.ID.String()); err != nil {
		l.Warn("failed to revoke sessions after password reset",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}

	l.Info("password reset completed",
		zap.String("schema", res.SchemaName),
		zap.String("user_id", u.ID.String()),
	)
	return nil
}

func (s *service) sendResetMail(ctx context.Context, to, token string) {
	msg := mailer.Message{
		To:      to,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use token %s within %s to reset your password.", token, TokenTTL),
	}

	l := contextutil.GetLogger(ctx, s.logger)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sender.Send(sendCtx, msg); err != nil {
			l.Warn("password reset mail failed", zap.Error(err))
		}
	}()
}
