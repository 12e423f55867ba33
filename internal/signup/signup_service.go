package signup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-saas/internal/auth"
	"go-saas/internal/mailer"
	"go-saas/internal/provisioner"
	provisionererrors "go-saas/internal/provisioner/errors"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/shared/counter"
	signuperrors "go-saas/internal/signup/errors"
	"go-saas/internal/tenant"

	"go.uber.org/zap"
)

// Collisions past this many suffixed retries fail the signup rather
// than loop on a counter that keeps losing races.
const maxSlugAttempts = 3

const slugCounterScope = "signup"

//go:generate mockgen -source=signup_service.go -destination=mock/signup_service_mock.go -package=mock
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
}

type service struct {
	provisioner provisioner.Service
	counters    counter.Repository
	authService auth.Service
	sender      mailer.Sender
	logger      *zap.Logger
}

func NewService(
	prov provisioner.Service,
	counters counter.Repository,
	authService auth.Service,
	sender mailer.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("signup.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("signup.service")
	}
	return &service{
		provisioner: prov,
		counters:    counters,
		authService: authService,
		sender:      sender,
		logger:      l,
	}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	slug := req.Subdomain
	if slug == "" {
		slug = tenant.Slugify(req.CompanyName)
	}
	if !tenant.ValidSlug(slug) {
		return SignupResponse{}, signuperrors.ErrCompanyNameRequired
	}

	result, err := s.provisionWithRetry(ctx, req, slug)
	if err != nil {
		return SignupResponse{}, err
	}

	pair, _, err := s.authService.EstablishSession(ctx, *result.Company.SchemaName, result.Owner, result.Company)
	if err != nil {
		// The tenant exists and is usable; the owner just has to log
		// in the normal way.
		l.Warn("signup session issue failed",
			zap.String("company_id", result.Company.ID.String()),
			zap.Error(err),
		)
	}

	s.sendWelcomeMail(ctx, result.Owner.Email, result.Company.Subdomain)

	return SignupResponse{
		CompanyID:    result.Company.ID.String(),
		CompanyName:  result.Company.Name,
		Subdomain:    result.Company.Subdomain,
		Schema:       *result.Company.SchemaName,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// provisionWithRetry retries only on subdomain collisions, deriving a
// suffixed slug from the shared counter each round. Any other
// provisioning failure surfaces as-is.
func (s *service) provisionWithRetry(ctx context.Context, req SignupRequest, slug string) (*provisioner.ProvisionResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	candidate := slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		result, err := s.provisioner.Provision(ctx, provisioner.ProvisionRequest{
			CompanyName:   req.CompanyName,
			Subdomain:     candidate,
			Email:         req.OwnerEmail,
			OwnerName:     req.OwnerName,
			OwnerEmail:    req.OwnerEmail,
			OwnerPassword: req.OwnerPassword,
		})
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, provisionererrors.ErrDuplicateSubdomain) {
			return nil, err
		}

		// The explicit choice of a taken subdomain is the caller's to
		// resolve; only derived slugs get a suffix.
		if req.Subdomain != "" {
			return nil, err
		}

		n, cerr := s.counters.GetNextValue(ctx, slugCounterScope, slug)
		if cerr != nil {
			return nil, cerr
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
		l.Info("subdomain taken, retrying with suffix",
			zap.String("subdomain", slug),
			zap.String("candidate", candidate),
		)
	}
	return nil, signuperrors.ErrSubdomainExhausted
}

func (s *service) sendWelcomeMail(ctx context.Context, to, subdomain string) {
	msg := mailer.Message{
		To:      to,
		Subject: "Welcome aboard",
		Body:    fmt.Sprintf("Your workspace is ready at subdomain %q.", subdomain),
	}

	l := contextutil.GetLogger(ctx, s.logger)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sender.Send(sendCtx, msg); err != nil {
			l.Warn("welcome mail failed", zap.Error(err))
		}
	}()
}
