package signup_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-saas/internal/auth"
	"go-saas/internal/mailer"
	"go-saas/internal/provisioner"
	provisionererrors "go-saas/internal/provisioner/errors"
	"go-saas/internal/registry"
	"go-saas/internal/signup"
	signuperrors "go-saas/internal/signup/errors"
	"go-saas/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeProvisioner struct {
	attempts []string
	failWith map[string]error
}

func (f *fakeProvisioner) Provision(ctx context.Context, req provisioner.ProvisionRequest) (*provisioner.ProvisionResult, error) {
	f.attempts = append(f.attempts, req.Subdomain)
	if err, ok := f.failWith[req.Subdomain]; ok {
		return nil, err
	}

	schema := "ca_" + req.Subdomain
	comp := &registry.Company{
		ID:           uuid.New(),
		Name:         req.CompanyName,
		Subdomain:    req.Subdomain,
		SchemaName:   &schema,
		SchemaStatus: registry.SchemaStatusActive,
	}
	owner := &user.User{ID: uuid.New(), CompanyID: comp.ID, Email: req.OwnerEmail}
	return &provisioner.ProvisionResult{Company: comp, Owner: owner}, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, scope, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeAuthService struct {
	auth.Service
	err error
}

func (f *fakeAuthService) EstablishSession(ctx context.Context, schema string, u *user.User, comp *registry.Company) (auth.TokenPair, auth.AuthResponse, error) {
	if f.err != nil {
		return auth.TokenPair{}, auth.AuthResponse{}, f.err
	}
	return auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, auth.AuthResponse{ID: u.ID.String()}, nil
}

type failingSender struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSender) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("smtp down")
}

func validSignup() signup.SignupRequest {
	return signup.SignupRequest{
		CompanyName:   "Acme Corp",
		OwnerName:     "Ada Owner",
		OwnerEmail:    "ada@acme.test",
		OwnerPassword: "s3cret-pass",
	}
}

func TestSignupService_DerivesSlugFromName(t *testing.T) {
	prov := &fakeProvisioner{}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	res, err := svc.Signup(context.Background(), validSignup())

	assert.NoError(t, err)
	assert.Equal(t, []string{"acme-corp"}, prov.attempts)
	assert.Equal(t, "acme-corp", res.Subdomain)
	assert.Equal(t, "ca_acme-corp", res.Schema)
	assert.Equal(t, "access", res.AccessToken)
}

func TestSignupService_SuffixRetryOnCollision(t *testing.T) {
	prov := &fakeProvisioner{
		failWith: map[string]error{
			"acme-corp":   provisionererrors.ErrDuplicateSubdomain,
			"acme-corp-1": provisionererrors.ErrDuplicateSubdomain,
		},
	}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	res, err := svc.Signup(context.Background(), validSignup())

	assert.NoError(t, err)
	assert.Equal(t, []string{"acme-corp", "acme-corp-1", "acme-corp-2"}, prov.attempts)
	assert.Equal(t, "acme-corp-2", res.Subdomain)
}

func TestSignupService_GivesUpAfterMaxAttempts(t *testing.T) {
	prov := &fakeProvisioner{
		failWith: map[string]error{
			"acme-corp":   provisionererrors.ErrDuplicateSubdomain,
			"acme-corp-1": provisionererrors.ErrDuplicateSubdomain,
			"acme-corp-2": provisionererrors.ErrDuplicateSubdomain,
		},
	}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	_, err := svc.Signup(context.Background(), validSignup())

	assert.ErrorIs(t, err, signuperrors.ErrSubdomainExhausted)
	assert.Len(t, prov.attempts, 3)
}

func TestSignupService_ExplicitSubdomainNeverSuffixed(t *testing.T) {
	prov := &fakeProvisioner{
		failWith: map[string]error{
			"chosen": provisionererrors.ErrDuplicateSubdomain,
		},
	}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	req := validSignup()
	req.Subdomain = "chosen"
	_, err := svc.Signup(context.Background(), req)

	// The caller picked the name; silently shipping "chosen-1" would be
	// worse than the conflict.
	assert.ErrorIs(t, err, provisionererrors.ErrDuplicateSubdomain)
	assert.Equal(t, []string{"chosen"}, prov.attempts)
}

func TestSignupService_NonCollisionFailureNotRetried(t *testing.T) {
	prov := &fakeProvisioner{
		failWith: map[string]error{
			"acme-corp": provisionererrors.ErrSchemaCloneFailed,
		},
	}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	_, err := svc.Signup(context.Background(), validSignup())

	assert.ErrorIs(t, err, provisionererrors.ErrSchemaCloneFailed)
	assert.Len(t, prov.attempts, 1)
}

func TestSignupService_MailFailureDoesNotFailSignup(t *testing.T) {
	prov := &fakeProvisioner{}
	sender := &failingSender{}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{}, sender)

	res, err := svc.Signup(context.Background(), validSignup())

	assert.NoError(t, err)
	assert.NotEmpty(t, res.CompanyID)
}

func TestSignupService_SessionIssueFailureDoesNotFailSignup(t *testing.T) {
	prov := &fakeProvisioner{}
	svc := signup.NewService(prov, &fakeCounter{}, &fakeAuthService{err: errors.New("session store down")}, &failingSender{})

	res, err := svc.Signup(context.Background(), validSignup())

	// The tenant is fully provisioned; the owner just logs in manually.
	assert.NoError(t, err)
	assert.NotEmpty(t, res.CompanyID)
	assert.Empty(t, res.AccessToken)
}

func TestSignupService_RejectsUnusableName(t *testing.T) {
	svc := signup.NewService(&fakeProvisioner{}, &fakeCounter{}, &fakeAuthService{}, &failingSender{})

	req := validSignup()
	req.CompanyName = "!!!"
	_, err := svc.Signup(context.Background(), req)

	assert.ErrorIs(t, err, signuperrors.ErrCompanyNameRequired)
}
