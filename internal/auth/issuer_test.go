package auth_test

import (
	"testing"
	"time"

	"go-saas/internal/auth"
	autherrors "go-saas/internal/auth/errors"
	"go-saas/internal/authz"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("unit-test-secret")

func newIssuer(t *testing.T) *auth.Issuer {
	roles, err := authz.NewRoleHierarchy()
	assert.NoError(t, err)
	return auth.NewIssuer(testSecret, roles)
}

func testClaims() auth.Claims {
	return auth.Claims{
		UserID:      "user-1",
		CompanyID:   "company-1",
		CompanyName: "Acme Corp",
		Schema:      "ca_acme",
		Role:        authz.RoleOwner,
	}
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := newIssuer(t)

	pair, err := issuer.Issue(testClaims(), "session-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "ca_acme", claims.Schema)
	assert.Equal(t, "company-1", claims.CompanyID)
	assert.Equal(t, authz.RoleOwner, claims.Role)

	// The hierarchy is flattened into the token so middleware never
	// needs a round trip to expand it.
	assert.Contains(t, claims.AllowedRoles, authz.RoleOwner)
	assert.Contains(t, claims.AllowedRoles, authz.RoleCompanyAdmin)
	assert.Contains(t, claims.AllowedRoles, authz.RoleTeamMember)

	refreshClaims, err := issuer.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "session-1", refreshClaims.SessionID)
}

func TestIssuer_TokenTypeMismatch(t *testing.T) {
	issuer := newIssuer(t)

	pair, err := issuer.Issue(testClaims(), "session-1")
	assert.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)

	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestIssuer_ExpiredVsMalformed(t *testing.T) {
	issuer := newIssuer(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    "user-1",
		"company_id": "company-1",
		"schema":     "ca_acme",
		"token_type": "access",
		"exp":        time.Now().Add(-time.Minute).Unix(),
	})
	expiredString, err := expired.SignedString(testSecret)
	assert.NoError(t, err)

	_, err = issuer.VerifyAccess(expiredString)
	assert.ErrorIs(t, err, autherrors.ErrTokenExpired)

	_, err = issuer.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	issuer := newIssuer(t)

	roles, err := authz.NewRoleHierarchy()
	assert.NoError(t, err)
	other := auth.NewIssuer([]byte("a-different-secret"), roles)

	pair, err := other.Issue(testClaims(), "session-1")
	assert.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestIssuer_MissingIdentityRejected(t *testing.T) {
	issuer := newIssuer(t)

	noSchema := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    "user-1",
		"company_id": "company-1",
		"token_type": "access",
		"exp":        time.Now().Add(time.Minute).Unix(),
	})
	tokenString, err := noSchema.SignedString(testSecret)
	assert.NoError(t, err)

	_, err = issuer.VerifyAccess(tokenString)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}
