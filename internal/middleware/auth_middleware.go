package middleware

import (
	"errors"
	"strings"

	autherrors "go-saas/internal/auth/errors"
	"go-saas/internal/shared/apperror"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/shared/response"
	"go-saas/internal/tenant"

	"github.com/gin-gonic/gin"
)

// AuthClaims is the identity an access token carries, as the HTTP layer
// consumes it.
type AuthClaims struct {
	UserID    string
	CompanyID string
	Schema    string
	Role      string
}

// AccessVerifier checks that a bearer token is a live access token.
// Refresh tokens, expired tokens and tokens signed with another key all
// fail here, so revoking a session locks its holder out of the API.
type AccessVerifier interface {
	VerifyAccessToken(token string) (AuthClaims, error)
}

// AuthMiddleware verifies the bearer token and exposes its claims. This is
// the fast path of tenant resolution: the schema embedded at issue time is
// trusted directly, with no registry scan.
func AuthMiddleware(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			e := apperror.ErrUnauthorized
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}

		claims, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, autherrors.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		if !tenant.ValidSchemaName(claims.Schema) {
			e := autherrors.ErrInvalidToken
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("company_id", claims.CompanyID)
		c.Set("schema", claims.Schema)
		c.Set("role", claims.Role)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, claims.UserID)
		ctx = contextutil.WithCompanyID(ctx, claims.CompanyID)
		ctx = contextutil.WithSchema(ctx, claims.Schema)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
