package auth

import (
	"errors"
	"time"

	autherrors "go-saas/internal/auth/errors"
	"go-saas/internal/authz"
	"go-saas/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints and verifies the signed claims that carry the resolved
// schema between requests.
type Issuer struct {
	secret []byte
	roles  *authz.RoleHierarchy
}

func NewIssuer(secret []byte, roles *authz.RoleHierarchy) *Issuer {
	return &Issuer{secret: secret, roles: roles}
}

// Issue signs an access/refresh pair for the resolved identity. sessionID
// ties the refresh token to its server-side row so it can be revoked.
func (i *Issuer) Issue(claims Claims, sessionID string) (TokenPair, error) {
	access, err := i.sign(claims, tokenTypeAccess, "", AccessTokenTTL)
	if err != nil {
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}

	refresh, err := i.sign(claims, tokenTypeRefresh, sessionID, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(c Claims, tokenType, sessionID string, ttl time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{
		"sub":           c.UserID,
		"user_id":       c.UserID,
		"company_id":    c.CompanyID,
		"company_name":  c.CompanyName,
		"schema":        c.Schema,
		"role":          c.Role,
		"allowed_roles": i.roles.AllowedRoles(c.Role),
		"token_type":    tokenType,
		"exp":           time.Now().Add(ttl).Unix(),
	}
	if sessionID != "" {
		mapClaims["jti"] = sessionID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(i.secret)
}

// VerifyAccess and VerifyRefresh surface expiry and malformed tokens as
// distinct unauthenticated conditions, never as a generic fault.
func (i *Issuer) VerifyAccess(tokenString string) (Claims, error) {
	return i.verify(tokenString, tokenTypeAccess)
}

func (i *Issuer) VerifyRefresh(tokenString string) (Claims, error) {
	return i.verify(tokenString, tokenTypeRefresh)
}

// VerifyAccessToken adapts VerifyAccess for the HTTP middleware, which
// must never accept a refresh token as a bearer credential.
func (i *Issuer) VerifyAccessToken(tokenString string) (middleware.AuthClaims, error) {
	claims, err := i.VerifyAccess(tokenString)
	if err != nil {
		return middleware.AuthClaims{}, err
	}
	return middleware.AuthClaims{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Schema:    claims.Schema,
		Role:      claims.Role,
	}, nil
}

func (i *Issuer) verify(tokenString, wantType string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, autherrors.ErrTokenExpired
		}
		return Claims{}, autherrors.ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, autherrors.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, autherrors.ErrInvalidToken
	}

	if tokenType, _ := mapClaims["token_type"].(string); tokenType != wantType {
		return Claims{}, autherrors.ErrInvalidToken
	}

	claims := Claims{}
	claims.UserID, _ = mapClaims["user_id"].(string)
	claims.CompanyID, _ = mapClaims["company_id"].(string)
	claims.CompanyName, _ = mapClaims["company_name"].(string)
	claims.Schema, _ = mapClaims["schema"].(string)
	claims.Role, _ = mapClaims["role"].(string)
	claims.SessionID, _ = mapClaims["jti"].(string)

	if rawRoles, ok := mapClaims["allowed_roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				claims.AllowedRoles = append(claims.AllowedRoles, s)
			}
		}
	}

	if claims.UserID == "" || claims.CompanyID == "" || claims.Schema == "" {
		return Claims{}, autherrors.ErrInvalidToken
	}

	return claims, nil
}
