package auth

// Claims is the identity a verified token carries. Schema and CompanyID
// together are the resolver fast path: requests presenting these never
// trigger the fallback schema scan.
type Claims struct {
	UserID       string
	CompanyID    string
	CompanyName  string
	Schema       string
	Role         string
	AllowedRoles []string

	// SessionID is the server-side row backing a refresh token; empty on
	// access tokens.
	SessionID string
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)
