package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// Subdomain, when the client knows it, skips the fallback scan.
	Subdomain string `json:"subdomain"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	ID           string   `json:"id"`
	CompanyID    string   `json:"company_id"`
	CompanyName  string   `json:"company_name"`
	Schema       string   `json:"schema"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	AllowedRoles []string `json:"allowed_roles"`
}
