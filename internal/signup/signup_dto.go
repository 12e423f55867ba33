package signup

type SignupRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	// Subdomain is optional; when empty it is derived from the name.
	Subdomain     string `json:"subdomain"`
	OwnerName     string `json:"owner_name" binding:"required"`
	OwnerEmail    string `json:"owner_email" binding:"required,email"`
	OwnerPassword string `json:"owner_password" binding:"required,min=8"`
}

type SignupResponse struct {
	CompanyID    string `json:"company_id"`
	CompanyName  string `json:"company_name"`
	Subdomain    string `json:"subdomain"`
	Schema       string `json:"schema"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
