package registry

type CompanyResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Subdomain    string `json:"subdomain"`
	Email        string `json:"email"`
	SchemaName   string `json:"schema_name,omitempty"`
	SchemaStatus string `json:"schema_status"`
	Role         string `json:"role"`
}

type UpdateCompanyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}
