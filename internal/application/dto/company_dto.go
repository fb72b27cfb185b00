package dto

import "time"

// CompanyOnboardingRequest crea (o actualiza, si es el fundador) la compañía del usuario.
type CompanyOnboardingRequest struct {
	Name    string     `json:"name" validate:"required,min=1,max=200"`
	CIF     string     `json:"cif" validate:"required,max=20,taxid"`
	Address AddressDTO `json:"address"`
}

// CompanyResponse salida de una compañía.
type CompanyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CIF       string     `json:"cif"`
	Address   AddressDTO `json:"address"`
	FounderID string     `json:"founder_id"`
	CreatedAt time.Time  `json:"created_at"`
}
