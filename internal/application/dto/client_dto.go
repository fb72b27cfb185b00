package dto

import "time"

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name    string      `json:"name" validate:"required,min=1,max=200"`
	NIF     string      `json:"nif" validate:"omitempty,max=20,taxid"`
	Email   string      `json:"email" validate:"omitempty,email"`
	Phone   string      `json:"phone" validate:"omitempty,max=30"`
	Address *AddressDTO `json:"address"`
}

// UpdateClientRequest entrada para actualizar un cliente (solo estos campos son modificables).
type UpdateClientRequest struct {
	Name    *string     `json:"name" validate:"omitempty,min=1,max=200"`
	NIF     *string     `json:"nif" validate:"omitempty,max=20,taxid"`
	Email   *string     `json:"email" validate:"omitempty,email"`
	Phone   *string     `json:"phone" validate:"omitempty,max=30"`
	Address *AddressDTO `json:"address"`
}

// ListClientsQuery filtros de listado.
type ListClientsQuery struct {
	Name string `query:"name"`
	PageRequest
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	NIF       string     `json:"nif"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   AddressDTO `json:"address"`
	CreatedBy string     `json:"created_by"`
	CompanyID string     `json:"company_id,omitempty"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ClientListResponse listado paginado de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
