package dto

import "time"

// CreateProjectRequest entrada para crear un proyecto.
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	ClientID    string     `json:"client_id" validate:"required,uuid"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
}

// UpdateProjectRequest entrada para actualizar un proyecto (campos opcionales).
type UpdateProjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	ClientID    *string    `json:"client_id" validate:"omitempty,uuid"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
}

// ListProjectsQuery filtros de listado.
type ListProjectsQuery struct {
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Name     string `query:"name"`
	PageRequest
}

// ProjectResponse salida de un proyecto. Client se incluye cuando es visible.
type ProjectResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ClientID    string          `json:"client_id"`
	Client      *ClientResponse `json:"client,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CompanyID   string          `json:"company_id,omitempty"`
	Deleted     bool            `json:"deleted"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProjectListResponse listado paginado de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
