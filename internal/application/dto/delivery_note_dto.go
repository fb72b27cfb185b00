package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkedHoursDTO línea de horas trabajadas.
type WorkedHoursDTO struct {
	Person      string           `json:"person" validate:"required,max=200"`
	Hours       decimal.Decimal  `json:"hours"`
	Date        *time.Time       `json:"date,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	Description string           `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// MaterialDTO línea de material.
type MaterialDTO struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description string           `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// SignatureDTO firma del albarán.
type SignatureDTO struct {
	Image  string    `json:"image"`
	Date   time.Time `json:"date"`
	Signer string    `json:"signer"`
}

// CreateDeliveryNoteRequest entrada para crear un albarán. El estado signed solo se alcanza firmando.
type CreateDeliveryNoteRequest struct {
	ProjectID    string           `json:"project_id" validate:"required,uuid"`
	Date         *time.Time       `json:"date"`
	WorkedHours  []WorkedHoursDTO `json:"worked_hours" validate:"omitempty,dive"`
	Materials    []MaterialDTO    `json:"materials" validate:"omitempty,dive"`
	Observations string           `json:"observations" validate:"omitempty,max=2000"`
	Status       string           `json:"status" validate:"omitempty,oneof=draft pending cancelled"`
}

// UpdateDeliveryNoteRequest entrada para actualizar un albarán. Si llegan worked_hours o
// materials (aunque sea vacío) se recalcula el total.
type UpdateDeliveryNoteRequest struct {
	ProjectID    *string           `json:"project_id" validate:"omitempty,uuid"`
	Date         *time.Time        `json:"date"`
	WorkedHours  *[]WorkedHoursDTO `json:"worked_hours" validate:"omitempty,dive"`
	Materials    *[]MaterialDTO    `json:"materials" validate:"omitempty,dive"`
	Observations *string           `json:"observations" validate:"omitempty,max=2000"`
	Status       *string           `json:"status" validate:"omitempty,oneof=draft pending cancelled"`
}

// ListDeliveryNotesQuery filtros de listado.
type ListDeliveryNotesQuery struct {
	ProjectID string `query:"project_id" validate:"omitempty,uuid"`
	ClientID  string `query:"client_id" validate:"omitempty,uuid"`
	Status    string `query:"status" validate:"omitempty,oneof=draft pending signed cancelled"`
	PageRequest
}

// DeliveryNoteResponse salida de un albarán. Project se incluye cuando es visible.
type DeliveryNoteResponse struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	ProjectID    string           `json:"project_id"`
	Project      *ProjectResponse `json:"project,omitempty"`
	Date         time.Time        `json:"date"`
	WorkedHours  []WorkedHoursDTO `json:"worked_hours"`
	Materials    []MaterialDTO    `json:"materials"`
	Status       string           `json:"status"`
	Signature    *SignatureDTO    `json:"signature,omitempty"`
	PDFURL       string           `json:"pdf_url,omitempty"`
	Observations string           `json:"observations"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	CreatedBy    string           `json:"created_by"`
	CompanyID    string           `json:"company_id,omitempty"`
	Deleted      bool             `json:"deleted"`
	DeletedAt    *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DeliveryNoteListResponse listado paginado de albaranes.
type DeliveryNoteListResponse struct {
	Items []DeliveryNoteResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// DeliveryNotePDFResponse metadatos del PDF de un albarán.
type DeliveryNotePDFResponse struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Status  string `json:"status"`
	PDFURL  string `json:"pdf_url,omitempty"`
	Message string `json:"message,omitempty"`
}
