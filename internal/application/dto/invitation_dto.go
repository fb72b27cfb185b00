package dto

import "time"

// InviteRequest invita a un usuario registrado a la compañía del principal.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

// InvitationResponse salida de una invitación.
type InvitationResponse struct {
	ID           string    `json:"id"`
	InviterID    string    `json:"inviter_id"`
	InviterEmail string    `json:"inviter_email"`
	InviteeID    string    `json:"invitee_id"`
	InviteeEmail string    `json:"invitee_email"`
	CompanyID    string    `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
