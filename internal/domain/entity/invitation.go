package entity

import "time"

// Estados de una invitación.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation invitación de un miembro de una compañía a otro usuario.
type Invitation struct {
	ID           string
	InviterID    string
	InviteeID    string
	CompanyID    string
	CompanyName  string
	InviterEmail string
	InviteeEmail string
	Role         string // user | admin
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
