package entity

import "time"

// Company representa la organización a la que pertenecen los usuarios. Los miembros son
// los usuarios cuyo CompanyID la referencia.
type Company struct {
	ID        string
	Name      string
	CIF       string
	Address   Address
	FounderID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
