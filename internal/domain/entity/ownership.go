package entity

import "time"

// Ownership fija quién creó el recurso y la compañía del creador en ese momento.
// CompanyID vacío = el creador no tenía compañía.
type Ownership struct {
	CreatedBy string
	CompanyID string
}

// Archive par de borrado lógico compartido por los recursos archivables.
type Archive struct {
	Deleted   bool
	DeletedAt *time.Time
}

// IsArchived indica si el recurso está archivado.
func (a Archive) IsArchived() bool { return a.Deleted }

// Address dirección postal (compañías y clientes).
type Address struct {
	Street   string
	Number   string
	Postal   string
	City     string
	Province string
}
