// Package scope define quién puede ver qué: el principal autenticado, el predicado de
// propiedad que se deriva de él y el modo de archivo con el que se consulta.
package scope

import "fmt"

// CompanyRef datos de la compañía del principal.
type CompanyRef struct {
	ID   string
	Name string
	CIF  string
}

// Principal usuario autenticado de la petición.
type Principal struct {
	UserID   string
	Email    string
	Role     string
	Verified bool
	// Company nil = usuario sin compañía (autónomo).
	Company *CompanyRef
}

// CompanyID id de la compañía o "" si no tiene.
func (p Principal) CompanyID() string {
	if p.Company == nil {
		return ""
	}
	return p.Company.ID
}

// HasCompany indica si el principal pertenece a una compañía.
func (p Principal) HasCompany() bool { return p.Company != nil && p.Company.ID != "" }

// Owner predicado de propiedad: createdBy == UserID OR company == CompanyID.
// Con CompanyID vacío se reduce a createdBy == UserID.
type Owner struct {
	UserID    string
	CompanyID string
}

// For construye el predicado de propiedad del principal.
func For(p Principal) Owner {
	return Owner{UserID: p.UserID, CompanyID: p.CompanyID()}
}

// Matches evalúa el predicado sobre el snapshot de propiedad de un recurso.
func (o Owner) Matches(createdBy, companyID string) bool {
	if createdBy == o.UserID {
		return true
	}
	return o.CompanyID != "" && companyID == o.CompanyID
}

// CounterKey clave del contador de numeración: la compañía si existe, si no el usuario.
func (o Owner) CounterKey() string {
	if o.CompanyID != "" {
		return "company:" + o.CompanyID
	}
	return "user:" + o.UserID
}

// ArchiveMode selecciona recursos activos, archivados o ambos.
type ArchiveMode int

const (
	Active ArchiveMode = iota
	Archived
	All
)

// Matches indica si un recurso con el flag deleted entra en el modo.
func (m ArchiveMode) Matches(deleted bool) bool {
	switch m {
	case Active:
		return !deleted
	case Archived:
		return deleted
	default:
		return true
	}
}

func (m ArchiveMode) String() string {
	switch m {
	case Active:
		return "active"
	case Archived:
		return "archived"
	case All:
		return "all"
	default:
		return fmt.Sprintf("ArchiveMode(%d)", int(m))
	}
}
