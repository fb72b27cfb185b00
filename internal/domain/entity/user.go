package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// User representa un usuario del sistema (opcionalmente miembro de una Company).
type User struct {
	ID                    string
	FirstName             string
	LastName              string
	Email                 string
	PasswordHash          string // bcrypt hash, nunca plano en dominio después de persistir
	Role                  string
	Validated             bool
	CompanyID             string // vacío = sin compañía
	VerificationCode      string
	VerificationAttempts  int
	VerificationExpiresAt *time.Time
	ResetToken            string
	ResetExpiresAt        *time.Time
	ProfilePicture        string
	Archive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName nombre y apellidos.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
