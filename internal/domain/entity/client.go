package entity

import "time"

// Client cliente final de la compañía (o del autónomo).
type Client struct {
	ID      string
	Name    string
	NIF     string
	Email   string
	Phone   string
	Address Address
	Ownership
	Archive
	CreatedAt time.Time
	UpdatedAt time.Time
}
