package entity

import "time"

// Estados de un proyecto.
const (
	ProjectPending    = "pending"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// Project obra o encargo de un cliente.
type Project struct {
	ID          string
	Name        string
	Description string
	ClientID    string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      string
	Ownership
	Archive
	CreatedAt time.Time
	UpdatedAt time.Time
}
