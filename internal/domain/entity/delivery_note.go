package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un albarán.
const (
	DeliveryNoteDraft     = "draft"
	DeliveryNotePending   = "pending"
	DeliveryNoteSigned    = "signed"
	DeliveryNoteCancelled = "cancelled"
)

// DeliveryNote albarán: horas trabajadas y materiales entregados en un proyecto.
type DeliveryNote struct {
	ID           string
	Number       string // ALB-<año>-<secuencia>
	ProjectID    string
	Date         time.Time
	WorkedHours  []WorkedHours
	Materials    []Material
	Status       string
	Signature    *Signature
	PDFURL       string
	Observations string
	TotalAmount  decimal.Decimal
	Ownership
	Archive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSigned indica si el albarán ya está firmado.
func (d *DeliveryNote) IsSigned() bool { return d.Status == DeliveryNoteSigned }

// WorkedHours línea de horas. HourlyRate nil = sin tarifa.
type WorkedHours struct {
	Person      string
	Hours       decimal.Decimal
	Date        *time.Time
	HourlyRate  *decimal.Decimal
	Description string
}

// Material línea de material. Price nil = sin precio.
type Material struct {
	Name        string
	Quantity    decimal.Decimal
	Price       *decimal.Decimal
	Description string
}

// Signature firma del cliente.
type Signature struct {
	ImageURL string
	Date     time.Time
	Signer   string
}
