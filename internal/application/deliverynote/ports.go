package deliverynote

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

// TxRunner ejecuta la numeración y el alta del albarán en una sola transacción.
type TxRunner interface {
	RunNumbering(ctx context.Context, fn func(
		counters repository.CounterRepository,
		notes repository.DeliveryNoteRepository,
	) error) error
}

// PDFData datos ya resueltos para renderizar un albarán. Company y Creator pueden ser nil.
type PDFData struct {
	Note    *entity.DeliveryNote
	Project *entity.Project
	Client  *entity.Client
	Company *entity.Company
	Creator *entity.User
}

// PDFRenderer genera la representación PDF de un albarán (puerto de salida).
type PDFRenderer interface {
	Render(ctx context.Context, data PDFData) ([]byte, error)
}
