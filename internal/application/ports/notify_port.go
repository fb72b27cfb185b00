package ports

import "context"

// Email mensaje saliente.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer envía emails transaccionales.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// Alerter notifica errores de servidor a un canal externo.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}
