// Package mail implementa ports.Mailer sobre SMTP (gomail) y un mailer de solo log.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/pkg/config"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// SMTPMailer envía emails por SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el adaptador con la configuración SMTP_*.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send construye el mensaje (texto + HTML alternativo) y lo entrega.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := buildMessage(m.from, msg)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg ports.Email) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
	default:
		gm.SetBody("text/plain", msg.Text)
	}
	return gm
}

// LogMailer escribe los emails en el log (desarrollo, sin SMTP configurado).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de solo log.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send registra destinatario, asunto y texto.
func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("text", msg.Text).Msg("email (sin SMTP)")
	return nil
}
