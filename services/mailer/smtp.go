// File: services/mailer/smtp.go
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/config"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// SMTPMailer sends templated plain-text mail over SMTP. With no host
// configured it degrades to logging, which keeps development environments
// working without a mail server.
type SMTPMailer struct{}

var templates = map[string]struct {
	subject string
	body    string
}{
	"reservation_created": {
		subject: "Recibimos tu reserva",
		body:    "Hola {firstName},\n\nRecibimos tu reserva para el {date} a las {time}. Te avisaremos cuando esté aprobada.\n",
	},
	"confirmation_link": {
		subject: "Confirma tu reserva",
		body:    "Hola {firstName},\n\nTu reserva fue aprobada. Confírmala aquí: {link}\n",
	},
	"reservation_confirmed": {
		subject: "Reserva confirmada",
		body:    "Hola {firstName},\n\nTu reserva del {date} a las {time} quedó confirmada. ¡Te esperamos!\n",
	},
	"reservation_cancelled": {
		subject: "Reserva cancelada",
		body:    "Hola {firstName},\n\nTu reserva fue cancelada. Si quieres, agenda una nueva hora en nuestro sitio.\n",
	},
}

func (m *SMTPMailer) Send(ctx context.Context, template string, recipients []string, data map[string]string) error {
	tpl, ok := templates[template]
	if !ok {
		return fmt.Errorf("unknown mail template %q", template)
	}
	body := tpl.body
	for key, value := range data {
		body = strings.ReplaceAll(body, "{"+key+"}", value)
	}

	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		utils.GetLogger().Info("mailer: SMTP not configured, logging instead",
			zap.String("template", template),
			zap.Strings("recipients", recipients))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.EmailFrom, strings.Join(recipients, ", "), tpl.subject, body)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.EmailFrom, recipients, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
