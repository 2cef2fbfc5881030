package infra

import (
	"fmt"
	"net/smtp"

	"actalibro/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for incident notification mails.
// Sends go through the circuit breaker so a downed relay fails fast.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// SendNotificacion delivers a plain-text notification to the given recipients.
func (m *Mailer) SendNotificacion(to []string, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}
