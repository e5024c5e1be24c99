package notify

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/sthapati/sthapati_be/internal/config"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends HTML mail through gomail. Without an SMTP host it only
// logs the message.
type SMTPMailer struct {
	cfg config.SMTP
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" {
		zap.L().Info("mail (smtp disabled)", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	return d.DialAndSend(msg)
}
