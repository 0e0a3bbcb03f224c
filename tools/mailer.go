package tools

import (
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Mailer envia e-mails transacionais (recuperação de senha).
// SMTPMailer fala com o servidor configurado; LogMailer é o fallback de dev,
// escolhido por configuração no boot.
type Mailer interface {
	Send(to string, subject string, body string) error
}

type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (m SMTPMailer) Send(to string, subject string, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	return dialer.DialAndSend(msg)
}

// LogMailer só registra no log. Nunca falha.
type LogMailer struct{}

func (LogMailer) Send(to string, subject string, body string) error {
	log.Printf("[mail][log] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
