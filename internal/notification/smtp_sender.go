package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

//go:generate mockgen -source=smtp_sender.go -destination=mock/sender_mock.go -package=mock
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// SMTPSender delivers rendered notifications over plain SMTP.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(_ context.Context, recipient, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, recipient, subject, body,
	)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{recipient}, []byte(msg))
}
