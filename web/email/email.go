// Package email dispatches outbound mail. The password-reset flow treats
// sending as best-effort: callers log failures and continue.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/noyan-alimov/lireddit-server/config"
	"github.com/noyan-alimov/lireddit-server/util/common"
)

// Mailer sends a single HTML message to one recipient.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

// NewSMTPMailer builds a mailer from the environment configuration.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		Addr:     config.GetSMTPAddr(),
		From:     config.GetSMTPFrom(),
		Username: config.GetSMTPUser(),
		Password: config.GetSMTPPassword(),
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	if m.Addr == "" {
		return common.NewError("smtp address not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}
	return smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(msg.String()))
}

// Recorder is a Mailer that captures sent messages for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []RecordedMail
}

type RecordedMail struct {
	To      string
	Subject string
	HTML    string
}

func (r *Recorder) Send(to, subject, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, RecordedMail{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns a copy of the captured messages.
func (r *Recorder) Sent() []RecordedMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedMail, len(r.sent))
	copy(out, r.sent)
	return out
}
