// Package mail sends email through SMTP with a small fluent builder.
//
//	mail.New().
//	    To("user@example.com").
//	    Subject("Your verification code").
//	    HTML(body).
//	    Send()
//
// In local development (MAIL_DRIVER=log) messages are logged instead of
// sent, so the flow works without an SMTP server.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/bazaar/config"
)

// Message is a pending email.
type Message struct {
	from    string
	to      []string
	subject string
	body    string
	html    bool
}

// New starts a message with the configured sender address.
func New() *Message {
	return &Message{
		from: config.Get("MAIL_FROM", "no-reply@bazaar.local"),
	}
}

func (m *Message) From(addr string) *Message {
	m.from = addr
	return m
}

func (m *Message) To(addrs ...string) *Message {
	m.to = append(m.to, addrs...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(body string) *Message {
	m.body = body
	m.html = false
	return m
}

// HTML sets an HTML body.
func (m *Message) HTML(body string) *Message {
	m.body = body
	m.html = true
	return m
}

// Send delivers the message via the configured driver.
func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	if config.Get("MAIL_DRIVER", "log") == "log" {
		slog.Info("mail (log driver)",
			"to", strings.Join(m.to, ","),
			"subject", m.subject,
			"body", m.body,
		)
		return nil
	}

	host := config.Get("SMTP_HOST", "localhost")
	port := config.Get("SMTP_PORT", "587")
	user := config.Get("SMTP_USER", "")
	pass := config.Get("SMTP_PASSWORD", "")

	contentType := "text/plain; charset=UTF-8"
	if m.html {
		contentType = "text/html; charset=UTF-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", m.subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n\r\n", contentType)
	msg.WriteString(m.body)

	var a smtp.Auth
	if user != "" {
		a = smtp.PlainAuth("", user, pass, host)
	}
	addr := fmt.Sprintf("%s:%s", host, port)
	if err := smtp.SendMail(addr, a, m.from, m.to, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
