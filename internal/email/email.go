// Package email sends plain-text mail over SMTP. When no SMTP host is
// configured the log sender takes over so booking flows keep working in
// development.
package email

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (c SMTPConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != ""
}

// SendText sends a plain-text message to a single recipient.
func SendText(cfg SMTPConfig, to, subject, body string) error {
	if !cfg.Configured() {
		return fmt.Errorf("smtp host not configured")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	msg := []byte("From: " + cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	var a smtp.Auth
	if cfg.User != "" {
		a = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return smtp.SendMail(addr, a, cfg.From, []string{to}, msg)
}

// Sender abstracts delivery so callers can run without a mail server.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	Cfg SMTPConfig
}

func (s SMTPSender) Send(to, subject, body string) error {
	return SendText(s.Cfg, to, subject, body)
}

// LogSender records the message instead of delivering it.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.Printf("[email] to=%s subject=%q body=%q", to, subject, body)
	return nil
}

// NewSender picks SMTP when configured, the log sender otherwise.
func NewSender(cfg SMTPConfig) Sender {
	if cfg.Configured() {
		return SMTPSender{Cfg: cfg}
	}
	return LogSender{}
}
