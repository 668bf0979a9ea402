// Package mail provides the SMTP-backed garmr.Mailer used by the
// magic-link flow. It only assembles and hands off messages; templating and
// retry policy belong to the caller.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	garmr "github.com/shipdventures/neoma-garmr"
)

// Config carries the SMTP endpoint and optional PLAIN credentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTP sends mail through a single SMTP endpoint. Safe for concurrent use;
// each send opens its own connection.
type SMTP struct {
	config Config
}

// NewSMTP validates cfg and returns a mailer. Port defaults to 587.
func NewSMTP(cfg Config) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.New("invalid smtp port")
	}
	return &SMTP{config: cfg}, nil
}

// SendMail delivers a single message. Cancellation is checked before the
// dial; the SMTP exchange itself is bounded by the server.
func (s *SMTP) SendMail(ctx context.Context, m garmr.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.To == "" {
		return errors.New("mail recipient is required")
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	return smtp.SendMail(addr, auth, m.From, []string{m.To}, formatMessage(m))
}

// formatMessage assembles the RFC 5322 message: headers, blank line, HTML
// body.
func formatMessage(m garmr.Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)
	return []byte(b.String())
}
