package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	garmr "github.com/shipdventures/neoma-garmr"
)

func TestNewSMTPValidation(t *testing.T) {
	if _, err := NewSMTP(Config{}); err == nil {
		t.Fatal("expected missing host to be rejected")
	}
	if _, err := NewSMTP(Config{Host: "smtp.example.com", Port: 99999}); err == nil {
		t.Fatal("expected out-of-range port to be rejected")
	}

	mailer, err := NewSMTP(Config{Host: "smtp.example.com"})
	if err != nil {
		t.Fatalf("NewSMTP error: %v", err)
	}
	if mailer.config.Port != 587 {
		t.Fatalf("port = %d, want default 587", mailer.config.Port)
	}
}

func TestSendMailChecksContext(t *testing.T) {
	mailer, err := NewSMTP(Config{Host: "smtp.example.com"})
	if err != nil {
		t.Fatalf("NewSMTP error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := mailer.SendMail(ctx, garmr.Mail{To: "a@x.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFormatMessage(t *testing.T) {
	msg := string(formatMessage(garmr.Mail{
		From:    "auth@example.com",
		To:      "alice@example.com",
		Subject: "Your sign-in link",
		HTML:    "<p>hello</p>",
	}))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatal("no blank line between headers and body")
	}
	if body != "<p>hello</p>" {
		t.Fatalf("body = %q", body)
	}

	for _, want := range []string{
		"From: auth@example.com",
		"To: alice@example.com",
		"Subject: Your sign-in link",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	} {
		if !strings.Contains(headers, want) {
			t.Fatalf("headers missing %q:\n%s", want, headers)
		}
	}
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.ContainsRune(line, '\n') {
			t.Fatalf("bare newline in header line %q", line)
		}
	}
}
