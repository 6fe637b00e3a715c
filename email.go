package userhub

import (
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer dispatches outbound email. Failures propagate as generic
// errors; the route layer decides what to do with them.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg *Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	client, err := gomail.NewClient(m.Host,
		gomail.WithPort(m.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.Username),
		gomail.WithPassword(m.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ConsoleMailer is a development implementation that logs mail instead
// of delivering it.
type ConsoleMailer struct{}

func (c *ConsoleMailer) Send(to, subject, html string) error {
	slog.Info("email (console mailer)", "to", to, "subject", subject, "body", html)
	return nil
}

// verificationEmail renders the subject and HTML body for a
// verification mail pointing at the given link.
func verificationEmail(link string) (subject, html string) {
	subject = "Verify your email address"
	html = fmt.Sprintf(`<p>Welcome! Please confirm your email address by following this link:</p><p><a href="%s">%s</a></p>`, link, link)
	return subject, html
}
