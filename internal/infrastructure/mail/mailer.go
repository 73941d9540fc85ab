package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/sickfits/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
  <h2>Hello {{.Name}},</h2>
  <p>Your Password Reset Token is here!</p>
  <p><a href="{{.URL}}">Click Here to Reset</a></p>
  <p>This link expires in one hour.</p>
  <p>😘, Sick Fits</p>
</div>`))

// ResetURL builds the storefront link that carries a reset token
func ResetURL(frontendURL, token string) string {
	return fmt.Sprintf("%s/reset?resetToken=%s", frontendURL, url.QueryEscape(token))
}

func renderReset(name, resetURL string) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct{ Name, URL string }{name, resetURL}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SMTPMailer delivers mail over SMTP
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP mailer. Authentication is used only when a
// username is configured.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, logger: logger.Named("mail")}, nil
}

// SendPasswordReset mails the reset link to the account owner
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	body, err := renderReset(name, resetURL)
	if err != nil {
		return fmt.Errorf("mail: failed to render reset mail: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject("Your Password Reset Token")
	msg.SetBodyString(gomail.TypeTextPlain, "Reset your password: "+resetURL)
	msg.AddAlternativeString(gomail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: failed to send reset mail: %w", err)
	}
	m.logger.Debug("Sent password reset mail", zap.String("to", to))
	return nil
}

// LogMailer writes outgoing mail to the log instead of sending it. It is
// used when no SMTP host is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mail")}
}

// SendPasswordReset logs the reset link
func (m *LogMailer) SendPasswordReset(_ context.Context, to, _, resetURL string) error {
	m.logger.Info("Password reset mail (not sent, no SMTP host configured)",
		zap.String("to", to),
		zap.String("reset_url", resetURL))
	return nil
}

// Mailer is the set of mails the API sends
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// New picks the SMTP mailer when a host is configured and the log mailer otherwise
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}
