package signup

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const verificationMailSubject = "Verify Your Email"

// SMTPConfig carries the mail transport settings, loaded once at startup.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Secure   bool
}

// Enabled reports whether the transport is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// SMTPMailer sends the verification email over SMTP.
type SMTPMailer struct {
	cfg     SMTPConfig
	baseURL string
	logger  Logger
}

var _ VerificationMailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer; baseURL is the public URL verification
// links are built against.
func NewSMTPMailer(cfg SMTPConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		baseURL: baseURL,
		logger:  defLogger{},
	}
}

func (s *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// VerificationURL builds the confirmation link embedded in the email.
func VerificationURL(baseURL, token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return fmt.Sprintf("%s/verification?%s", strings.TrimRight(baseURL, "/"), q.Encode())
}

// SendVerificationEmail dispatches the plain-text verification message. The
// caller treats a send failure as a failed signup.
func (s *SMTPMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	if !s.cfg.Enabled() {
		return goerrors.New("email transport is not configured", goerrors.CategoryInternal)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	link := VerificationURL(s.baseURL, token, email)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", verificationMailSubject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString("Click on this link to verify your email " + link)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if s.cfg.Secure {
		return s.sendTLS(addr, email, msg.String())
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg.String())); err != nil {
		s.logger.Error("SendVerificationEmail smtp send failed", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
	}

	return nil
}

func (s *SMTPMailer) sendTLS(addr, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to dial mail server")
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open smtp session")
	}
	defer client.Quit()

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "smtp authentication failed")
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "smtp mail command failed")
	}
	if err := client.Rcpt(to); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "smtp rcpt command failed")
	}

	w, err := client.Data()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "smtp data command failed")
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write mail body")
	}

	return w.Close()
}
