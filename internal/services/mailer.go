package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dancedesk/dancedesk/internal/config"
	"github.com/dancedesk/dancedesk/pkg/logger"
)

// EmailService talks SMTP. It is deliberately dumb: rendering and
// opt-out decisions live in NotificationService, this type only moves
// bytes to the relay.
type EmailService struct {
	cfg *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Configured reports whether enough SMTP settings exist to attempt a
// send. Without a host and sender the mailer stays in dry-run mode.
func (s *EmailService) Configured() bool {
	return s.cfg != nil && s.cfg.Host != "" && (s.cfg.From != "" || s.cfg.Username != "")
}

// Send delivers a single message. Both an HTML and a plain-text part
// are included as a multipart/alternative body.
func (s *EmailService) Send(to, subject, htmlBody, textBody string) error {
	if !s.Configured() {
		return fmt.Errorf("smtp is not configured")
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	const boundary = "dancedesk-alt-boundary"

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "multipart/alternative; boundary=" + boundary

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")

	message.WriteString("--" + boundary + "\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	message.WriteString(textBody)
	message.WriteString("\r\n--" + boundary + "\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	message.WriteString(htmlBody)
	message.WriteString("\r\n--" + boundary + "--\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, []string{to}, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send to %s: %v", to, err)
		return err
	}

	logger.Infof("[Email] Sent %q to %s", subject, to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from, to, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
