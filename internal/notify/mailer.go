package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"sync"
	"time"

	"gohire/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

type Mail struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// NewMailer picks SMTP when enabled, the Resend API when a key is set, and
// otherwise a mailer that only logs.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) Mailer {
	switch {
	case cfg.SMTPEnabled:
		return &SMTPMailer{cfg: cfg}
	case cfg.ResendAPIKey != "":
		return NewResendMailer(cfg, &http.Client{Timeout: 10 * time.Second})
	default:
		return &LogMailer{logger: logger}
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type ResendMailer struct {
	cfg      config.MailConfig
	client   *http.Client
	endpoint string
}

func NewResendMailer(cfg config.MailConfig, client *http.Client) *ResendMailer {
	return &ResendMailer{cfg: cfg, client: client, endpoint: resendEndpoint}
}

func (m *ResendMailer) Send(ctx context.Context, mail Mail) error {
	body, err := json.Marshal(resendRequest{
		From:    m.cfg.From,
		To:      []string{mail.To},
		Subject: mail.Subject,
		HTML:    mail.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}
	return nil
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(_ context.Context, mail Mail) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + mail.To + "\r\n" +
		"Subject: " + mail.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		mail.HTML

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{mail.To}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) Send(_ context.Context, mail Mail) error {
	if m.logger != nil {
		m.logger.Info("mail delivery disabled", "to", mail.To, "subject", mail.Subject)
	}
	return nil
}

// RecordingMailer keeps every mail in memory.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []Mail
	Fail error
}

func (m *RecordingMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *RecordingMailer) Sent() []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mail(nil), m.sent...)
}
