package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"FilingWatch/internal/config"
	"FilingWatch/internal/ports"
)

// Notifier delivers the digest over SMTP. Missing credentials make it a
// logged no-op rather than an error, so a watch run without mail settings
// still classifies and persists normally.
type Notifier struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires the SMTP settings.
func NewNotifier(cfg config.SMTPConfig, log *slog.Logger) *Notifier {
	return &Notifier{cfg: cfg, logger: log}
}

// Send mails the rendered digest to the configured recipients.
func (n *Notifier) Send(_ context.Context, subject, bodyHTML string) error {
	if !n.cfg.Configured() {
		n.logger.Warn("smtp credentials unset, skipping email", "subject", subject)
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("FilingWatch <%s>", n.cfg.Username)
	mail.To = recipients(n.cfg.To)
	mail.Subject = subject
	mail.HTML = []byte(bodyHTML)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := mail.Send(addr, auth); err != nil {
		return fmt.Errorf("send digest mail: %w", err)
	}

	n.logger.Info("digest mailed", "to", n.cfg.To, "subject", subject)
	return nil
}

func recipients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
