package mail

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"FilingWatch/internal/config"
)

func TestSendSkipsWithoutCredentials(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587}, slog.Default())
	err := n.Send(context.Background(), "subject", "<p>body</p>")
	assert.NoError(t, err)
}

func TestRecipients(t *testing.T) {
	t.Parallel()

	got := recipients("a@example.org, b@example.org ,")
	assert.Equal(t, []string{"a@example.org", "b@example.org"}, got)
}
