package mail_test

import (
	"encoding/base64"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strings"
	"testing"

	"github.com/UnknownOlympus/outreach/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPProvider_Send(t *testing.T) {
	ctx := t.Context()
	cfg := mail.SMTPConfig{Host: "smtp.example.org", Username: "relay", Password: "secret"}

	t.Run("message is composed and relayed", func(t *testing.T) {
		var (
			gotAddr string
			gotAuth smtp.Auth
			gotFrom string
			gotTo   []string
			gotMsg  []byte
		)
		send := func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, auth, from, to, msg
			return nil
		}

		provider := mail.NewSMTPProviderWithSender(cfg, send, unlimited(), slog.Default())
		require.NoError(t, provider.Send(ctx, testMessage))

		assert.Equal(t, "smtp.example.org:587", gotAddr)
		assert.NotNil(t, gotAuth)
		assert.Equal(t, "relay@example.org", gotFrom)
		assert.Equal(t, []string{"aid@example.org"}, gotTo)

		headers, body, found := strings.Cut(string(gotMsg), "\r\n\r\n")
		require.True(t, found)
		assert.Contains(t, headers, "To: aid@example.org\r\n")
		assert.Contains(t, headers, "Subject: =?utf-8?q?")
		assert.Contains(t, headers, `Content-Type: text/html; charset="UTF-8"`)

		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body, "\r\n", ""))
		require.NoError(t, err)
		assert.Equal(t, testMessage.HTML, string(decoded))
	})

	t.Run("relay without credentials skips auth", func(t *testing.T) {
		send := func(addr string, auth smtp.Auth, _ string, _ []string, _ []byte) error {
			assert.Equal(t, "localhost:25", addr)
			assert.Nil(t, auth)
			return nil
		}

		provider := mail.NewSMTPProviderWithSender(
			mail.SMTPConfig{Host: "localhost", Port: 25}, send, unlimited(), slog.Default())

		require.NoError(t, provider.Send(ctx, testMessage))
	})

	t.Run("reply code becomes provider error", func(t *testing.T) {
		send := func(string, smtp.Auth, string, []string, []byte) error {
			return &textproto.Error{Code: 554, Msg: "relay access denied"}
		}

		provider := mail.NewSMTPProviderWithSender(cfg, send, unlimited(), slog.Default())
		err := provider.Send(ctx, testMessage)

		var providerErr *mail.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, "SMTP", providerErr.Provider)
		assert.Equal(t, 554, providerErr.Status)
		assert.Equal(t, "relay access denied", providerErr.Body)
	})

	t.Run("dial failure becomes transport error", func(t *testing.T) {
		send := func(string, smtp.Auth, string, []string, []byte) error {
			return assert.AnError
		}

		provider := mail.NewSMTPProviderWithSender(cfg, send, unlimited(), slog.Default())
		err := provider.Send(ctx, testMessage)

		var transportErr *mail.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestLogProvider_Send(t *testing.T) {
	provider := mail.NewLogProvider(slog.Default())

	require.NoError(t, provider.Send(t.Context(), testMessage))
	assert.Equal(t, "Log", provider.Name())
}
