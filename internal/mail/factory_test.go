package mail_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/outreach/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name     string
		config   mail.ProviderConfig
		wantName string
		wantErr  error
	}{
		{
			name:     "sendgrid with key",
			config:   mail.ProviderConfig{Type: mail.ProviderTypeSendGrid, APIKey: "k"},
			wantName: "SendGrid",
		},
		{
			name:    "sendgrid without key",
			config:  mail.ProviderConfig{Type: mail.ProviderTypeSendGrid},
			wantErr: mail.ErrMissingCredential,
		},
		{
			name:     "resend with key and rate limit",
			config:   mail.ProviderConfig{Type: mail.ProviderTypeResend, APIKey: "k", RateLimit: 2},
			wantName: "Resend",
		},
		{
			name:    "resend without key",
			config:  mail.ProviderConfig{Type: mail.ProviderTypeResend},
			wantErr: mail.ErrMissingCredential,
		},
		{
			name:     "postmark with token",
			config:   mail.ProviderConfig{Type: mail.ProviderTypePostmark, APIKey: "t"},
			wantName: "Postmark",
		},
		{
			name:    "postmark without token",
			config:  mail.ProviderConfig{Type: mail.ProviderTypePostmark},
			wantErr: mail.ErrMissingCredential,
		},
		{
			name:     "smtp with host",
			config:   mail.ProviderConfig{Type: mail.ProviderTypeSMTP, SMTP: mail.SMTPConfig{Host: "mx"}},
			wantName: "SMTP",
		},
		{
			name:    "smtp without host",
			config:  mail.ProviderConfig{Type: mail.ProviderTypeSMTP},
			wantErr: mail.ErrMissingCredential,
		},
		{
			name:     "log needs nothing",
			config:   mail.ProviderConfig{Type: mail.ProviderTypeLog},
			wantName: "Log",
		},
		{
			name:    "unknown provider",
			config:  mail.ProviderConfig{Type: "mailgun"},
			wantErr: mail.ErrUnsupportedProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Logger = logger

			provider, err := mail.NewProvider(tt.config)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestParseProviderType(t *testing.T) {
	assert.Equal(t, mail.ProviderTypeResend, mail.ParseProviderType(" Resend "))
	assert.Equal(t, mail.ProviderTypeSendGrid, mail.ParseProviderType("SENDGRID"))
}
