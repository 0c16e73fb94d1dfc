package mail

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// ProviderType represents the type of mail provider.
type ProviderType string

const (
	// ProviderTypeSendGrid represents the SendGrid v3 REST API.
	ProviderTypeSendGrid ProviderType = "sendgrid"
	// ProviderTypeResend represents the Resend REST API.
	ProviderTypeResend ProviderType = "resend"
	// ProviderTypePostmark represents the Postmark REST API.
	ProviderTypePostmark ProviderType = "postmark"
	// ProviderTypeSMTP represents a plain SMTP relay.
	ProviderTypeSMTP ProviderType = "smtp"
	// ProviderTypeLog writes notifications to the log instead of sending them.
	ProviderTypeLog ProviderType = "log"
)

// ParseProviderType normalizes a configured selector.
func ParseProviderType(s string) ProviderType {
	return ProviderType(strings.ToLower(strings.TrimSpace(s)))
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// ProviderConfig holds configuration for creating a mail provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key or server token of REST providers
	SMTP      SMTPConfig   // SMTP relay settings
	RateLimit int          // Outgoing requests per second, 0 means unlimited
	Logger    *slog.Logger
}

// NewProvider creates the mail provider selected by config.Type.
// A missing credential yields an error wrapping ErrMissingCredential,
// an unknown type one wrapping ErrUnsupportedProvider.
func NewProvider(config ProviderConfig) (Provider, error) {
	limiter := newLimiter(config.RateLimit)
	client := &http.Client{}

	switch config.Type {
	case ProviderTypeSendGrid:
		if config.APIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, config.Type)
		}
		return NewSendGridProvider(client, SendGridURL, config.APIKey, limiter, config.Logger), nil
	case ProviderTypeResend:
		if config.APIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, config.Type)
		}
		return NewResendProvider(client, ResendURL, config.APIKey, limiter, config.Logger), nil
	case ProviderTypePostmark:
		if config.APIKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, config.Type)
		}
		return NewPostmarkProvider(client, PostmarkURL, config.APIKey, limiter, config.Logger), nil
	case ProviderTypeSMTP:
		if config.SMTP.Host == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, config.Type)
		}
		return NewSMTPProvider(config.SMTP, limiter, config.Logger), nil
	case ProviderTypeLog:
		return NewLogProvider(config.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, config.Type)
	}
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}
