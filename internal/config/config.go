package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the notification relay.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port the relay endpoint listens on.
// - HealthPort: The port for the monitoring server.
// - AllowOrigin: The value of the Access-Control-Allow-Origin header.
// - Notification: Sender, recipient and subject of outgoing notifications.
// - Mail: The selected mail provider and its credentials.
// - Geocoder: Optional reverse geocoding used to enrich notifications.
type Config struct {
	Env          string             // Env is the current environment: local, development, production.
	Port         int                // Port is the relay endpoint port.
	HealthPort   int                // HealthPort is the monitoring server port.
	AllowOrigin  string             // AllowOrigin is sent in every CORS response.
	Notification NotificationConfig // Notification holds addressing of outgoing mail.
	Mail         MailConfig         // Mail holds the provider selection.
	Geocoder     GeocoderConfig     // Geocoder holds address enrichment settings.
}

// NotificationConfig holds addressing of outgoing notifications.
// Empty From or To is not an error at load time; the relay reports it per request.
type NotificationConfig struct {
	From          string
	To            string
	SubjectPrefix string
}

// MailConfig holds the selected mail provider and the credential resolved for it.
type MailConfig struct {
	Provider  string     // Provider is the lower-cased provider selector.
	APIKey    string     // APIKey is the credential of the selected REST provider.
	RateLimit int        // RateLimit is the outgoing requests per second, 0 for unlimited.
	SMTP      SMTPConfig // SMTP is used when Provider is "smtp".
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// GeocoderConfig holds reverse geocoding settings. An empty Provider disables enrichment.
type GeocoderConfig struct {
	Provider string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// MustLoad loads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics on values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("outreach_env", "production")
	env.SetDefault("outreach_port", "8888")
	env.SetDefault("outreach_health_port", "8080")
	env.SetDefault("outreach_allow_origin", "*")
	env.SetDefault("report_subject", "Új bejelentés")
	env.SetDefault("mail_rate_limit", "0")
	env.SetDefault("smtp_port", "587")
	env.SetDefault("geocoder_language", "hu")
	env.SetDefault("geocoder_timeout", "5s")

	port, err := strconv.Atoi(env.GetString("outreach_port"))
	if err != nil {
		panic("failed to parse relay port from configuration")
	}

	healthPort, err := strconv.Atoi(env.GetString("outreach_health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := strconv.Atoi(env.GetString("mail_rate_limit"))
	if err != nil {
		panic("failed to parse mail rate limit from configuration, must be an integer")
	}

	smtpPort, err := strconv.Atoi(env.GetString("smtp_port"))
	if err != nil {
		panic("failed to parse SMTP port from configuration")
	}

	geocoderTimeout, err := time.ParseDuration(env.GetString("geocoder_timeout"))
	if err != nil {
		panic("failed to parse geocoder timeout from configuration")
	}

	provider := strings.ToLower(firstSet(env, "mail_provider", "netlify_emails_provider"))
	if provider == "" {
		provider = "sendgrid"
	}

	return &Config{
		Env:         env.GetString("outreach_env"),
		Port:        port,
		HealthPort:  healthPort,
		AllowOrigin: env.GetString("outreach_allow_origin"),
		Notification: NotificationConfig{
			From:          firstSet(env, "report_from", "netlify_emails_from"),
			To:            firstSet(env, "report_to", "netlify_emails_to"),
			SubjectPrefix: env.GetString("report_subject"),
		},
		Mail: MailConfig{
			Provider:  provider,
			APIKey:    providerKey(env, provider),
			RateLimit: rateLimit,
			SMTP: SMTPConfig{
				Host:     env.GetString("smtp_host"),
				Port:     smtpPort,
				Username: env.GetString("smtp_username"),
				Password: env.GetString("smtp_password"),
			},
		},
		Geocoder: GeocoderConfig{
			Provider: strings.ToLower(env.GetString("geocoder_provider")),
			APIKey:   env.GetString("geocoder_api_key"),
			Language: env.GetString("geocoder_language"),
			Timeout:  geocoderTimeout,
		},
	}
}

// providerKey resolves the credential of the selected provider. The generic
// NETLIFY_EMAILS_PROVIDER_API_KEY only counts for SendGrid when it was also
// selected through NETLIFY_EMAILS_PROVIDER.
func providerKey(env *viper.Viper, provider string) string {
	switch provider {
	case "sendgrid":
		if key := env.GetString("sendgrid_api_key"); key != "" {
			return key
		}
		if strings.EqualFold(env.GetString("netlify_emails_provider"), "sendgrid") {
			return env.GetString("netlify_emails_provider_api_key")
		}
		return ""
	case "resend":
		return env.GetString("resend_api_key")
	case "postmark":
		return env.GetString("postmark_server_token")
	default:
		return ""
	}
}

// firstSet returns the first non-empty value among keys.
func firstSet(env *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(env.GetString(key)); value != "" {
			return value
		}
	}

	return ""
}
