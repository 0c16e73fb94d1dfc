package mail

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// SendGridURL is the SendGrid v3 send endpoint.
const SendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridProvider delivers messages through the SendGrid v3 REST API.
type SendGridProvider struct {
	endpoint restEndpoint
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// NewSendGridProvider creates a SendGrid provider authorized by apiKey.
func NewSendGridProvider(
	client HTTPClient,
	url string,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *SendGridProvider {
	return &SendGridProvider{endpoint: restEndpoint{
		name:    "SendGrid",
		client:  client,
		url:     url,
		headers: map[string]string{"Authorization": "Bearer " + apiKey},
		limiter: limiter,
		log:     log,
	}}
}

// Name implements Provider.
func (sp *SendGridProvider) Name() string { return sp.endpoint.name }

// Send implements Provider.
func (sp *SendGridProvider) Send(ctx context.Context, msg Message) error {
	return sp.endpoint.post(ctx, sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             sendGridAddress{Email: msg.From},
		Subject:          msg.Subject,
		Content:          []sendGridContent{{Type: "text/html", Value: msg.HTML}},
	})
}
