package mail

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// ResendURL is the Resend send endpoint.
const ResendURL = "https://api.resend.com/emails"

// ResendProvider delivers messages through the Resend REST API.
type ResendProvider struct {
	endpoint restEndpoint
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// NewResendProvider creates a Resend provider authorized by apiKey.
func NewResendProvider(client HTTPClient, url, apiKey string, limiter *rate.Limiter, log *slog.Logger) *ResendProvider {
	return &ResendProvider{endpoint: restEndpoint{
		name:    "Resend",
		client:  client,
		url:     url,
		headers: map[string]string{"Authorization": "Bearer " + apiKey},
		limiter: limiter,
		log:     log,
	}}
}

// Name implements Provider.
func (rp *ResendProvider) Name() string { return rp.endpoint.name }

// Send implements Provider.
func (rp *ResendProvider) Send(ctx context.Context, msg Message) error {
	return rp.endpoint.post(ctx, resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
}
