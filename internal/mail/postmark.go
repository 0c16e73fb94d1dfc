package mail

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// PostmarkURL is the Postmark single-email endpoint.
const PostmarkURL = "https://api.postmarkapp.com/email"

// PostmarkProvider delivers messages through the Postmark REST API.
type PostmarkProvider struct {
	endpoint restEndpoint
}

type postmarkRequest struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	HTMLBody      string `json:"HtmlBody"`
	MessageStream string `json:"MessageStream"`
}

// NewPostmarkProvider creates a Postmark provider authorized by a server token.
func NewPostmarkProvider(
	client HTTPClient,
	url string,
	serverToken string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *PostmarkProvider {
	return &PostmarkProvider{endpoint: restEndpoint{
		name:    "Postmark",
		client:  client,
		url:     url,
		headers: map[string]string{"X-Postmark-Server-Token": serverToken},
		limiter: limiter,
		log:     log,
	}}
}

// Name implements Provider.
func (pp *PostmarkProvider) Name() string { return pp.endpoint.name }

// Send implements Provider.
func (pp *PostmarkProvider) Send(ctx context.Context, msg Message) error {
	return pp.endpoint.post(ctx, postmarkRequest{
		From:          msg.From,
		To:            msg.To,
		Subject:       msg.Subject,
		HTMLBody:      msg.HTML,
		MessageStream: "outbound",
	})
}
