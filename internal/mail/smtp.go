package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSMTPPort = 587
	mimeLineLength  = 76
)

// SendFunc matches smtp.SendMail and lets tests replace the network dialog.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPProvider delivers messages through an SMTP relay.
type SMTPProvider struct {
	addr    string
	host    string
	auth    smtp.Auth
	send    SendFunc
	limiter *rate.Limiter
	log     *slog.Logger
	now     func() time.Time
}

// NewSMTPProvider creates a provider for the relay described by cfg.
// PLAIN authentication is used when a username is configured.
func NewSMTPProvider(cfg SMTPConfig, limiter *rate.Limiter, log *slog.Logger) *SMTPProvider {
	return NewSMTPProviderWithSender(cfg, smtp.SendMail, limiter, log)
}

// NewSMTPProviderWithSender creates an SMTP provider with a custom send function.
func NewSMTPProviderWithSender(cfg SMTPConfig, send SendFunc, limiter *rate.Limiter, log *slog.Logger) *SMTPProvider {
	port := cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPProvider{
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		host:    cfg.Host,
		auth:    auth,
		send:    send,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

// Name implements Provider.
func (sp *SMTPProvider) Name() string { return "SMTP" }

// Send implements Provider. SMTP reply errors become *ProviderError carrying the
// reply code; anything else is a *TransportError.
func (sp *SMTPProvider) Send(ctx context.Context, msg Message) error {
	if err := sp.limiter.Wait(ctx); err != nil {
		return &TransportError{Provider: sp.Name(), Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	sp.log.DebugContext(ctx, "Sending notification over SMTP", "addr", sp.addr, "to", msg.To)

	err := sp.send(sp.addr, sp.auth, msg.From, []string{msg.To}, sp.compose(msg))
	if err == nil {
		return nil
	}

	var reply *textproto.Error
	if errors.As(err, &reply) {
		sp.log.ErrorContext(ctx, "SMTP relay rejected message", "code", reply.Code, "msg", reply.Msg)
		return &ProviderError{Provider: sp.Name(), Status: reply.Code, Body: reply.Msg}
	}

	return &TransportError{Provider: sp.Name(), Err: err}
}

// compose builds a single-part HTML MIME message with a base64 body.
func (sp *SMTPProvider) compose(msg Message) []byte {
	var buf bytes.Buffer

	header := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
	}
	header("From", msg.From)
	header("To", msg.To)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", sp.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "base64")
	buf.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(msg.HTML))
	for len(encoded) > mimeLineLength {
		buf.WriteString(encoded[:mimeLineLength])
		buf.WriteString("\r\n")
		encoded = encoded[mimeLineLength:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	return buf.Bytes()
}
