package executor

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/slack-go/slack"
)

// SMTPNotifier delivers notifications as plain-text mail. When disabled it
// is a no-op, matching how the notification toggle behaves everywhere else.
type SMTPNotifier struct {
	addr    string
	from    string
	to      string
	enabled bool
}

// NewSMTPNotifier creates an SMTP-backed notifier. addr is host:port of the
// relay.
func NewSMTPNotifier(addr, from, to string, enabled bool) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from, to: to, enabled: enabled}
}

func (n *SMTPNotifier) Send(_ context.Context, subject, body string) error {
	if !n.enabled {
		slog.Debug("email notifier disabled, skipping", "subject", subject)
		return nil
	}

	msg := []byte("From: " + n.from + "\r\n" +
		"To: " + n.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body)

	if err := smtp.SendMail(n.addr, nil, n.from, []string{n.to}, msg); err != nil {
		return fmt.Errorf("sending mail via %s: %w", n.addr, err)
	}
	return nil
}

// SlackNotifier posts notifications to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a Slack-backed notifier.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

func (n *SlackNotifier) Send(ctx context.Context, subject, body string) error {
	text := "*" + subject + "*\n" + body
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting to slack channel %s: %w", n.channel, err)
	}
	return nil
}
