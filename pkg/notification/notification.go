// Package notification delivers operational notifications (e.g. "order
// placed") through one or more channels. Channels are best-effort; a
// failing channel does not stop the others.
package notification

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/httpclient"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/mail"
)

// Notification is a channel-agnostic message.
type Notification struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// Channel delivers a notification somewhere.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Notifier fans a notification out to all channels.
type Notifier struct {
	channels []Channel
}

func New(channels ...Channel) *Notifier {
	return &Notifier{channels: channels}
}

// Notify sends n to every channel, logging failures.
func (nf *Notifier) Notify(ctx context.Context, n Notification) {
	for _, ch := range nf.channels {
		if err := ch.Send(ctx, n); err != nil {
			logger.WithCtx(ctx).Error("notification failed",
				"channel", ch.Name(), "title", n.Title, "error", err)
		}
	}
}

// MailChannel emails notifications to a fixed recipient.
type MailChannel struct {
	To string
}

func (c *MailChannel) Name() string { return "mail" }

func (c *MailChannel) Send(_ context.Context, n Notification) error {
	return mail.New().
		To(c.To).
		Subject(n.Title).
		Text(n.Body).
		Send()
}

// WebhookChannel POSTs notifications as JSON to a configured URL.
type WebhookChannel struct {
	URL    string
	client *httpclient.Client
}

func NewWebhookChannel(url string) *WebhookChannel {
	return &WebhookChannel{
		URL:    url,
		client: httpclient.New().Timeout(5 * time.Second),
	}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, n Notification) error {
	return c.client.PostJSON(ctx, c.URL, n, nil)
}
