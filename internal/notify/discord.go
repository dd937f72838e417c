package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DiscordSender posts health and whale alerts to a Discord channel webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one alert to the webhook, title bolded per Discord markdown.
// Discord answers 204 on success.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	payload := map[string]string{
		"content": fmt.Sprintf("**%s**\n%s", title, message),
	}
	if err := postJSON(ctx, d.client, d.webhookURL, payload); err != nil {
		return fmt.Errorf("notify: discord: %w", err)
	}
	return nil
}

// Name returns the sender identifier used in delivery logs.
func (d *DiscordSender) Name() string {
	return "discord"
}
