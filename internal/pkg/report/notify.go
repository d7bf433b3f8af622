package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const notifyTimeout = 15 * time.Second

// Notifier delivers a run summary to operators.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// DiscordNotifier posts the summary as an embed to a Discord webhook.
type DiscordNotifier struct {
	URL   string
	Color int
	HTTP  *http.Client
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

func NewDiscordNotifier(url string, color int) *DiscordNotifier {
	return &DiscordNotifier{
		URL:   url,
		Color: color,
		HTTP:  &http.Client{Timeout: notifyTimeout},
	}
}

func (d *DiscordNotifier) Notify(ctx context.Context, s Summary) error {
	body, err := json.Marshal(discordPayload{
		Embeds: []discordEmbed{{
			Title:       SummaryTitle,
			Description: s.Markdown(),
			Color:       d.Color,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("webhook returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	return nil
}
