// internal/services/telegram_client.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/config"
)

// TelegramClient posts notifications to every configured chat through the
// Bot API: the text with sendMessage, then each photo with sendPhoto.
type TelegramClient struct {
	baseURL   string
	token     string
	chatIDs   []string
	publicURL *url.URL
	http      *http.Client
}

func NewTelegramClient(cfg config.TelegramConfig) *TelegramClient {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &TelegramClient{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		token:   cfg.BotToken,
		chatIDs: cfg.ChatIDs,
		http:    &http.Client{Timeout: timeout},
	}
	if cfg.PublicBaseURL != "" {
		if u, err := url.Parse(cfg.PublicBaseURL); err == nil && isHTTPURL(u) {
			c.publicURL = u
		} else {
			logrus.WithField("public_base_url", cfg.PublicBaseURL).Warn("Ignoring invalid public base URL")
		}
	}
	return c
}

// Send delivers msg to all chats and returns the last failure, if any. A
// failed chat does not stop delivery to the others. Steps already marked in
// msg.Progress are skipped, so a retried message only repeats what failed.
func (c *TelegramClient) Send(ctx context.Context, msg Message) error {
	if len(c.chatIDs) == 0 {
		return fmt.Errorf("telegram chat ids empty")
	}

	var lastErr error
	for _, chatID := range c.chatIDs {
		step := chatID + ":text"
		if !msg.Progress.Done(step) {
			form := url.Values{}
			form.Set("chat_id", chatID)
			form.Set("text", msg.Text)
			form.Set("parse_mode", "HTML")
			form.Set("disable_web_page_preview", "1")
			if err := c.call(ctx, "sendMessage", form); err != nil {
				lastErr = err
				continue
			}
			msg.Progress.Mark(step)
		}

		for i, photo := range msg.Photos {
			step := chatID + ":photo:" + strconv.Itoa(i)
			if msg.Progress.Done(step) {
				continue
			}

			photoURL, ok := c.photoURL(photo.URL)
			if !ok {
				logrus.WithField("photo", photo.URL).Debug("Skipping photo without a public URL")
				msg.Progress.Mark(step)
				continue
			}

			form := url.Values{}
			form.Set("chat_id", chatID)
			form.Set("photo", photoURL)
			form.Set("caption", photo.Caption)
			form.Set("parse_mode", "HTML")
			if err := c.call(ctx, "sendPhoto", form); err != nil {
				lastErr = err
				continue
			}
			msg.Progress.Mark(step)
		}
	}
	return lastErr
}

// photoURL returns an absolute http(s) link the Bot API can fetch. Relative
// paths need a public base URL.
func (c *TelegramClient) photoURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || raw == "" {
		return "", false
	}
	if u.IsAbs() {
		return u.String(), isHTTPURL(u)
	}
	if c.publicURL == nil {
		return "", false
	}
	return c.publicURL.ResolveReference(u).String(), true
}

func isHTTPURL(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (c *TelegramClient) call(ctx context.Context, method string, form url.Values) error {
	endpoint := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		// the URL carries the bot token; keep it out of logs
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram %s status %d: %s", method, resp.StatusCode, string(body))
	}
	return nil
}
