package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voicebot/internal/domain"
	"voicebot/internal/infra"
)

const slowDownReply = "Easy there! Please slow down a little."

// Client adapts the Telegram Bot API to the relay's update source and
// replier ports. Voice payloads are downloaded before a message is
// handed over, so the application layer never touches the transport.
type Client struct {
	api         *tgbotapi.BotAPI
	updates     tgbotapi.UpdatesChannel
	limiter     *RateLimiter
	retry       infra.RetryConfig
	httpClient  *http.Client
	logger      *slog.Logger
	pollTimeout int
}

// NewClient connects to the Bot API. A nil limiter disables per-user
// rate limiting.
func NewClient(token string, pollTimeout int, limiter *RateLimiter, logger *slog.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api: %w", err)
	}

	return &Client{
		api:         api,
		limiter:     limiter,
		retry:       infra.DefaultRetryConfig(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		pollTimeout: pollTimeout,
	}, nil
}

func (c *Client) Name() string {
	return "telegram"
}

func (c *Client) Start(_ context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout
	c.updates = c.api.GetUpdatesChan(u)
	c.logger.Info("telegram polling started", "bot", c.api.Self.UserName)
	return nil
}

func (c *Client) Stop() error {
	c.api.StopReceivingUpdates()
	return nil
}

// Next blocks until a routable message arrives. Non-message updates are
// skipped here; an over-limit sender gets one short reply and their
// message is dropped.
func (c *Client) Next(ctx context.Context) (domain.Message, error) {
	for {
		select {
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		case update, ok := <-c.updates:
			if !ok {
				return domain.Message{}, fmt.Errorf("update channel closed")
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			m := update.Message

			if c.limiter != nil && !c.limiter.Allow(m.From.ID) {
				c.logger.Warn("rate limited", "user_id", m.From.ID)
				if err := c.SendText(ctx, m.Chat.ID, slowDownReply); err != nil {
					c.logger.Error("sending rate limit reply", "error", err)
				}
				continue
			}

			msg := domain.Message{
				UserID: m.From.ID,
				ChatID: m.Chat.ID,
				Sender: strings.TrimSpace(m.From.FirstName + " " + m.From.LastName),
				Text:   m.Text,
			}

			if m.Voice != nil {
				voice, err := c.downloadVoice(ctx, m.Voice.FileID)
				if err != nil {
					c.logger.Error("downloading voice", "file_id", m.Voice.FileID, "error", err)
					if err := c.SendText(ctx, m.Chat.ID, "Sorry, I could not download that voice, please send it again!"); err != nil {
						c.logger.Error("sending download failure reply", "error", err)
					}
					continue
				}
				msg.Voice = voice
				msg.VoiceID = m.Voice.FileID
			}

			return msg, nil
		}
	}
}

func (c *Client) downloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}

	data, err := fetchFile(ctx, c.httpClient, c.retry, url)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	return data, nil
}

// fetchFile downloads url, retrying only the statuses the file endpoint
// can recover from; anything else fails on the first attempt.
func fetchFile(ctx context.Context, client *http.Client, cfg infra.RetryConfig, url string) ([]byte, error) {
	var data []byte
	var permErr error

	err := infra.WithRetry(ctx, cfg, func() error {
		permErr = nil

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("file download %d (retryable): %s", resp.StatusCode, resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			permErr = fmt.Errorf("file download: %s", resp.Status)
			return nil
		}

		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err == nil {
		err = permErr
	}
	return data, err
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (c *Client) SendVoice(ctx context.Context, chatID int64, voice []byte) error {
	file := tgbotapi.FileBytes{Name: "clip" + domain.ClipExtension, Bytes: voice}
	return c.send(ctx, tgbotapi.NewVoice(chatID, file))
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	err := infra.WithRetry(ctx, c.retry, func() error {
		_, err := c.api.Send(msg)
		return err
	})
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}
