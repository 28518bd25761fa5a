package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/secrets"
)

const telegramAPI = "https://api.telegram.org/bot"

// TelegramNotifier posts milestones to a Telegram chat or channel
type TelegramNotifier struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a notifier for chatID
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	return &TelegramNotifier{
		baseURL:    telegramAPI,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// TelegramFromEnv reads TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID, opening
// sealed values with sealer.
func TelegramFromEnv(sealer *secrets.Sealer) (*TelegramNotifier, error) {
	token, err := secrets.Reveal(sealer, os.Getenv("TELEGRAM_BOT_TOKEN"))
	if err != nil {
		return nil, fmt.Errorf("reading TELEGRAM_BOT_TOKEN: %w", err)
	}
	chatID, err := secrets.Reveal(sealer, os.Getenv("TELEGRAM_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("reading TELEGRAM_CHAT_ID: %w", err)
	}
	return NewTelegramNotifier(token, chatID)
}

// Notify sends one message per milestone
func (n *TelegramNotifier) Notify(milestones []Milestone) error {
	for _, m := range milestones {
		if err := n.sendMessage(formatPost(m)); err != nil {
			logger.IncrCounter("notifier.errors")
			return fmt.Errorf("failed to send milestone %d%%: %w", m.Threshold, err)
		}
		logger.IncrCounter("notifier.posts")
		logger.Info("sent milestone to telegram", logger.Fields{"threshold": m.Threshold})
	}
	return nil
}

func (n *TelegramNotifier) sendMessage(text string) error {
	url := fmt.Sprintf("%s%s/sendMessage", n.baseURL, n.botToken)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"disable_web_page_preview": false,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram API error (status %d)", resp.StatusCode)
		}
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
