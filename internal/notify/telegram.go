package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"investalytics/server/internal/scoring"
)

// Config carries the Telegram delivery settings. A disabled config turns
// every send into a no-op so callers never need to guard.
type Config struct {
	Enabled  bool
	BotToken string
	ChatID   string
}

type Service struct {
	logger  *logrus.Logger
	client  *http.Client
	config  Config
	baseURL string
}

func NewService(config Config, logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config:  config,
		baseURL: "https://api.telegram.org",
	}
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.config.Enabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyTopInvestment sends a notification about the current best-ranked
// investment opportunity.
func (s *Service) NotifyTopInvestment(sp scoring.ScoredProperty) error {
	if !s.config.Enabled {
		return nil
	}

	message := fmt.Sprintf(
		"<b>Top Investment Opportunity</b>\n\n"+
			"🏠 %s\n"+
			"📍 %s, %s %s\n"+
			"💰 $%.0f\n"+
			"💵 Cash flow: $%.0f/mo\n"+
			"📊 Cap rate: %.2f%%\n"+
			"⭐ Score: %.1f (%s)",
		sp.Address,
		sp.City,
		sp.State,
		sp.ZipCode,
		sp.Price,
		sp.MonthlyCashFlow,
		sp.CapRate,
		sp.CompositeScore,
		sp.Recommendation,
	)

	return s.SendMessage(message)
}
