package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"propshare/internal/domain"
	"propshare/internal/utils"
)

// messageSender is the part of *tgbotapi.BotAPI the notifier needs
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NotificationService posts withdrawal events to the operators' chat.
type NotificationService struct {
	sender  messageSender
	chatID  int64
	enabled bool
}

// NewNotificationService connects to the Bot API. An empty token or chat id
// returns a disabled service that silently drops every message.
func NewNotificationService(botToken string, chatID int64) (*NotificationService, *tgbotapi.BotAPI, error) {
	if botToken == "" || chatID == 0 {
		return &NotificationService{}, nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	log.Printf("[OK] Telegram bot authorized as @%s", bot.Self.UserName)

	return newNotificationService(bot, chatID), bot, nil
}

func newNotificationService(sender messageSender, chatID int64) *NotificationService {
	return &NotificationService{sender: sender, chatID: chatID, enabled: true}
}

// Enabled reports whether messages are actually sent
func (s *NotificationService) Enabled() bool {
	return s.enabled
}

// SendWithdrawalRequest tells operators a withdrawal is waiting for review
func (s *NotificationService) SendWithdrawalRequest(user domain.User, req domain.WithdrawalRequest) error {
	if !s.enabled {
		return nil
	}

	message := fmt.Sprintf(
		"💸 *NEW WITHDRAWAL REQUEST*\n\n"+
			"👤 User: `%s` (%s)\n"+
			"━━━━━━━━━━━━━━━━━\n"+
			"💰 Amount: `$%s MXN`\n"+
			"🏦 CLABE: `%s`\n"+
			"🪪 Holder: %s\n"+
			"🕒 Time: `%s`\n\n"+
			"Request: `%s`\n"+
			"Reply /approve %s or /reject %s",
		user.PublicID,
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, user.Name),
		req.Amount.StringFixed(2),
		req.Clabe,
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, req.AccountHolderName),
		utils.FormatLocal(req.Date),
		req.ID,
		req.ID,
		req.ID,
	)

	return s.sendMessage(message)
}

// SendWithdrawalDecision reports an approved or rejected withdrawal
func (s *NotificationService) SendWithdrawalDecision(user domain.User, req domain.WithdrawalRequest) error {
	if !s.enabled {
		return nil
	}

	statusEmoji := "✅"
	if req.Status == domain.WithdrawalRejected {
		statusEmoji = "❌"
	}

	processed := "-"
	if req.ProcessedAt != nil {
		processed = utils.FormatLocal(*req.ProcessedAt)
	}

	message := fmt.Sprintf(
		"%s *WITHDRAWAL %s*\n\n"+
			"👤 User: `%s`\n"+
			"💰 Amount: `$%s MXN`\n"+
			"🕒 Processed: `%s`\n"+
			"Request: `%s`",
		statusEmoji,
		strings.ToUpper(req.Status),
		user.PublicID,
		req.Amount.StringFixed(2),
		processed,
		req.ID,
	)

	return s.sendMessage(message)
}

// SendText posts a plain text message
func (s *NotificationService) SendText(text string) error {
	if !s.enabled {
		return nil
	}
	return s.sendMessage(text)
}

func (s *NotificationService) sendMessage(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
