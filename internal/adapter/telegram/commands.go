package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"propshare/internal/domain"
	"propshare/internal/usecase"
)

// WithdrawalDesk is what the operator commands act on
type WithdrawalDesk interface {
	ListWithdrawals(ctx context.Context, status string) ([]domain.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, requestID uuid.UUID) (*domain.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, requestID uuid.UUID) (*domain.WithdrawalRequest, error)
	Statistics(ctx context.Context) (*usecase.LedgerStats, error)
}

// CommandHandler answers operator commands sent from the configured chat.
// Messages from any other chat are ignored.
type CommandHandler struct {
	desk   WithdrawalDesk
	chatID int64
}

func NewCommandHandler(desk WithdrawalDesk, chatID int64) *CommandHandler {
	return &CommandHandler{desk: desk, chatID: chatID}
}

// Start polls for updates until ctx is done
func (h *CommandHandler) Start(ctx context.Context, bot *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	log.Println("[OK] Telegram operator commands listening")
	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			reply := h.Handle(ctx, update.Message.Chat.ID, update.Message.Command(), update.Message.CommandArguments())
			if reply == "" {
				continue
			}
			if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				log.Printf("[WARN] Failed to answer telegram command: %v", err)
			}
		}
	}
}

// Handle runs a single command and returns the reply text
func (h *CommandHandler) Handle(ctx context.Context, chatID int64, command, args string) string {
	if chatID != h.chatID {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch command {
	case "start", "help":
		return "Available commands:\n" +
			"/pending - list pending withdrawals\n" +
			"/approve <request id>\n" +
			"/reject <request id>\n" +
			"/stats - ledger totals"

	case "pending":
		requests, err := h.desk.ListWithdrawals(ctx, domain.WithdrawalPending)
		if err != nil {
			return "❌ " + domain.UserMessage(err)
		}
		if len(requests) == 0 {
			return "No pending withdrawals"
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d pending withdrawal(s):\n", len(requests))
		for _, r := range requests {
			fmt.Fprintf(&b, "\n%s\n  $%s to %s (%s)", r.ID, r.Amount.StringFixed(2), r.AccountHolderName, r.Clabe)
		}
		return b.String()

	case "approve", "reject":
		id, err := uuid.Parse(strings.TrimSpace(args))
		if err != nil {
			return fmt.Sprintf("Usage: /%s <request id>", command)
		}
		decide := h.desk.ApproveWithdrawal
		if command == "reject" {
			decide = h.desk.RejectWithdrawal
		}
		req, err := decide(ctx, id)
		if err != nil {
			return "❌ " + domain.UserMessage(err)
		}
		return fmt.Sprintf("✅ Withdrawal %s %s", req.ID, req.Status)

	case "stats":
		stats, err := h.desk.Statistics(ctx)
		if err != nil {
			return "❌ " + domain.UserMessage(err)
		}
		return fmt.Sprintf(
			"Users: %d\nTotal balance: $%s\nActive investments: %d ($%s)\nPending withdrawals: %d ($%s)\nCommissions paid: $%s",
			stats.Users,
			stats.TotalBalance.StringFixed(2),
			stats.ActiveInvestments,
			stats.TotalInvested.StringFixed(2),
			stats.PendingWithdrawals,
			stats.PendingAmount.StringFixed(2),
			stats.CommissionsPaid.StringFixed(2),
		)

	default:
		return "ℹ️ Use /help for the list of commands"
	}
}
