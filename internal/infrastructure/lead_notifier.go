package infrastructure

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/interfaces"
)

// TelegramNotifier pushes new leads to an ops chat. Failures are the
// caller's to log; lead capture never depends on delivery.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier returns nil when no token is configured, which
// disables notifications entirely.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) interfaces.LeadNotifier {
	if token == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Warn("telegram notifier disabled", zap.Error(err))
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) NotifyLead(ctx context.Context, tenant *entities.Tenant, lead *entities.Lead) error {
	text := fmt.Sprintf("📥 *Novo lead* — %s\n\nNome: %s\nCidade: %s\nMensagem: %s",
		tenant.BusinessName, lead.Name, lead.City, lead.Message)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}
	return nil
}
