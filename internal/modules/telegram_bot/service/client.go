package service

import (
	"context"
	"fmt"
	"sync"

	"breakout_bot/internal/modules/config"
	health "breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/storage/settings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — единственный интерфейс управления стратегией: пошаговый
// ввод настроек, старт/стоп торговли, статус. Слушается только владелец.
type Telegram struct {
	bot   *tgbot.BotAPI
	cfg   *config.Config
	store *settings.Store
	state *health.State

	mu     sync.Mutex
	dialog *dialog // активный пошаговый ввод, nil если его нет
}

func NewTelegram(cfg *config.Config, store *settings.Store, state *health.State) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	return &Telegram{
		bot:   b,
		cfg:   cfg,
		store: store,
		state: state,
	}, nil
}

func (t *Telegram) reply(chatID int64, format string, args ...any) {
	msg := tgbot.NewMessage(chatID, fmt.Sprintf(format, args...))
	_, _ = t.bot.Send(msg)
}

// Send реализует notify.Notifier: события движка уходят в приватный канал.
func (t *Telegram) Send(_ context.Context, format string, args ...any) {
	chatID := t.cfg.Telegram.ChatID
	if chatID == 0 {
		chatID = t.cfg.Telegram.OwnerID
	}
	if chatID == 0 {
		return
	}
	t.reply(chatID, format, args...)
}

// Start — цикл long polling. Блокируется до закрытия канала обновлений.
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for update := range updates {
		t.handleUpdate(ctx, update)
	}
	return nil
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
