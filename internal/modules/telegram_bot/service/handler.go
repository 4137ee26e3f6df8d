package service

import (
	"context"
	"strings"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	// бот персональный: чужие сообщения молча игнорируем
	if t.cfg.Telegram.OwnerID != 0 && msg.From.ID != t.cfg.Telegram.OwnerID {
		logger.Info("[TG] сообщение не от владельца: %d", msg.From.ID)
		return
	}

	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			t.beginSetup(chatID)
		case "start_trade":
			t.setTrading(ctx, chatID, true)
		case "stop_trade":
			t.setTrading(ctx, chatID, false)
		case "status":
			t.handleStatus(ctx, chatID)
		default:
			t.reply(chatID, "Команды: /start, /start_trade, /stop_trade, /status")
		}
		return
	}

	t.handleSetupStep(ctx, chatID, msg.Text)
}

func (t *Telegram) setTrading(ctx context.Context, chatID int64, enabled bool) {
	value := "0"
	if enabled {
		value = "1"
	}
	if err := t.store.Upsert(ctx, models.SettingTradeEnabled, value); err != nil {
		logger.Error("[TG] start_trade: %v", err)
		t.reply(chatID, "Не получилось, попробуй ещё раз")
		return
	}
	if enabled {
		t.reply(chatID, "Торговля включена")
		return
	}
	t.reply(chatID, "Торговля выключена, сигналы только логируются")
}

func (t *Telegram) handleStatus(ctx context.Context, chatID int64) {
	raw, err := t.store.SelectAll(ctx)
	if err != nil {
		logger.Error("[TG] status: %v", err)
		t.reply(chatID, "Не удалось прочитать настройки")
		return
	}
	if len(raw) == 0 {
		t.reply(chatID, "Настроек нет, начни с /start")
		return
	}

	var b strings.Builder
	b.WriteString("Настройки:\n")
	for _, name := range []string{
		models.SettingWindow, models.SettingKline, models.SettingSMAPeriod,
		models.SettingMultiplier, models.SettingTPRate, models.SettingSLRate,
		models.SettingRiskLimit, models.SettingTradeEnabled,
	} {
		if v, ok := raw[name]; ok {
			b.WriteString(name + " = " + v + "\n")
		}
	}

	b.WriteString("\nСервис: ")
	if t.state.Ready() {
		b.WriteString("работает")
	} else {
		b.WriteString("ещё запускается")
	}
	if last := t.state.LastTick(); !last.IsZero() {
		b.WriteString(", последний тик " + last.UTC().Format("15:04:05") + " UTC")
	}

	t.reply(chatID, "%s", b.String())
}
