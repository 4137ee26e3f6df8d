package service

import (
	"context"
	"strconv"
	"strings"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/logger"
)

// Шаги пошагового ввода настроек стратегии.
const (
	stepWindow = iota
	stepKline
	stepSMA
	stepMultiplier
)

// допустимые размеры свечи Bybit
var allowedIntervals = []string{"1", "3", "5", "15", "30", "60", "120", "240", "360", "720", "D", "W", "M"}

// Параметры, которые пользователю обычно трогать не нужно —
// заводятся с дефолтами, меняются прямым апсертом при желании.
var defaultVars = map[string]string{
	models.SettingRiskLimit:    "0.8",
	models.SettingTPRate:       "0.02",
	models.SettingSLRate:       "0.01",
	models.SettingTradeEnabled: "0",
}

type dialog struct {
	step int
	vars map[string]string
}

// beginSetup стартует пошаговый ввод: window -> kline -> sma_period -> multiplicator.
func (t *Telegram) beginSetup(chatID int64) {
	t.mu.Lock()
	t.dialog = &dialog{step: stepWindow, vars: make(map[string]string)}
	t.mu.Unlock()

	t.reply(chatID, "Настройка стратегии.\n\nСколько дней брать для расчёта уровней? (5-365)")
}

// handleSetupStep принимает очередной ответ пользователя.
// Невалидный ввод не двигает шаг: переспрашиваем.
func (t *Telegram) handleSetupStep(ctx context.Context, chatID int64, text string) {
	t.mu.Lock()
	d := t.dialog
	t.mu.Unlock()
	if d == nil {
		t.reply(chatID, "Начни с /start")
		return
	}

	text = strings.TrimSpace(text)

	switch d.step {
	case stepWindow:
		n, ok := parseWindowDays(text)
		if !ok {
			t.reply(chatID, "Нужно целое число от 5 до 365. Ещё раз:")
			return
		}
		d.vars[models.SettingWindow] = strconv.Itoa(n)
		d.step = stepKline
		t.reply(chatID, "Размер свечи? Один из: %s", strings.Join(allowedIntervals, ", "))

	case stepKline:
		if !isAllowedInterval(text) {
			t.reply(chatID, "Такого интервала нет. Один из: %s", strings.Join(allowedIntervals, ", "))
			return
		}
		d.vars[models.SettingKline] = text
		d.step = stepSMA
		t.reply(chatID, "Период скользящего среднего объёма? (2-100)")

	case stepSMA:
		n, ok := parseSMAPeriod(text)
		if !ok {
			t.reply(chatID, "Нужно целое число от 2 до 100. Ещё раз:")
			return
		}
		d.vars[models.SettingSMAPeriod] = strconv.Itoa(n)
		d.step = stepMultiplier
		t.reply(chatID, "Множитель объёма для пробоя? (1-50, можно дробный)")

	case stepMultiplier:
		if _, ok := parseMultiplier(text); !ok {
			t.reply(chatID, "Нужно число от 1 до 50. Ещё раз:")
			return
		}
		d.vars[models.SettingMultiplier] = text

		t.finishSetup(ctx, chatID, d)
	}
}

func parseWindowDays(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 5 || n > 365 {
		return 0, false
	}
	return n, true
}

// период 1 давал бы "среднее" из одной свечи — такое не принимаем
func parseSMAPeriod(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 2 || n > 100 {
		return 0, false
	}
	return n, true
}

func parseMultiplier(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	// сравнение через && отсекает и NaN: ParseFloat его пропускает
	if err != nil || !(f >= 1 && f <= 50) {
		return 0, false
	}
	return f, true
}

// finishSetup дописывает дефолты и сохраняет всё одной транзакцией,
// чтобы движок не стартовал на половине настроек.
func (t *Telegram) finishSetup(ctx context.Context, chatID int64, d *dialog) {
	vars := make(map[string]string, len(d.vars)+len(defaultVars))
	for k, v := range defaultVars {
		vars[k] = v
	}
	for k, v := range d.vars {
		vars[k] = v
	}

	if err := t.store.UpsertBulk(ctx, vars); err != nil {
		logger.Error("[TG] сохранение настроек: %v", err)
		t.reply(chatID, "Не удалось сохранить настройки, попробуй ещё раз: /start")
		return
	}

	t.mu.Lock()
	t.dialog = nil
	t.mu.Unlock()

	t.reply(chatID,
		"Готово. window=%s, kline=%s, sma_period=%s, multiplicator=%s.\n"+
			"Торговля пока выключена: /start_trade включит, /stop_trade выключит, /status покажет состояние.",
		vars[models.SettingWindow], vars[models.SettingKline],
		vars[models.SettingSMAPeriod], vars[models.SettingMultiplier])
}

func isAllowedInterval(v string) bool {
	for _, a := range allowedIntervals {
		if a == v {
			return true
		}
	}
	return false
}
