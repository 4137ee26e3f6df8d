package models

import (
	"errors"
	"fmt"
	"strconv"
)

// Имена переменных в settings_vars. Заполняются через телеграм-бота.
const (
	SettingWindow       = "window"
	SettingKline        = "kline"
	SettingSMAPeriod    = "sma_period"
	SettingMultiplier   = "multiplicator"
	SettingTPRate       = "tp_rate"
	SettingSLRate       = "sl_rate"
	SettingRiskLimit    = "risk_limit"
	SettingTradeEnabled = "start_trade"
)

// ErrSettingsIncomplete — не все переменные заведены пользователем.
// Это не фатальная ошибка: ждём и перечитываем.
var ErrSettingsIncomplete = errors.New("strategy settings incomplete")

// StrategySettings — неизменяемый снапшот настроек стратегии на один тик.
// Перечитывается раз в тик, изменения вступают в силу со следующего тика.
type StrategySettings struct {
	Window           int     // дней для расчёта уровней
	Interval         string  // размер свечи: "1","3","5",...,"D","W","M"
	SMAPeriod        int     // период скользящего среднего объёма
	VolumeMultiplier float64 // порог: volume > SMA * multiplier
	TPRate           float64 // take-profit, доля от цены
	SLRate           float64 // stop-loss, доля от цены
	RiskLimit        float64 // circuit breaker: total <= RiskLimit*startBudget
	TradingEnabled   bool    // false => только логируем сигналы
}

// ParseStrategySettings собирает снапшот из сырых строк settings_vars.
// Отсутствие ключа => ErrSettingsIncomplete, кривое значение => фатальная
// ошибка разбора (с такими настройками торговый цикл стартовать не должен).
func ParseStrategySettings(raw map[string]string) (StrategySettings, error) {
	var s StrategySettings

	required := []string{
		SettingWindow, SettingKline, SettingSMAPeriod, SettingMultiplier,
		SettingTPRate, SettingSLRate, SettingRiskLimit, SettingTradeEnabled,
	}
	for _, name := range required {
		if _, ok := raw[name]; !ok {
			return s, fmt.Errorf("%w: missing %q", ErrSettingsIncomplete, name)
		}
	}

	var err error
	if s.Window, err = parseIntSetting(raw, SettingWindow); err != nil {
		return s, err
	}
	s.Interval = raw[SettingKline]
	if s.Interval == "" {
		return s, fmt.Errorf("setting %q: empty value", SettingKline)
	}
	if s.SMAPeriod, err = parseIntSetting(raw, SettingSMAPeriod); err != nil {
		return s, err
	}
	if s.VolumeMultiplier, err = parseFloatSetting(raw, SettingMultiplier); err != nil {
		return s, err
	}
	if s.TPRate, err = parseFloatSetting(raw, SettingTPRate); err != nil {
		return s, err
	}
	if s.SLRate, err = parseFloatSetting(raw, SettingSLRate); err != nil {
		return s, err
	}
	if s.RiskLimit, err = parseFloatSetting(raw, SettingRiskLimit); err != nil {
		return s, err
	}

	switch raw[SettingTradeEnabled] {
	case "1":
		s.TradingEnabled = true
	case "0":
		s.TradingEnabled = false
	default:
		return s, fmt.Errorf("setting %q: want 0/1, got %q", SettingTradeEnabled, raw[SettingTradeEnabled])
	}

	if s.Window <= 0 || s.SMAPeriod <= 0 || s.VolumeMultiplier <= 0 {
		return s, fmt.Errorf("settings: window/sma_period/multiplicator must be positive")
	}

	return s, nil
}

func parseIntSetting(raw map[string]string, name string) (int, error) {
	v, err := strconv.Atoi(raw[name])
	if err != nil {
		return 0, fmt.Errorf("setting %q: %w", name, err)
	}
	return v, nil
}

func parseFloatSetting(raw map[string]string, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw[name], 64)
	if err != nil {
		return 0, fmt.Errorf("setting %q: %w", name, err)
	}
	return v, nil
}
