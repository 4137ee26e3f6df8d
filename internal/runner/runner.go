package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/levels"
	"breakout_bot/internal/models"
	"breakout_bot/internal/modules/config"
	health "breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/notify"
	"breakout_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// CandleBuffer — стейджинг-буфер закрытых свечей.
type CandleBuffer interface {
	CreateTable(ctx context.Context) error
	DrainAll(ctx context.Context) ([]models.Candle, error)
}

// SettingsSource — настройки стратегии, заведённые через телеграм.
type SettingsSource interface {
	CreateTable(ctx context.Context) error
	SelectAll(ctx context.Context) (map[string]string, error)
}

// Catalog — снапшот инструментов биржи.
type Catalog interface {
	Load(ctx context.Context) error
	Symbols() []string
	Param(symbol string) (models.InstrumentParams, bool)
}

// Engine — основной торговый цикл: дренирует буфер, ведёт окна,
// ищет пробои и отдаёт их исполнителю.
type Engine struct {
	cfg      *config.Config
	buffer   CandleBuffer
	settings SettingsSource
	catalog  Catalog
	fetcher  levels.KlineFetcher
	levels   *levels.Calculator
	executor *Executor
	notifier notify.Notifier
	state    *health.State
	metrics  *health.Metrics

	// всё ниже трогает только горутина Run
	snapshot       models.StrategySettings
	windows        map[string]*Window
	levelsBySymbol map[string]models.LevelPair
	levelsDay      time.Time
}

func NewEngine(
	cfg *config.Config,
	buffer CandleBuffer,
	settings SettingsSource,
	catalog Catalog,
	fetcher levels.KlineFetcher,
	calc *levels.Calculator,
	executor *Executor,
	notifier notify.Notifier,
	state *health.State,
	metrics *health.Metrics,
) *Engine {
	return &Engine{
		cfg:            cfg,
		buffer:         buffer,
		settings:       settings,
		catalog:        catalog,
		fetcher:        fetcher,
		levels:         calc,
		executor:       executor,
		notifier:       notifier,
		state:          state,
		metrics:        metrics,
		windows:        make(map[string]*Window),
		levelsBySymbol: make(map[string]models.LevelPair),
	}
}

// Run — старт и вечный цикл. Возвращается только по ошибке подготовки
// или отмене контекста.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.buffer.CreateTable(ctx); err != nil {
		return err
	}
	if err := e.settings.CreateTable(ctx); err != nil {
		return err
	}

	if err := e.waitSettings(ctx); err != nil {
		return err
	}
	e.state.SetSettingsReady(true)
	logger.Info("[ENGINE] настройки получены: interval=%s window=%d sma=%d mult=%.2f trade=%v",
		e.snapshot.Interval, e.snapshot.Window, e.snapshot.SMAPeriod,
		e.snapshot.VolumeMultiplier, e.snapshot.TradingEnabled)

	if err := e.catalog.Load(ctx); err != nil {
		return err
	}

	if err := e.warmup(ctx); err != nil {
		return err
	}

	e.recomputeLevels(ctx)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// waitSettings ждёт, пока пользователь заведёт все переменные стратегии.
// Неполный набор — ждём дальше; кривое значение — фатал, стартовать
// с мусорными настройками нельзя.
func (e *Engine) waitSettings(ctx context.Context) error {
	for {
		raw, err := e.settings.SelectAll(ctx)
		if err != nil {
			return err
		}

		s, err := models.ParseStrategySettings(raw)
		if err == nil {
			e.snapshot = s
			return nil
		}
		if !errors.Is(err, models.ErrSettingsIncomplete) {
			return fmt.Errorf("strategy settings: %w", err)
		}

		logger.Info("[ENGINE] ждём настройки стратегии: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.SettingsPollWait):
		}
	}
}

// warmup наполняет окна историей, чтобы SMA была определена с первого
// тика, а не через sma_period живых свечей.
func (e *Engine) warmup(ctx context.Context) error {
	symbols := e.catalog.Symbols()
	need := e.snapshot.SMAPeriod + 2 // period+1 закрытых + текущий незакрытый

	for _, symbol := range symbols {
		candles, err := e.fetcher.GetKlines(ctx, symbol, e.snapshot.Interval, need)
		if err != nil {
			// история не критична: окно доберётся живыми свечами
			logger.Error("[ENGINE] warmup %s: %v", symbol, err)
			continue
		}
		if len(candles) > 0 {
			candles = candles[:len(candles)-1] // хвост ещё не закрыт
		}

		w := NewWindow(e.snapshot.SMAPeriod)
		w.Merge(candles...)
		e.windows[symbol] = w
	}

	logger.Info("[ENGINE] warmup: %d инструментов, пауза %s", len(symbols), e.cfg.WarmupPause)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.cfg.WarmupPause):
	}
	return nil
}

// recomputeLevels пересчитывает дневные уровни. По инструментам, где
// расчёт окончательно не удался, остаются уровни прошлого дня.
func (e *Engine) recomputeLevels(ctx context.Context) {
	span := opentracing.StartSpan("levels.recompute")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	computed, failed := e.levels.Compute(ctx, e.catalog.Symbols(), e.snapshot.Window)
	for symbol, pair := range computed {
		e.levelsBySymbol[symbol] = pair
	}
	e.metrics.LevelFailures.Add(float64(len(failed)))
	e.levelsDay = helper.StartOfUTCDay(time.Now())

	logger.Info("[LEVELS] пересчитано: %d, оставлено на старых: %d", len(computed), len(failed))
}

func (e *Engine) tick(ctx context.Context) {
	span := opentracing.StartSpan("engine.tick")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	e.metrics.Ticks.Inc()
	e.state.MarkTick()

	e.refreshSettings(ctx)

	if day := helper.StartOfUTCDay(time.Now()); day.After(e.levelsDay) {
		e.recomputeLevels(ctx)
	}

	candles, err := e.buffer.DrainAll(ctx)
	if err != nil {
		logger.Error("[ENGINE] drain: %v", err)
		return
	}
	e.metrics.DrainSize.Observe(float64(len(candles)))
	if len(candles) == 0 {
		return
	}

	// старые свечи вливаются раньше свежих
	sort.Slice(candles, func(i, j int) bool { return candles[i].Start < candles[j].Start })

	updated := make(map[string]struct{})
	for _, c := range candles {
		w, ok := e.windows[c.Symbol]
		if !ok {
			w = NewWindow(e.snapshot.SMAPeriod)
			e.windows[c.Symbol] = w
		}
		w.Merge(c)
		updated[c.Symbol] = struct{}{}
	}

	for symbol := range updated {
		e.evaluateSymbol(ctx, symbol)
	}
}

// refreshSettings перечитывает снапшот настроек. Сломанные или неполные
// настройки посреди работы не валят цикл: остаёмся на прошлом снапшоте.
func (e *Engine) refreshSettings(ctx context.Context) {
	raw, err := e.settings.SelectAll(ctx)
	if err != nil {
		logger.Error("[ENGINE] настройки: %v", err)
		return
	}
	s, err := models.ParseStrategySettings(raw)
	if err != nil {
		logger.Error("[ENGINE] настройки не применены: %v", err)
		return
	}

	// новый период SMA должен дойти до уже живущих окон
	if s.SMAPeriod != e.snapshot.SMAPeriod {
		for _, w := range e.windows {
			w.Resize(s.SMAPeriod)
		}
	}
	e.snapshot = s
}

func (e *Engine) evaluateSymbol(ctx context.Context, symbol string) {
	pair, ok := e.levelsBySymbol[symbol]
	if !ok {
		return
	}

	sig, ok := Evaluate(e.windows[symbol], pair, e.snapshot.VolumeMultiplier)
	if !ok {
		return
	}

	e.metrics.Signals.WithLabelValues(string(sig.Side)).Inc()
	logger.Info("[SIGNAL] %s %s: close=%v volume=%v sma=%v level=%v",
		sig.Side, sig.Symbol, sig.Price, sig.Volume, sig.VolumeSMA, sig.Level)
	e.notifier.Send(ctx, "%s %s: пробой %v объёмом %v (SMA %v)",
		sig.Side, sig.Symbol, sig.Level, sig.Volume, sig.VolumeSMA)

	if !e.snapshot.TradingEnabled {
		logger.Info("[SIGNAL] %s: торговля выключена, только наблюдаем", sig.Symbol)
		return
	}

	report, err := e.executor.Execute(ctx, sig, e.snapshot)
	if err != nil {
		e.metrics.Orders.WithLabelValues("failed").Inc()
		logger.Error("[ORDER] %s: %v", sig.Symbol, err)
		return
	}

	e.metrics.Orders.WithLabelValues(string(report.Outcome)).Inc()
	switch report.Outcome {
	case OutcomePlaced:
		logger.Info("[ORDER] %s %s: id=%s qty=%v tp=%v sl=%v",
			sig.Side, sig.Symbol, report.OrderID, report.Qty, report.TP, report.SL)
		e.notifier.Send(ctx, "ордер %s %s: qty=%v tp=%v sl=%v",
			sig.Side, sig.Symbol, report.Qty, report.TP, report.SL)
	case OutcomeGuarded:
		logger.Info("[ORDER] %s: пропущен, %s", sig.Symbol, report.Reason)
	case OutcomeRejected:
		logger.Error("[ORDER] %s: отклонён биржей, %s", sig.Symbol, report.Reason)
		e.notifier.Send(ctx, "ордер %s отклонён: %s", sig.Symbol, report.Reason)
	}
}
