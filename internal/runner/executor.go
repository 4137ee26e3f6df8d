package runner

import (
	"context"
	"fmt"
	"sync"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/models"
	bybit "breakout_bot/internal/modules/bybit_client/service"
)

const settleCoin = "USDT"

// Outcome — чем закончилась попытка исполнить сигнал.
type Outcome string

const (
	// OutcomePlaced — ордер принят биржей.
	OutcomePlaced Outcome = "placed"
	// OutcomeGuarded — ордер не отправлялся: сработал внутренний предохранитель.
	OutcomeGuarded Outcome = "guarded"
	// OutcomeRejected — биржа отказала (включая нехватку доступного баланса).
	OutcomeRejected Outcome = "rejected"
)

// ExecReport — результат исполнения для лога и нотификаций.
type ExecReport struct {
	Outcome Outcome
	Reason  string
	OrderID string
	Qty     float64
	TP      float64
	SL      float64
}

// tradeVenue — часть биржевого клиента, нужная исполнителю.
type tradeVenue interface {
	WalletBalance(ctx context.Context, coin string) (models.WalletBalance, error)
	LastPrice(ctx context.Context, symbol string) (float64, error)
	PlaceMarket(ctx context.Context, symbol string, side models.Side, qty, takeProfit, stopLoss float64) (bybit.OrderResult, error)
}

type instrumentSource interface {
	Param(symbol string) (models.InstrumentParams, bool)
}

// Executor превращает сигнал в рыночный ордер с TP/SL.
// startBudget фиксируется при первом успешном чтении баланса и дальше
// служит базой для circuit breaker по просадке.
type Executor struct {
	venue   tradeVenue
	catalog instrumentSource

	mu          sync.Mutex
	startBudget float64
}

func NewExecutor(venue tradeVenue, catalog instrumentSource) *Executor {
	return &Executor{venue: venue, catalog: catalog}
}

// Execute исполняет сигнал. Guarded-результаты — это штатные отказы
// предохранителей, err только на транспортных проблемах.
func (e *Executor) Execute(ctx context.Context, sig models.Signal, s models.StrategySettings) (ExecReport, error) {
	params, ok := e.catalog.Param(sig.Symbol)
	if !ok {
		return ExecReport{Outcome: OutcomeGuarded, Reason: "инструмент не в каталоге"}, nil
	}

	// баланс и цену тянем параллельно, тик короткий
	var (
		wg      sync.WaitGroup
		balance models.WalletBalance
		price   float64
		balErr  error
		pxErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		balance, balErr = e.venue.WalletBalance(ctx, settleCoin)
	}()
	go func() {
		defer wg.Done()
		price, pxErr = e.venue.LastPrice(ctx, sig.Symbol)
	}()
	wg.Wait()
	if balErr != nil {
		return ExecReport{}, fmt.Errorf("execute %s: %w", sig.Symbol, balErr)
	}
	if pxErr != nil {
		return ExecReport{}, fmt.Errorf("execute %s: %w", sig.Symbol, pxErr)
	}

	e.mu.Lock()
	if e.startBudget == 0 {
		e.startBudget = balance.Total
	}
	startBudget := e.startBudget
	e.mu.Unlock()

	// сначала размер: мелкий остаток отсекается раньше лимита просадки
	qty := helper.FloorToStep(balance.Available/price, params.QtyStep)
	if qty < params.MinOrderQty {
		return ExecReport{
			Outcome: OutcomeGuarded,
			Reason: fmt.Sprintf("бюджета не хватает на минимальный лот: qty %v < min %v",
				qty, params.MinOrderQty),
		}, nil
	}

	// просадка: ниже доли riskLimit от стартового бюджета не торгуем
	if balance.Total <= s.RiskLimit*startBudget {
		return ExecReport{
			Outcome: OutcomeGuarded,
			Reason: fmt.Sprintf("лимит просадки: total %.2f <= %.2f*%.2f",
				balance.Total, s.RiskLimit, startBudget),
		}, nil
	}

	tp, sl := bracketPrices(sig.Side, price, s.TPRate, s.SLRate, params.PriceTick)

	res, err := e.venue.PlaceMarket(ctx, sig.Symbol, sig.Side, qty, tp, sl)
	if err != nil {
		return ExecReport{}, fmt.Errorf("execute %s: %w", sig.Symbol, err)
	}

	report := ExecReport{Qty: qty, TP: tp, SL: sl}
	switch res.Status {
	case bybit.OrderPlaced:
		report.Outcome = OutcomePlaced
		report.OrderID = res.OrderID
	case bybit.OrderInsufficientFunds:
		report.Outcome = OutcomeRejected
		report.Reason = "биржа: недостаточно доступного баланса"
	default:
		report.Outcome = OutcomeRejected
		report.Reason = "биржа: " + res.RetMsg
	}
	return report, nil
}

// bracketPrices — TP/SL от текущей цены, округление вниз до тика.
// Для шорта зеркально: TP ниже цены, SL выше.
func bracketPrices(side models.Side, price, tpRate, slRate, tick float64) (tp, sl float64) {
	if side == models.SideBuy {
		tp = helper.FloorToStep(price*(1+tpRate), tick)
		sl = helper.FloorToStep(price*(1-slRate), tick)
		return tp, sl
	}
	tp = helper.FloorToStep(price*(1-tpRate), tick)
	sl = helper.FloorToStep(price*(1+slRate), tick)
	return tp, sl
}
