package runner

import (
	"context"
	"testing"

	"breakout_bot/internal/models"
	bybit "breakout_bot/internal/modules/bybit_client/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placedOrder struct {
	symbol string
	side   models.Side
	qty    float64
	tp     float64
	sl     float64
}

type fakeVenue struct {
	balance models.WalletBalance
	price   float64
	result  bybit.OrderResult
	placed  []placedOrder
}

func (f *fakeVenue) WalletBalance(context.Context, string) (models.WalletBalance, error) {
	return f.balance, nil
}

func (f *fakeVenue) LastPrice(context.Context, string) (float64, error) {
	return f.price, nil
}

func (f *fakeVenue) PlaceMarket(_ context.Context, symbol string, side models.Side, qty, tp, sl float64) (bybit.OrderResult, error) {
	f.placed = append(f.placed, placedOrder{symbol: symbol, side: side, qty: qty, tp: tp, sl: sl})
	return f.result, nil
}

type fakeCatalog struct {
	params map[string]models.InstrumentParams
}

func (f *fakeCatalog) Param(symbol string) (models.InstrumentParams, bool) {
	p, ok := f.params[symbol]
	return p, ok
}

func btcCatalog() *fakeCatalog {
	return &fakeCatalog{params: map[string]models.InstrumentParams{
		"BTCUSDT": {Symbol: "BTCUSDT", QtyStep: 0.001, PriceTick: 0.5, MinOrderQty: 0.001},
	}}
}

func testSettings() models.StrategySettings {
	return models.StrategySettings{
		TPRate:    0.02,
		SLRate:    0.01,
		RiskLimit: 0.8,
	}
}

func testSignal() models.Signal {
	return models.Signal{Symbol: "BTCUSDT", Side: models.SideBuy}
}

func TestExecutePlacesBracketedOrder(t *testing.T) {
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 1000, Available: 500},
		price:   100,
		result:  bybit.OrderResult{Status: bybit.OrderPlaced, OrderID: "oid-1"},
	}
	e := NewExecutor(venue, btcCatalog())

	report, err := e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	assert.Equal(t, OutcomePlaced, report.Outcome)
	assert.Equal(t, "oid-1", report.OrderID)

	require.Len(t, venue.placed, 1)
	o := venue.placed[0]
	assert.InDelta(t, 5.0, o.qty, 1e-9)  // 500/100 по шагу 0.001
	assert.InDelta(t, 102.0, o.tp, 1e-9) // 100*1.02 по тику 0.5
	assert.InDelta(t, 99.0, o.sl, 1e-9)  // 100*0.99
}

func TestExecuteShortMirrorsBracket(t *testing.T) {
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 1000, Available: 500},
		price:   100,
		result:  bybit.OrderResult{Status: bybit.OrderPlaced, OrderID: "oid-2"},
	}
	e := NewExecutor(venue, btcCatalog())

	sig := testSignal()
	sig.Side = models.SideSell
	_, err := e.Execute(context.Background(), sig, testSettings())
	require.NoError(t, err)

	require.Len(t, venue.placed, 1)
	o := venue.placed[0]
	assert.InDelta(t, 98.0, o.tp, 1e-9)  // TP ниже цены
	assert.InDelta(t, 101.0, o.sl, 1e-9) // SL выше
}

func TestExecuteGuardsTinyBudget(t *testing.T) {
	// 0.05/100 = 0.0005 < MinOrderQty после округления по шагу
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 1000, Available: 0.05},
		price:   100,
	}
	e := NewExecutor(venue, btcCatalog())

	report, err := e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	assert.Equal(t, OutcomeGuarded, report.Outcome)
	assert.Empty(t, venue.placed, "ордер не должен отправляться")
}

func TestExecuteGuardsDrawdown(t *testing.T) {
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 10, Available: 5},
		price:   100,
		result:  bybit.OrderResult{Status: bybit.OrderPlaced, OrderID: "oid-3"},
	}
	e := NewExecutor(venue, btcCatalog())

	// первый вызов фиксирует стартовый бюджет 10
	report, err := e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	require.Equal(t, OutcomePlaced, report.Outcome)

	// просели до 6 <= 0.8*10 — дальше не торгуем
	venue.balance = models.WalletBalance{Total: 6, Available: 6}
	report, err = e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	assert.Equal(t, OutcomeGuarded, report.Outcome)
	assert.Len(t, venue.placed, 1, "второго ордера быть не должно")
}

func TestExecuteSizingGuardWinsOverDrawdown(t *testing.T) {
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 10, Available: 5},
		price:   100,
		result:  bybit.OrderResult{Status: bybit.OrderPlaced, OrderID: "oid-4"},
	}
	e := NewExecutor(venue, btcCatalog())

	report, err := e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	require.Equal(t, OutcomePlaced, report.Outcome) // стартовый бюджет 10

	// сработали оба предохранителя: остаток меньше лота И просадка —
	// в отчёте причина про размер, она проверяется первой
	venue.balance = models.WalletBalance{Total: 6, Available: 0.05}
	report, err = e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err)
	assert.Equal(t, OutcomeGuarded, report.Outcome)
	assert.Contains(t, report.Reason, "лот")
	assert.Len(t, venue.placed, 1)
}

func TestExecuteMapsVenueRejection(t *testing.T) {
	venue := &fakeVenue{
		balance: models.WalletBalance{Total: 1000, Available: 500},
		price:   100,
		result:  bybit.OrderResult{Status: bybit.OrderInsufficientFunds, RetMsg: "ab not enough for new order"},
	}
	e := NewExecutor(venue, btcCatalog())

	report, err := e.Execute(context.Background(), testSignal(), testSettings())
	require.NoError(t, err, "отказ биржи — не транспортная ошибка")
	assert.Equal(t, OutcomeRejected, report.Outcome)
}

func TestExecuteUnknownSymbolGuarded(t *testing.T) {
	venue := &fakeVenue{balance: models.WalletBalance{Total: 1000, Available: 500}, price: 100}
	e := NewExecutor(venue, btcCatalog())

	sig := testSignal()
	sig.Symbol = "NOPEUSDT"
	report, err := e.Execute(context.Background(), sig, testSettings())
	require.NoError(t, err)
	assert.Equal(t, OutcomeGuarded, report.Outcome)
}
