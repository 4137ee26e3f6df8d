package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"breakout_bot/internal/models"
)

// GetKlines отдаёт свечи linear-перпетуала, СТАРЕЙШАЯ ПЕРВОЙ.
// Последний элемент — текущий, ещё не закрытый период: кому нужны только
// закрытые свечи, тот отбрасывает хвост сам.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 200
	}

	params := url.Values{}
	params.Set("category", "linear")
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	var resp klinesResponse
	if err := c.getPublic(ctx, "/v5/market/kline", params, &resp); err != nil {
		return nil, fmt.Errorf("get klines %s: %w", symbol, err)
	}
	if resp.RetMsg != "OK" {
		return nil, fmt.Errorf("get klines %s: retCode=%d retMsg=%s", symbol, resp.RetCode, resp.RetMsg)
	}

	// Bybit отдаёт newest-first — разворачиваем
	rows := resp.Result.List
	out := make([]models.Candle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		start, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(row[1], 64)
		high, err2 := strconv.ParseFloat(row[2], 64)
		low, err3 := strconv.ParseFloat(row[3], 64)
		closep, err4 := strconv.ParseFloat(row[4], 64)
		vol, err5 := strconv.ParseFloat(row[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		out = append(out, models.Candle{
			Symbol:   symbol,
			Interval: interval,
			Start:    start,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closep,
			Volume:   vol,
		})
	}
	return out, nil
}

// LastPrice — последняя цена по тикеру.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("category", "linear")
	params.Set("symbol", symbol)

	var resp tickersResponse
	if err := c.getPublic(ctx, "/v5/market/tickers", params, &resp); err != nil {
		return 0, fmt.Errorf("get ticker %s: %w", symbol, err)
	}
	if resp.RetMsg != "OK" || len(resp.Result.List) == 0 {
		return 0, fmt.Errorf("get ticker %s: retCode=%d retMsg=%s", symbol, resp.RetCode, resp.RetMsg)
	}

	px, err := strconv.ParseFloat(resp.Result.List[0].LastPrice, 64)
	if err != nil || px <= 0 {
		return 0, fmt.Errorf("get ticker %s: bad lastPrice %q", symbol, resp.Result.List[0].LastPrice)
	}
	return px, nil
}

// GetLinearInstruments — каталог торгуемых USDT-перпетуалов с точностью
// цены/количества. Снимается один раз на старте процесса.
func (c *Client) GetLinearInstruments(ctx context.Context) ([]string, map[string]models.InstrumentParams, error) {
	params := url.Values{}
	params.Set("category", "linear")

	var resp instrumentsResponse
	if err := c.getPublic(ctx, "/v5/market/instruments-info", params, &resp); err != nil {
		return nil, nil, fmt.Errorf("get instruments: %w", err)
	}
	if resp.RetMsg != "OK" {
		return nil, nil, fmt.Errorf("get instruments: retCode=%d retMsg=%s", resp.RetCode, resp.RetMsg)
	}

	symbols := make([]string, 0, len(resp.Result.List))
	bydSymbol := make(map[string]models.InstrumentParams, len(resp.Result.List))
	for _, inst := range resp.Result.List {
		if inst.QuoteCoin != "USDT" || inst.Status != "Trading" || inst.ContractType != "LinearPerpetual" {
			continue
		}

		qtyStep, err1 := strconv.ParseFloat(inst.LotSizeFilter.QtyStep, 64)
		tick, err2 := strconv.ParseFloat(inst.PriceFilter.TickSize, 64)
		minQty, err3 := strconv.ParseFloat(inst.LotSizeFilter.MinOrderQty, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nil, fmt.Errorf("instrument %s: bad filters", inst.Symbol)
		}

		p := models.InstrumentParams{
			Symbol:      inst.Symbol,
			QtyStep:     qtyStep,
			PriceTick:   tick,
			MinOrderQty: minQty,
		}
		if err := p.Validate(); err != nil {
			return nil, nil, err
		}

		symbols = append(symbols, inst.Symbol)
		bydSymbol[inst.Symbol] = p
	}

	if len(symbols) == 0 {
		return nil, nil, fmt.Errorf("get instruments: empty linear perpetual list")
	}
	return symbols, bydSymbol, nil
}
